// ABOUTME: Authentication endpoints: Google code and ID-token login, email code login, refresh and logout
// ABOUTME: Successful logins persist the issued access token into the client's token store
package api

import (
	"context"
	"fmt"

	"github.com/tripnara/tripnara-go/internal/httpclient"
	"github.com/tripnara/tripnara-go/internal/models"
)

type AuthService struct {
	c *httpclient.Client
}

// LoginWithCode exchanges a Google authorization code for a session.
func (s *AuthService) LoginWithCode(ctx context.Context, req models.GoogleCodeRequest) (*models.Session, error) {
	return s.login(ctx, httpclient.Post("/auth/google/code", req))
}

// LoginWithIDToken exchanges a Google ID token for a session.
func (s *AuthService) LoginWithIDToken(ctx context.Context, idToken string) (*models.Session, error) {
	return s.login(ctx, httpclient.Post("/auth/google/id-token", models.GoogleIDTokenRequest{IDToken: idToken}))
}

// SendEmailCode asks the backend to mail a one-time login code.
func (s *AuthService) SendEmailCode(ctx context.Context, email string) error {
	return httpclient.Exec(ctx, s.c, httpclient.Post("/auth/email/send-code", models.EmailCodeRequest{Email: email}))
}

// LoginWithEmail logs in with a mailed code.
func (s *AuthService) LoginWithEmail(ctx context.Context, req models.EmailLoginRequest) (*models.Session, error) {
	return s.login(ctx, httpclient.Post("/auth/email/login", req))
}

// RegisterWithEmail creates an account from a mailed code.
func (s *AuthService) RegisterWithEmail(ctx context.Context, req models.EmailLoginRequest) (*models.Session, error) {
	return s.login(ctx, httpclient.Post("/auth/email/register", req))
}

// Refresh rotates the access token using the refresh cookie.
func (s *AuthService) Refresh(ctx context.Context) (string, error) {
	return s.c.Refresh(ctx)
}

// Logout ends the server session and always clears the local token.
func (s *AuthService) Logout(ctx context.Context) error {
	err := httpclient.Exec(ctx, s.c, httpclient.Post("/auth/logout", nil))
	if clearErr := s.c.Tokens().Clear(); clearErr != nil && err == nil {
		err = clearErr
	}
	return err
}

// login accepts either the envelope or a bare session body.
func (s *AuthService) login(ctx context.Context, req *httpclient.Request) (*models.Session, error) {
	session, err := httpclient.Flexible[models.Session](ctx, s.c, req)
	if err != nil {
		return nil, err
	}
	if session.AccessToken == "" {
		return nil, fmt.Errorf("%s: response carried no access token", req.Path)
	}
	if err := s.c.Tokens().SetToken(session.AccessToken); err != nil {
		return nil, fmt.Errorf("storing session token: %w", err)
	}
	return &session, nil
}
