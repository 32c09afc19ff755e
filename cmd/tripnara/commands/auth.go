// ABOUTME: Auth commands: email code login, session status, token refresh and logout
// ABOUTME: The session lives in the local sqlite store so later commands reuse it
package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"github.com/tripnara/tripnara-go/internal/models"
)

// NewAuthCmd creates the auth command group
func NewAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign in and manage the session",
		Long: `Sign in to TripNARA and manage the stored session.

Logging in stores the access token locally; the refresh credential
is a server cookie, renewed transparently when the token expires.`,
	}
	cmd.AddCommand(newAuthLoginCmd(), newAuthStatusCmd(), newAuthRefreshCmd(), newAuthLogoutCmd())
	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var email, code, name string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with an emailed code",
		Long: `Log in with an emailed one-time code.

Run once with --email to receive a code, then again with --code.`,
		Example: `  tripnara auth login --email ana@example.com
  tripnara auth login --email ana@example.com --code 123456`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				return fmt.Errorf("--email is required")
			}
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				if code == "" {
					if err := a.api.Auth.SendEmailCode(ctx, email); err != nil {
						return err
					}
					notef(cmd, "Code sent to %s. Run again with --code to finish.", email)
					return nil
				}
				req := models.EmailLoginRequest{Email: email, Code: code, DisplayName: name}
				session, err := a.api.Auth.LoginWithEmail(ctx, req)
				if err != nil {
					return err
				}
				if err := a.store.Sessions().Save(*session); err != nil {
					return fmt.Errorf("saving session: %w", err)
				}
				if jsonOutput() {
					return printJSON(cmd, session.User)
				}
				notef(cmd, "Logged in as %s", displayUser(&session.User))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&code, "code", "", "One-time code from the email")
	cmd.Flags().StringVar(&name, "name", "", "Display name for new accounts")
	return cmd
}

// tokenInfo is what status shows about the stored token. The signature is not checked;
// only the server can do that.
type tokenInfo struct {
	Subject   string    `json:"subject,omitempty"`
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
	Expired   bool      `json:"expired"`
}

func inspectToken(raw string, now time.Time) (*tokenInfo, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("stored token is not a JWT: %w", err)
	}
	info := &tokenInfo{}
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
		info.Expired = now.After(exp.Time)
	}
	return info, nil
}

func displayUser(u *models.User) string {
	if u == nil {
		return "(unknown)"
	}
	if name := deref(u.DisplayName); name != "" {
		return name
	}
	if email := deref(u.Email); email != "" {
		return email
	}
	return u.ID
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the signed-in user and token expiry",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				tok := a.store.Sessions().Token()
				user, err := a.store.Sessions().User()
				if err != nil {
					return err
				}
				status := map[string]any{"signedIn": tok != "", "apiBaseUrl": a.cfg.APIBaseURL, "apiBaseUrlSource": a.cfg.APIBaseURLSource}
				var info *tokenInfo
				if tok != "" {
					if info, err = inspectToken(tok, time.Now()); err == nil {
						status["token"] = info
					}
				}
				if user != nil {
					status["user"] = user
				}
				if jsonOutput() {
					return printJSON(cmd, status)
				}

				w := cmd.OutOrStdout()
				fmt.Fprintf(w, "API:    %s (%s)\n", a.cfg.APIBaseURL, a.cfg.APIBaseURLSource)
				if tok == "" {
					fmt.Fprintln(w, "Status: Not signed in")
					fmt.Fprintln(w, "Run 'tripnara auth login' to sign in")
					return nil
				}
				fmt.Fprintf(w, "Status: Signed in as %s\n", displayUser(user))
				switch {
				case info == nil:
					fmt.Fprintln(w, "Token:  opaque")
				case info.ExpiresAt.IsZero():
					fmt.Fprintln(w, "Token:  no expiry")
				case info.Expired:
					fmt.Fprintf(w, "Token:  expired %s (renewed on next request)\n", info.ExpiresAt.Local().Format(time.RFC1123))
				default:
					fmt.Fprintf(w, "Token:  valid until %s\n", info.ExpiresAt.Local().Format(time.RFC1123))
				}
				return nil
			})
		},
	}
}

func newAuthRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Renew the access token now",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				if _, err := a.api.Auth.Refresh(ctx); err != nil {
					return err
				}
				notef(cmd, "Token refreshed")
				return nil
			})
		},
	}
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget the stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, appOptions{}, func(ctx context.Context, a *app) error {
				err := a.api.Auth.Logout(ctx)
				// The local session goes regardless of what the server said.
				if clearErr := a.store.Sessions().Clear(); clearErr != nil && err == nil {
					err = clearErr
				}
				if err != nil {
					return err
				}
				notef(cmd, "Logged out")
				return nil
			})
		},
	}
}
