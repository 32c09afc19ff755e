// ABOUTME: Authentication request and session records
package models

type User struct {
	ID            string  `json:"id"`
	Email         *string `json:"email"`
	DisplayName   *string `json:"displayName"`
	AvatarURL     *string `json:"avatarUrl"`
	EmailVerified *bool   `json:"emailVerified"`
}

// Session is what every login variant yields.
type Session struct {
	User        User   `json:"user"`
	AccessToken string `json:"accessToken"`
}

type RefreshResult struct {
	AccessToken string `json:"accessToken"`
}

type GoogleCodeRequest struct {
	Code        string `json:"code"`
	RedirectURI string `json:"redirectUri,omitempty"`
}

type GoogleIDTokenRequest struct {
	IDToken string `json:"idToken"`
}

type EmailCodeRequest struct {
	Email string `json:"email"`
}

type EmailLoginRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	DisplayName string `json:"displayName,omitempty"`
}
