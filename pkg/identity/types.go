package identity

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// ErrNotConfigured is returned by every call when the service URL or anon key is missing.
var ErrNotConfigured = errors.New("identity service is not configured")

// Client is the subset of the managed identity service the web app depends on.
type Client interface {
	SignInWithOTP(ctx context.Context, email string, opts OTPOptions) error
	AuthorizeURL(provider string, opts OAuthOptions) (string, error)
	ExchangeCode(ctx context.Context, authCode, codeVerifier string) (*Session, error)
	RefreshSession(ctx context.Context, refreshToken string) (*Session, error)
	GetUser(ctx context.Context, accessToken string) (*User, error)
	SignOut(ctx context.Context, accessToken string) error
}

type OTPOptions struct {
	RedirectTo   string
	CodeVerifier string
	CreateUser   bool
}

type OAuthOptions struct {
	RedirectTo   string
	CodeVerifier string
}

type User struct {
	ID           string                 `json:"id"`
	Email        string                 `json:"email"`
	AppMetadata  map[string]interface{} `json:"app_metadata"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
	CreatedAt    time.Time              `json:"created_at"`
}

// Provider returns the provider the user last signed in with ("email", "google").
func (u *User) Provider() string {
	if v, ok := u.AppMetadata["provider"].(string); ok {
		return v
	}
	return ""
}

func (u *User) FullName() string {
	for _, key := range []string{"full_name", "name"} {
		if v, ok := u.UserMetadata[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func (u *User) AvatarURL() string {
	for _, key := range []string{"avatar_url", "picture"} {
		if v, ok := u.UserMetadata[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user"`
}

// Expiry prefers the absolute expires_at and falls back to expires_in relative to now.
func (s *Session) Expiry(now time.Time) time.Time {
	if s.ExpiresAt > 0 {
		return time.Unix(s.ExpiresAt, 0)
	}
	return now.Add(time.Duration(s.ExpiresIn) * time.Second)
}

// APIError carries the human-readable message returned by the identity service.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden
	}
	return false
}
