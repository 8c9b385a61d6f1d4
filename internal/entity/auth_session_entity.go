package entity

import "time"

// SessionUser is the identity observed for a browser session. The identity
// service owns it; the application never mutates it.
type SessionUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Provider  string `json:"provider,omitempty"`
}

// DisplayName falls back to the email when the provider gave no name.
func (u *SessionUser) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email
}

type AuthSession struct {
	ID           string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	User         *SessionUser
	CodeVerifier string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (s *AuthSession) SignedIn() bool {
	return s != nil && s.AccessToken != "" && s.User != nil
}

// ExpiresWithin reports whether the access token expires before now+d.
// A zero ExpiresAt never expires.
func (s *AuthSession) ExpiresWithin(now time.Time, d time.Duration) bool {
	if s.ExpiresAt.IsZero() {
		return false
	}
	return !now.Add(d).Before(s.ExpiresAt)
}
