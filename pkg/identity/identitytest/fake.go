// Package identitytest provides an in-memory identity.Client for tests.
package identitytest

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"aquatech-web/pkg/identity"
)

// Fake records calls and answers from configurable state. Hooks, when set, take
// precedence over the default behaviour.
type Fake struct {
	mu sync.Mutex

	// Users by access token.
	Users map[string]*identity.User
	// Sessions returned by ExchangeCode, by auth code.
	Codes map[string]*identity.Session
	// Sessions returned by RefreshSession, by refresh token.
	Refreshes map[string]*identity.Session

	OTPErr error

	GetUserHook func(ctx context.Context, accessToken string) (*identity.User, error)

	OTPCalls     []OTPCall
	SignOutCalls []string
	Exchanges    []string
	RefreshCalls []string
	GetUserCalls int
}

type OTPCall struct {
	Email string
	Opts  identity.OTPOptions
}

func New() *Fake {
	return &Fake{
		Users:     map[string]*identity.User{},
		Codes:     map[string]*identity.Session{},
		Refreshes: map[string]*identity.Session{},
	}
}

// AddSession registers a code that exchanges to a session for user, valid for ttl.
func (f *Fake) AddSession(code string, user *identity.User, ttl time.Duration) *identity.Session {
	f.mu.Lock()
	defer f.mu.Unlock()

	access := fmt.Sprintf("access-%s", code)
	session := &identity.Session{
		AccessToken:  access,
		TokenType:    "bearer",
		ExpiresAt:    time.Now().Add(ttl).Unix(),
		RefreshToken: fmt.Sprintf("refresh-%s", code),
		User:         user,
	}
	f.Codes[code] = session
	f.Users[access] = user
	return session
}

func (f *Fake) SignInWithOTP(ctx context.Context, email string, opts identity.OTPOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.OTPCalls = append(f.OTPCalls, OTPCall{Email: email, Opts: opts})
	return f.OTPErr
}

func (f *Fake) AuthorizeURL(provider string, opts identity.OAuthOptions) (string, error) {
	q := url.Values{}
	q.Set("provider", provider)
	q.Set("redirect_to", opts.RedirectTo)
	if opts.CodeVerifier != "" {
		q.Set("code_challenge_method", "S256")
	}
	return "https://identity.test/auth/v1/authorize?" + q.Encode(), nil
}

func (f *Fake) ExchangeCode(ctx context.Context, authCode, codeVerifier string) (*identity.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Exchanges = append(f.Exchanges, authCode)

	session, ok := f.Codes[authCode]
	if !ok {
		return nil, &identity.APIError{Status: 400, Code: "invalid_grant", Message: "invalid flow state, no valid flow state found"}
	}
	copied := *session
	return &copied, nil
}

func (f *Fake) RefreshSession(ctx context.Context, refreshToken string) (*identity.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.RefreshCalls = append(f.RefreshCalls, refreshToken)

	session, ok := f.Refreshes[refreshToken]
	if !ok {
		return nil, &identity.APIError{Status: 400, Code: "refresh_token_not_found", Message: "Invalid Refresh Token: Refresh Token Not Found"}
	}
	f.Users[session.AccessToken] = session.User
	copied := *session
	return &copied, nil
}

func (f *Fake) GetUser(ctx context.Context, accessToken string) (*identity.User, error) {
	f.mu.Lock()
	f.GetUserCalls++
	hook := f.GetUserHook
	user, ok := f.Users[accessToken]
	f.mu.Unlock()

	if hook != nil {
		return hook(ctx, accessToken)
	}
	if !ok {
		return nil, &identity.APIError{Status: 401, Code: "bad_jwt", Message: "invalid JWT"}
	}
	return user, nil
}

func (f *Fake) SignOut(ctx context.Context, accessToken string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SignOutCalls = append(f.SignOutCalls, accessToken)
	delete(f.Users, accessToken)
	return nil
}

func (f *Fake) OTPCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.OTPCalls)
}

var _ identity.Client = (*Fake)(nil)
