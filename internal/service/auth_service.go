package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"aquatech-web/internal/authevents"
	"aquatech-web/internal/dto"
	"aquatech-web/internal/entity"
	"aquatech-web/internal/pkg/logger"
	"aquatech-web/internal/repository/contract"
	"aquatech-web/pkg/events"
	"aquatech-web/pkg/identity"

	"golang.org/x/oauth2"
)

var (
	ErrNoPendingSignIn     = errors.New("This sign-in link was opened in a different browser or has already been used")
	ErrProviderNotAllowed  = errors.New("Unsupported sign-in provider")
	ErrMissingCallbackCode = errors.New("The sign-in callback did not include a code")
)

// RefreshLeeway is how close to expiry an access token gets refreshed.
const RefreshLeeway = 60 * time.Second

// EventPublisher receives audit copies of session transitions.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type IAuthService interface {
	SignInWithEmail(ctx context.Context, sessionID string, req *dto.EmailSignInRequest) error
	SignInWithOAuth(ctx context.Context, sessionID, provider string) (string, error)
	CompleteSignIn(ctx context.Context, sessionID, code string) (*entity.SessionUser, error)
	CurrentUser(ctx context.Context, sessionID string) (*entity.SessionUser, error)
	SignOut(ctx context.Context, sessionID string) error
	OnAuthStateChange(sessionID string, listener authevents.Listener) (authevents.Subscription, error)
}

type AuthServiceConfig struct {
	// CallbackURL is where the identity service sends the browser back to.
	CallbackURL string
	Providers   []string
}

type authService struct {
	identity       identity.Client
	sessions       contract.AuthSessionRepository
	notifier       *authevents.Notifier
	eventPublisher EventPublisher
	logger         logger.ILogger
	cfg            AuthServiceConfig
	now            func() time.Time
}

func NewAuthService(
	client identity.Client,
	sessions contract.AuthSessionRepository,
	notifier *authevents.Notifier,
	eventPublisher EventPublisher,
	log logger.ILogger,
	cfg AuthServiceConfig,
) IAuthService {
	return &authService{
		identity:       client,
		sessions:       sessions,
		notifier:       notifier,
		eventPublisher: eventPublisher,
		logger:         log,
		cfg:            cfg,
		now:            time.Now,
	}
}

func toSessionUser(u *identity.User) *entity.SessionUser {
	if u == nil || u.ID == "" {
		return nil
	}
	return &entity.SessionUser{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName(),
		AvatarURL: u.AvatarURL(),
		Provider:  u.Provider(),
	}
}

// pending stores a fresh PKCE verifier on the browser session, keeping
// whatever else the session holds.
func (s *authService) pending(ctx context.Context, sessionID string) (string, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return "", err
	}
	now := s.now()
	if sess == nil {
		sess = &entity.AuthSession{ID: sessionID, CreatedAt: now}
	}
	sess.CodeVerifier = oauth2.GenerateVerifier()
	sess.UpdatedAt = now

	if err := s.sessions.Save(ctx, sess); err != nil {
		return "", fmt.Errorf("failed to store pending sign-in: %w", err)
	}
	return sess.CodeVerifier, nil
}

func (s *authService) SignInWithEmail(ctx context.Context, sessionID string, req *dto.EmailSignInRequest) error {
	if err := validateStruct(req); err != nil {
		return err
	}

	verifier, err := s.pending(ctx, sessionID)
	if err != nil {
		return err
	}

	// One attempt per submission. The identity service message is returned as is.
	err = s.identity.SignInWithOTP(ctx, req.Email, identity.OTPOptions{
		RedirectTo:   s.cfg.CallbackURL,
		CodeVerifier: verifier,
		CreateUser:   true,
	})
	if err != nil {
		s.logger.Warn("Auth", "Magic link request failed", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return err
	}

	s.logger.Info("Auth", "Magic link requested", map[string]interface{}{"session_id": sessionID})
	return nil
}

func (s *authService) providerAllowed(provider string) bool {
	for _, p := range s.cfg.Providers {
		if p == provider {
			return true
		}
	}
	return false
}

func (s *authService) SignInWithOAuth(ctx context.Context, sessionID, provider string) (string, error) {
	if !s.providerAllowed(provider) {
		return "", ErrProviderNotAllowed
	}

	verifier, err := s.pending(ctx, sessionID)
	if err != nil {
		return "", err
	}

	return s.identity.AuthorizeURL(provider, identity.OAuthOptions{
		RedirectTo:   s.cfg.CallbackURL,
		CodeVerifier: verifier,
	})
}

func (s *authService) CompleteSignIn(ctx context.Context, sessionID, code string) (*entity.SessionUser, error) {
	if code == "" {
		return nil, ErrMissingCallbackCode
	}

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil || sess.CodeVerifier == "" {
		return nil, ErrNoPendingSignIn
	}

	issued, err := s.identity.ExchangeCode(ctx, code, sess.CodeVerifier)
	if err != nil {
		return nil, err
	}

	user := toSessionUser(issued.User)
	if user == nil {
		fetched, err := s.identity.GetUser(ctx, issued.AccessToken)
		if err != nil {
			return nil, err
		}
		user = toSessionUser(fetched)
	}
	if user == nil {
		return nil, errors.New("identity service returned a session without a user")
	}

	now := s.now()
	sess.AccessToken = issued.AccessToken
	sess.RefreshToken = issued.RefreshToken
	sess.ExpiresAt = issued.Expiry(now)
	sess.User = user
	sess.CodeVerifier = ""
	sess.UpdatedAt = now
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	s.emit(ctx, authevents.SignedIn, sessionID, user)
	return user, nil
}

// CurrentUser answers who is signed in on sessionID. A session the identity
// service no longer accepts is dropped and reported as no user; transport
// failures are returned so the caller can tell "signed out" from "unknown".
func (s *authService) CurrentUser(ctx context.Context, sessionID string) (*entity.SessionUser, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.SignedIn() {
		return nil, nil
	}

	if sess.ExpiresWithin(s.now(), RefreshLeeway) {
		refreshed, err := s.refresh(ctx, sess)
		if err != nil {
			return nil, err
		}
		if !refreshed {
			return nil, nil
		}
	}

	fetched, err := s.identity.GetUser(ctx, sess.AccessToken)
	if err != nil {
		if identity.IsUnauthorized(err) {
			s.drop(ctx, sess, "access token rejected")
			return nil, nil
		}
		return nil, err
	}

	user := toSessionUser(fetched)
	if user == nil {
		s.drop(ctx, sess, "identity service returned no user")
		return nil, nil
	}

	if *user != *sess.User {
		sess.User = user
		sess.UpdatedAt = s.now()
		if err := s.sessions.Save(ctx, sess); err != nil {
			s.logger.Warn("Auth", "Failed to update stored user", map[string]interface{}{
				"session_id": sessionID,
				"error":      err.Error(),
			})
		}
	}
	return user, nil
}

// refresh reports false when the session is gone for good.
func (s *authService) refresh(ctx context.Context, sess *entity.AuthSession) (bool, error) {
	if sess.RefreshToken == "" {
		s.drop(ctx, sess, "access token expired without refresh token")
		return false, nil
	}

	issued, err := s.identity.RefreshSession(ctx, sess.RefreshToken)
	if err != nil {
		var apiErr *identity.APIError
		if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
			s.drop(ctx, sess, "refresh token rejected")
			return false, nil
		}
		return false, err
	}

	now := s.now()
	sess.AccessToken = issued.AccessToken
	if issued.RefreshToken != "" {
		sess.RefreshToken = issued.RefreshToken
	}
	sess.ExpiresAt = issued.Expiry(now)
	if user := toSessionUser(issued.User); user != nil {
		sess.User = user
	}
	sess.UpdatedAt = now
	if err := s.sessions.Save(ctx, sess); err != nil {
		return false, fmt.Errorf("failed to store refreshed session: %w", err)
	}

	s.emit(ctx, authevents.TokenRefreshed, sess.ID, sess.User)
	return true, nil
}

func (s *authService) drop(ctx context.Context, sess *entity.AuthSession, reason string) {
	if err := s.sessions.Delete(ctx, sess.ID); err != nil {
		s.logger.Warn("Auth", "Failed to delete session", map[string]interface{}{
			"session_id": sess.ID,
			"error":      err.Error(),
		})
	}
	s.logger.Info("Auth", "Session ended", map[string]interface{}{
		"session_id": sess.ID,
		"reason":     reason,
	})
	s.emit(ctx, authevents.SignedOut, sess.ID, nil)
}

func (s *authService) SignOut(ctx context.Context, sessionID string) error {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if sess == nil {
		return nil
	}

	if sess.AccessToken != "" {
		if err := s.identity.SignOut(ctx, sess.AccessToken); err != nil {
			s.logger.Warn("Auth", "Identity sign-out failed, clearing local session anyway", map[string]interface{}{
				"session_id": sessionID,
				"error":      err.Error(),
			})
		}
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	s.emit(ctx, authevents.SignedOut, sessionID, nil)
	return nil
}

func (s *authService) OnAuthStateChange(sessionID string, listener authevents.Listener) (authevents.Subscription, error) {
	return s.notifier.Subscribe(sessionID, listener)
}

func (s *authService) emit(ctx context.Context, label authevents.Label, sessionID string, user *entity.SessionUser) {
	now := s.now()
	if err := s.notifier.Publish(ctx, authevents.Event{
		Label:      label,
		SessionID:  sessionID,
		User:       user,
		OccurredAt: now,
	}); err != nil {
		s.logger.Error("Auth", "Failed to notify session listeners", map[string]interface{}{
			"session_id": sessionID,
			"label":      string(label),
			"error":      err.Error(),
		})
	}

	if s.eventPublisher != nil {
		var userID, provider string
		if user != nil {
			userID, provider = user.ID, user.Provider
		}
		evt := events.Auth(string(label), sessionID, userID, provider, now)
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("Auth", "Failed to publish audit event", map[string]interface{}{
				"type":  evt.Type,
				"error": err.Error(),
			})
		}
	}
}
