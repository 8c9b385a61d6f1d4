// Package redisstore keeps auth sessions in redis so every instance behind the
// load balancer sees the same sign-in state. Records are sealed before they are
// written; redis never holds a readable token.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"aquatech-web/internal/entity"
	"aquatech-web/internal/repository/contract"
	"aquatech-web/pkg/sealer"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "aq:session:"

type record struct {
	AccessToken  string              `json:"access_token,omitempty"`
	RefreshToken string              `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time           `json:"expires_at"`
	User         *entity.SessionUser `json:"user,omitempty"`
	CodeVerifier string              `json:"code_verifier,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

type SessionRepository struct {
	rdb    *redis.Client
	sealer *sealer.Sealer
	ttl    time.Duration
}

func NewSessionRepository(rdb *redis.Client, s *sealer.Sealer, ttl time.Duration) *SessionRepository {
	return &SessionRepository{rdb: rdb, sealer: s, ttl: ttl}
}

var _ contract.AuthSessionRepository = (*SessionRepository)(nil)

func key(sessionID string) string {
	return keyPrefix + sessionID
}

func (r *SessionRepository) Save(ctx context.Context, session *entity.AuthSession) error {
	data, err := json.Marshal(record{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		ExpiresAt:    session.ExpiresAt,
		User:         session.User,
		CodeVerifier: session.CodeVerifier,
		CreatedAt:    session.CreatedAt,
		UpdatedAt:    session.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	sealed, err := r.sealer.Seal(data)
	if err != nil {
		return fmt.Errorf("failed to seal session: %w", err)
	}

	if err := r.rdb.Set(ctx, key(session.ID), sealed, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Get treats a record that fails to open (rotated secret, tampering) as absent.
func (r *SessionRepository) Get(ctx context.Context, sessionID string) (*entity.AuthSession, error) {
	sealed, err := r.rdb.Get(ctx, key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	data, err := r.sealer.Open(sealed)
	if err != nil {
		if errors.Is(err, sealer.ErrOpen) {
			return nil, nil
		}
		return nil, err
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}

	return &entity.AuthSession{
		ID:           sessionID,
		AccessToken:  rec.AccessToken,
		RefreshToken: rec.RefreshToken,
		ExpiresAt:    rec.ExpiresAt,
		User:         rec.User,
		CodeVerifier: rec.CodeVerifier,
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
	}, nil
}

func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.rdb.Del(ctx, key(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
