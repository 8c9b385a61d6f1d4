package contract

import (
	"context"

	"aquatech-web/internal/entity"
)

type AuthSessionRepository interface {
	// Get returns nil, nil for an unknown session.
	Get(ctx context.Context, sessionID string) (*entity.AuthSession, error)
	Save(ctx context.Context, session *entity.AuthSession) error
	Delete(ctx context.Context, sessionID string) error
}
