package memory

import (
	"context"
	"time"

	"aquatech-web/internal/entity"
	"aquatech-web/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps auth sessions in process memory. Used when redis is
// not reachable; sessions do not survive a restart.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	c := cache.New(ttl, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

var _ contract.AuthSessionRepository = (*SessionRepository)(nil)

func (r *SessionRepository) Save(ctx context.Context, session *entity.AuthSession) error {
	stored := *session
	if session.User != nil {
		u := *session.User
		stored.User = &u
	}
	r.cache.Set(session.ID, &stored, cache.DefaultExpiration)
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, sessionID string) (*entity.AuthSession, error) {
	if x, found := r.cache.Get(sessionID); found {
		s := *x.(*entity.AuthSession)
		return &s, nil
	}
	return nil, nil
}

func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	r.cache.Delete(sessionID)
	return nil
}
