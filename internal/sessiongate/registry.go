package sessiongate

import (
	"context"
	"sync"
	"time"

	"aquatech-web/internal/pkg/logger"

	"github.com/patrickmn/go-cache"
)

// Registry keeps one gate per browser session and closes gates that have been
// idle longer than the configured TTL.
type Registry struct {
	cache  *cache.Cache
	source Source
	logger logger.ILogger
	mu     sync.Mutex
}

func NewRegistry(source Source, idleTTL time.Duration, log logger.ILogger) *Registry {
	cleanup := idleTTL / 2
	if cleanup < time.Second {
		cleanup = time.Second
	}

	c := cache.New(idleTTL, cleanup)
	c.OnEvicted(func(sessionID string, v interface{}) {
		if g, ok := v.(*Gate); ok {
			g.Close()
			log.Debug("SessionGate", "Gate released", map[string]interface{}{"session_id": sessionID})
		}
	})

	return &Registry{
		cache:  c,
		source: source,
		logger: log,
	}
}

// Acquire returns the gate of sessionID, creating and starting it on first use.
// Every call extends the idle deadline.
func (r *Registry) Acquire(sessionID string) (*Gate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v, found := r.cache.Get(sessionID); found {
		g := v.(*Gate)
		r.cache.Set(sessionID, g, cache.DefaultExpiration)
		return g, nil
	}

	// An expired gate the janitor has not reached yet still holds its
	// subscription. Delete runs OnEvicted for it, Set would not.
	r.cache.Delete(sessionID)

	g := New(sessionID, r.source, r.logger)
	if err := g.Start(context.Background()); err != nil {
		return nil, err
	}
	r.cache.Set(sessionID, g, cache.DefaultExpiration)
	return g, nil
}

// Touch extends the idle deadline of a live gate. Expired gates are left to
// the janitor.
func (r *Registry) Touch(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v, found := r.cache.Get(sessionID); found {
		r.cache.Set(sessionID, v, cache.DefaultExpiration)
	}
}

// Release closes and forgets the gate of sessionID.
func (r *Registry) Release(sessionID string) {
	r.cache.Delete(sessionID)
}

func (r *Registry) Len() int {
	return r.cache.ItemCount()
}

// Close releases every gate, expired ones included.
func (r *Registry) Close() {
	r.cache.DeleteExpired()
	for sessionID := range r.cache.Items() {
		r.cache.Delete(sessionID)
	}
}
