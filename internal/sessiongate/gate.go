// Package sessiongate holds the identity observed for each browser session.
//
// A Gate starts in the loading state, asks the identity source for the current
// user once and listens for session change notifications. After the first answer
// it only ever moves between authenticated and anonymous.
package sessiongate

import (
	"context"
	"errors"
	"sync"

	"aquatech-web/internal/authevents"
	"aquatech-web/internal/entity"
	"aquatech-web/internal/pkg/logger"
)

type Status string

const (
	StatusLoading       Status = "loading"
	StatusAuthenticated Status = "authenticated"
	StatusAnonymous     Status = "anonymous"
)

var ErrClosed = errors.New("session gate closed")

// Source is what a gate observes. The auth service implements it.
type Source interface {
	CurrentUser(ctx context.Context, sessionID string) (*entity.SessionUser, error)
	OnAuthStateChange(sessionID string, listener authevents.Listener) (authevents.Subscription, error)
}

type Snapshot struct {
	Status   Status              `json:"status"`
	User     *entity.SessionUser `json:"user"`
	FetchErr error               `json:"-"`
}

func (s Snapshot) Authenticated() bool {
	return s.Status == StatusAuthenticated
}

// Degraded reports that the initial fetch failed and the anonymous state is a
// fallback rather than an answer.
func (s Snapshot) Degraded() bool {
	return s.FetchErr != nil
}

type Gate struct {
	sessionID string
	source    Source
	logger    logger.ILogger

	mu       sync.RWMutex
	user     *entity.SessionUser
	resolved bool
	notified bool
	fetchErr error
	closed   bool
	watchers map[int]chan Snapshot
	nextID   int

	ready    chan struct{}
	closedCh chan struct{}

	sub       authevents.Subscription
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	startOnce sync.Once
	closeOnce sync.Once
}

func New(sessionID string, source Source, log logger.ILogger) *Gate {
	return &Gate{
		sessionID: sessionID,
		source:    source,
		logger:    log,
		watchers:  make(map[int]chan Snapshot),
		ready:     make(chan struct{}),
		closedCh:  make(chan struct{}),
	}
}

func (g *Gate) SessionID() string {
	return g.sessionID
}

// Start registers the change listener and fetches the current user in the
// background. The listener is registered first so no transition between the
// fetch and the registration is missed.
func (g *Gate) Start(ctx context.Context) error {
	var err error
	g.startOnce.Do(func() {
		var sub authevents.Subscription
		sub, err = g.source.OnAuthStateChange(g.sessionID, g.onEvent)
		if err != nil {
			return
		}

		fetchCtx, cancel := context.WithCancel(ctx)

		g.mu.Lock()
		if g.closed {
			g.mu.Unlock()
			cancel()
			sub.Unsubscribe()
			err = ErrClosed
			return
		}
		g.sub = sub
		g.cancel = cancel
		g.mu.Unlock()

		g.wg.Add(1)
		go g.fetch(fetchCtx)
	})
	return err
}

func (g *Gate) fetch(ctx context.Context) {
	defer g.wg.Done()

	user, err := g.source.CurrentUser(ctx, g.sessionID)

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return
	}

	if err != nil {
		g.fetchErr = err
		g.logger.Warn("SessionGate", "Initial session fetch failed, treating as signed out", map[string]interface{}{
			"session_id": g.sessionID,
			"error":      err.Error(),
		})
		user = nil
	}

	// A notification that arrived while the fetch was in flight is newer than
	// whatever the fetch returned.
	if !g.notified {
		g.user = user
	}

	g.resolved = true
	close(g.ready)
	g.broadcastLocked()
}

func (g *Gate) onEvent(ev authevents.Event) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return
	}

	if ev.Label == authevents.SignedOut {
		g.user = nil
	} else {
		g.user = ev.User
	}

	if !g.resolved {
		g.notified = true
		return
	}
	g.broadcastLocked()
}

func (g *Gate) snapshotLocked() Snapshot {
	if !g.resolved {
		return Snapshot{Status: StatusLoading}
	}
	if g.user == nil {
		return Snapshot{Status: StatusAnonymous, FetchErr: g.fetchErr}
	}
	return Snapshot{Status: StatusAuthenticated, User: g.user, FetchErr: g.fetchErr}
}

func (g *Gate) Snapshot() Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.snapshotLocked()
}

// Wait blocks until the initial fetch resolved. It returns false when ctx ends
// or the gate closes first; the snapshot is then the loading state.
func (g *Gate) Wait(ctx context.Context) (Snapshot, bool) {
	select {
	case <-g.ready:
		return g.Snapshot(), true
	case <-ctx.Done():
	case <-g.closedCh:
	}
	return g.Snapshot(), false
}

// Watch returns a feed of snapshots starting with the current one. Slow readers
// only see the latest state. The returned func stops the feed.
func (g *Gate) Watch() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := g.nextID
	g.nextID++
	g.watchers[id] = ch
	ch <- g.snapshotLocked()
	g.mu.Unlock()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			g.mu.Lock()
			defer g.mu.Unlock()
			if w, ok := g.watchers[id]; ok {
				delete(g.watchers, id)
				close(w)
			}
		})
	}
	return ch, stop
}

func (g *Gate) broadcastLocked() {
	snap := g.snapshotLocked()
	for _, ch := range g.watchers {
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}

// Close releases the subscription exactly once and stops the fetch. Safe to call
// repeatedly and from any goroutine except the change listener.
func (g *Gate) Close() {
	g.closeOnce.Do(func() {
		g.mu.Lock()
		g.closed = true
		close(g.closedCh)
		for id, ch := range g.watchers {
			delete(g.watchers, id)
			close(ch)
		}
		sub, cancel := g.sub, g.cancel
		g.mu.Unlock()

		if cancel != nil {
			cancel()
		}
		if sub != nil {
			sub.Unsubscribe()
		}
		g.wg.Wait()
	})
}
