package sessiongate

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"aquatech-web/internal/authevents"
	"aquatech-web/internal/entity"
	"aquatech-web/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("github.com/patrickmn/go-cache.(*janitor).Run"))
}

type fetchResult struct {
	user *entity.SessionUser
	err  error
}

type fakeSource struct {
	mu           sync.Mutex
	listener     authevents.Listener
	subscribes   int
	unsubscribes int
	fetches      int
	result       chan fetchResult
	subErr       error
}

func newFakeSource() *fakeSource {
	return &fakeSource{result: make(chan fetchResult, 1)}
}

func (f *fakeSource) CurrentUser(ctx context.Context, sessionID string) (*entity.SessionUser, error) {
	f.mu.Lock()
	f.fetches++
	f.mu.Unlock()

	select {
	case r := <-f.result:
		return r.user, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *fakeSource) OnAuthStateChange(sessionID string, listener authevents.Listener) (authevents.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.subErr != nil {
		return nil, f.subErr
	}
	f.subscribes++
	f.listener = listener
	return fakeSubscription{f}, nil
}

func (f *fakeSource) emit(ev authevents.Event) {
	f.mu.Lock()
	l := f.listener
	f.mu.Unlock()
	l(ev)
}

func (f *fakeSource) counts() (subscribes, unsubscribes int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subscribes, f.unsubscribes
}

type fakeSubscription struct{ f *fakeSource }

// Deliberately not idempotent so the gate's once-only release is observable.
func (s fakeSubscription) Unsubscribe() {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	s.f.unsubscribes++
}

var diver = &entity.SessionUser{ID: "u1", Email: "diver@example.com"}

func waitReady(t *testing.T, g *Gate) Snapshot {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	snap, ok := g.Wait(ctx)
	require.True(t, ok, "gate did not resolve")
	return snap
}

func TestGateLoadingUntilFetchResolves(t *testing.T) {
	src := newFakeSource()
	g := New("sid", src, logger.NewNopLogger())
	defer g.Close()

	require.NoError(t, g.Start(context.Background()))
	assert.Equal(t, StatusLoading, g.Snapshot().Status)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	_, ok := g.Wait(ctx)
	cancel()
	assert.False(t, ok)

	src.result <- fetchResult{user: diver}
	snap := waitReady(t, g)
	assert.Equal(t, StatusAuthenticated, snap.Status)
	assert.Equal(t, diver, snap.User)
	assert.False(t, snap.Degraded())
}

func TestGateNotificationsNeverRestoreLoading(t *testing.T) {
	src := newFakeSource()
	g := New("sid", src, logger.NewNopLogger())
	defer g.Close()

	require.NoError(t, g.Start(context.Background()))
	src.result <- fetchResult{}
	assert.Equal(t, StatusAnonymous, waitReady(t, g).Status)

	src.emit(authevents.Event{Label: authevents.SignedIn, User: diver})
	assert.Equal(t, StatusAuthenticated, g.Snapshot().Status)
	assert.Equal(t, diver, g.Snapshot().User)

	refreshed := &entity.SessionUser{ID: "u1", Email: "diver@example.com", FullName: "Reef Diver"}
	src.emit(authevents.Event{Label: authevents.TokenRefreshed, User: refreshed})
	assert.Equal(t, refreshed, g.Snapshot().User)

	src.emit(authevents.Event{Label: authevents.SignedOut})
	assert.Equal(t, StatusAnonymous, g.Snapshot().Status)
	assert.Nil(t, g.Snapshot().User)

	// an event without a user clears the held user as well
	src.emit(authevents.Event{Label: authevents.SignedIn, User: diver})
	src.emit(authevents.Event{Label: authevents.TokenRefreshed})
	assert.Equal(t, StatusAnonymous, g.Snapshot().Status)
}

func TestGateFetchErrorResolvesAnonymous(t *testing.T) {
	src := newFakeSource()
	g := New("sid", src, logger.NewNopLogger())
	defer g.Close()

	require.NoError(t, g.Start(context.Background()))
	boom := errors.New("identity service unreachable")
	src.result <- fetchResult{user: diver, err: boom}

	snap := waitReady(t, g)
	assert.Equal(t, StatusAnonymous, snap.Status)
	assert.Nil(t, snap.User)
	assert.True(t, snap.Degraded())
	assert.ErrorIs(t, snap.FetchErr, boom)
}

func TestGateEarlyNotificationWinsOverFetch(t *testing.T) {
	src := newFakeSource()
	g := New("sid", src, logger.NewNopLogger())
	defer g.Close()

	require.NoError(t, g.Start(context.Background()))

	src.emit(authevents.Event{Label: authevents.SignedOut})
	assert.Equal(t, StatusLoading, g.Snapshot().Status)

	src.result <- fetchResult{user: diver}
	snap := waitReady(t, g)
	assert.Equal(t, StatusAnonymous, snap.Status)
}

func TestGateCloseReleasesSubscriptionOnce(t *testing.T) {
	src := newFakeSource()
	g := New("sid", src, logger.NewNopLogger())

	require.NoError(t, g.Start(context.Background()))
	require.NoError(t, g.Start(context.Background()))

	g.Close()
	g.Close()

	subscribes, unsubscribes := src.counts()
	assert.Equal(t, 1, subscribes)
	assert.Equal(t, 1, unsubscribes)

	// still loading: the fetch was cancelled before it resolved
	_, ok := g.Wait(context.Background())
	assert.False(t, ok)

	src.emit(authevents.Event{Label: authevents.SignedIn, User: diver})
	assert.Equal(t, StatusLoading, g.Snapshot().Status)
}

func TestGateStartAfterClose(t *testing.T) {
	src := newFakeSource()
	g := New("sid", src, logger.NewNopLogger())
	g.Close()

	assert.ErrorIs(t, g.Start(context.Background()), ErrClosed)
	subscribes, unsubscribes := src.counts()
	assert.Equal(t, 1, subscribes)
	assert.Equal(t, 1, unsubscribes)
}

func TestGateStartSubscribeError(t *testing.T) {
	src := newFakeSource()
	src.subErr = errors.New("bus down")
	g := New("sid", src, logger.NewNopLogger())
	defer g.Close()

	assert.Error(t, g.Start(context.Background()))
}

func TestGateWatchDeliversLatestState(t *testing.T) {
	src := newFakeSource()
	g := New("sid", src, logger.NewNopLogger())
	defer g.Close()

	require.NoError(t, g.Start(context.Background()))
	feed, stop := g.Watch()
	defer stop()

	assert.Equal(t, StatusLoading, (<-feed).Status)

	src.result <- fetchResult{user: diver}
	assert.Equal(t, StatusAuthenticated, (<-feed).Status)

	src.emit(authevents.Event{Label: authevents.SignedOut})
	src.emit(authevents.Event{Label: authevents.SignedIn, User: diver})
	// the feed holds at most one pending snapshot, the newest
	snap := <-feed
	assert.Equal(t, StatusAuthenticated, snap.Status)
	select {
	case extra := <-feed:
		t.Fatalf("unexpected extra snapshot %+v", extra)
	default:
	}

	stop()
	_, open := <-feed
	assert.False(t, open)
}

func TestGateCloseEndsWatchers(t *testing.T) {
	src := newFakeSource()
	g := New("sid", src, logger.NewNopLogger())
	require.NoError(t, g.Start(context.Background()))

	feed, stop := g.Watch()
	<-feed
	g.Close()
	stop()

	_, open := <-feed
	assert.False(t, open)
}
