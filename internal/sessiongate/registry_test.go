package sessiongate

import (
	"testing"
	"time"

	"aquatech-web/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryReusesGatePerSession(t *testing.T) {
	src := newFakeSource()
	r := NewRegistry(src, time.Minute, logger.NewNopLogger())
	defer r.Close()

	a, err := r.Acquire("sid-1")
	require.NoError(t, err)
	b, err := r.Acquire("sid-1")
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.Equal(t, 1, r.Len())

	subscribes, _ := src.counts()
	assert.Equal(t, 1, subscribes)
}

func TestRegistryReleaseClosesGate(t *testing.T) {
	src := newFakeSource()
	r := NewRegistry(src, time.Minute, logger.NewNopLogger())
	defer r.Close()

	_, err := r.Acquire("sid-1")
	require.NoError(t, err)

	r.Release("sid-1")
	r.Release("sid-1")

	_, unsubscribes := src.counts()
	assert.Equal(t, 1, unsubscribes)
	assert.Equal(t, 0, r.Len())
}

func TestRegistryEvictsIdleGates(t *testing.T) {
	src := newFakeSource()
	r := NewRegistry(src, 50*time.Millisecond, logger.NewNopLogger())
	defer r.Close()

	_, err := r.Acquire("sid-1")
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		_, unsubscribes := src.counts()
		return unsubscribes == 1
	}, 5*time.Second, 20*time.Millisecond)
}

func TestRegistryCloseReleasesAll(t *testing.T) {
	src := newFakeSource()
	r := NewRegistry(src, time.Minute, logger.NewNopLogger())

	for _, sid := range []string{"a", "b", "c"} {
		_, err := r.Acquire(sid)
		require.NoError(t, err)
	}
	r.Close()

	subscribes, unsubscribes := src.counts()
	assert.Equal(t, 3, subscribes)
	assert.Equal(t, 3, unsubscribes)
}

func TestRegistryReacquireReleasesExpiredGate(t *testing.T) {
	src := newFakeSource()
	// the janitor runs once a second, long after the entry expires
	r := NewRegistry(src, 50*time.Millisecond, logger.NewNopLogger())
	defer r.Close()

	first, err := r.Acquire("sid-1")
	require.NoError(t, err)
	time.Sleep(120 * time.Millisecond)

	second, err := r.Acquire("sid-1")
	require.NoError(t, err)
	assert.NotSame(t, first, second)

	subscribes, unsubscribes := src.counts()
	assert.Equal(t, 2, subscribes)
	assert.Equal(t, 1, unsubscribes)
	assert.Equal(t, 1, r.Len())
}

func TestRegistryCloseReleasesExpiredGates(t *testing.T) {
	src := newFakeSource()
	r := NewRegistry(src, 50*time.Millisecond, logger.NewNopLogger())

	_, err := r.Acquire("sid-1")
	require.NoError(t, err)
	time.Sleep(120 * time.Millisecond)
	r.Close()

	subscribes, unsubscribes := src.counts()
	assert.Equal(t, 1, subscribes)
	assert.Equal(t, 1, unsubscribes)
}

func TestRegistryTouchKeepsGateAlive(t *testing.T) {
	src := newFakeSource()
	r := NewRegistry(src, 200*time.Millisecond, logger.NewNopLogger())
	defer r.Close()

	g, err := r.Acquire("sid-1")
	require.NoError(t, err)

	deadline := time.Now().Add(1500 * time.Millisecond)
	for time.Now().Before(deadline) {
		r.Touch("sid-1")
		time.Sleep(40 * time.Millisecond)
	}

	_, unsubscribes := src.counts()
	assert.Equal(t, 0, unsubscribes)

	again, err := r.Acquire("sid-1")
	require.NoError(t, err)
	assert.Same(t, g, again)

	// touching an unknown session does not create a gate
	r.Touch("sid-2")
	assert.Equal(t, 1, r.Len())
}
