package sealer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealRoundTrip(t *testing.T) {
	s, err := New("session-secret", "auth-session")
	require.NoError(t, err)

	sealed, err := s.Seal([]byte(`{"access_token":"at"}`))
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "access_token")

	opened, err := s.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, `{"access_token":"at"}`, string(opened))
}

func TestOpenRejectsOtherKeysAndTampering(t *testing.T) {
	a, err := New("session-secret", "auth-session")
	require.NoError(t, err)
	b, err := New("session-secret", "other-purpose")
	require.NoError(t, err)

	sealed, err := a.Seal([]byte("payload"))
	require.NoError(t, err)

	_, err = b.Open(sealed)
	assert.ErrorIs(t, err, ErrOpen)

	sealed[len(sealed)-1] ^= 0xff
	_, err = a.Open(sealed)
	assert.ErrorIs(t, err, ErrOpen)

	_, err = a.Open([]byte("short"))
	assert.ErrorIs(t, err, ErrOpen)
}

func TestNewRequiresSecret(t *testing.T) {
	_, err := New("", "x")
	assert.Error(t, err)
}
