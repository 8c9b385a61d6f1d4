package nats

import (
	"encoding/json"
	"testing"
	"time"

	"aquatech-web/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("WIB", 7*3600))
	data, err := Encode(events.BaseEvent{
		Type:       "AUTH_SIGNED_IN",
		Data:       map[string]interface{}{"session_id": "sid", "user_id": "u1"},
		OccurredAt: at,
	})
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "AUTH_SIGNED_IN", got["type"])
	assert.Equal(t, "2026-03-01T05:00:00Z", got["occurred_at"])
	assert.Equal(t, map[string]interface{}{"session_id": "sid", "user_id": "u1"}, got["data"])
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "events.AUTH_SIGNED_OUT", Subject("AUTH_SIGNED_OUT"))
}
