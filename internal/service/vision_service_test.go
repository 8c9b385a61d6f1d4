package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisionServiceExtract(t *testing.T) {
	svc := NewVisionService()

	res, err := svc.Extract([]byte(`{"analyses":[{"observations":["cloudy water"]}],"combined_confidence":0.82}`))
	require.NoError(t, err)
	assert.True(t, res.Visible)
	assert.Equal(t, "sub_analyses", res.Shape)
	assert.Equal(t, []string{"Image 1:", "  • cloudy water"}, res.Observations)
	assert.Equal(t, "Confidence: 82%", res.ConfidenceLabel)

	res, err = svc.Extract([]byte(`{"observations":["x"],"confidence":0.3}`))
	require.NoError(t, err)
	assert.False(t, res.Visible)
	assert.Empty(t, res.Observations)

	_, err = svc.Extract([]byte(`{"observations":`))
	assert.Error(t, err)
}

func TestVisionServiceRecordKeepsLatestPerSessionAndProduct(t *testing.T) {
	svc := NewVisionService()
	ctx := context.Background()

	_, err := svc.Record(ctx, "sid", "reef-pump-x2", []byte(`{"description":"old","confidence":0.9}`))
	require.NoError(t, err)
	_, err = svc.Record(ctx, "sid", "reef-pump-x2", []byte(`{"description":"new","confidence":0.9}`))
	require.NoError(t, err)

	latest := svc.Latest("sid", "reef-pump-x2")
	require.NotNil(t, latest)
	assert.Equal(t, "new", string(latest.Description))

	assert.Nil(t, svc.Latest("other-sid", "reef-pump-x2"))
	assert.Nil(t, svc.Latest("sid", "canister-400"))

	_, err = svc.Record(ctx, "sid", "reef-pump-x2", []byte(`null`))
	require.NoError(t, err)
	assert.Nil(t, svc.Latest("sid", "reef-pump-x2"))
}
