package vision

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) *Payload {
	t.Helper()
	p, err := ParsePayload([]byte(raw))
	require.NoError(t, err)
	return p
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		wantShape Shape
		want      []string
	}{
		{
			name:      "direct observations",
			payload:   `{"observations":["a","b"],"confidence":0.9}`,
			wantShape: ShapeDirect,
			want:      []string{"a", "b"},
		},
		{
			name:      "empty direct list wins over everything else",
			payload:   `{"observations":[],"analyses":[{"observations":["x"]}],"description":"foo","confidence":0.9}`,
			wantShape: ShapeDirect,
			want:      []string{},
		},
		{
			name:      "sub analyses keep original 1-based positions",
			payload:   `{"analyses":[{"observations":["x"]},{"observations":[]},{"observations":["y","z"]}],"confidence":0.9}`,
			wantShape: ShapeSubAnalyses,
			want:      []string{"Image 1:", "  • x", "Image 3:", "  • y", "  • z"},
		},
		{
			name:      "sub analyses without observations stop the chain",
			payload:   `{"analyses":[{},{"observations":[]}],"description":"foo","confidence":0.9}`,
			wantShape: ShapeSubAnalyses,
			want:      []string{},
		},
		{
			name:      "empty analyses list falls through to text",
			payload:   `{"analyses":[],"description":"foo","confidence":0.9}`,
			wantShape: ShapeText,
			want:      []string{"foo"},
		},
		{
			name:      "description only",
			payload:   `{"description":"foo","confidence":0.9}`,
			wantShape: ShapeText,
			want:      []string{"foo"},
		},
		{
			name:      "description then analysis",
			payload:   `{"analysis":"bar","description":"foo","confidence":0.9}`,
			wantShape: ShapeText,
			want:      []string{"foo", "bar"},
		},
		{
			name:      "nothing usable",
			payload:   `{"confidence":0.7}`,
			wantShape: ShapePlaceholder,
			want:      []string{"Image analyzed"},
		},
		{
			name:      "null fields count as absent",
			payload:   `{"observations":null,"analyses":null,"description":null,"confidence":0.7}`,
			wantShape: ShapePlaceholder,
			want:      []string{"Image analyzed"},
		},
		{
			name:      "non-string observations are stringified",
			payload:   `{"observations":["leak", 3, {"zone":"pump"}],"confidence":0.9}`,
			wantShape: ShapeDirect,
			want:      []string{"leak", "3", `{"zone":"pump"}`},
		},
		{
			name:      "malformed sub analysis entries are skipped",
			payload:   `{"analyses":["oops",{"observations":["ok"]}],"confidence":0.9}`,
			wantShape: ShapeSubAnalyses,
			want:      []string{"Image 2:", "  • ok"},
		},
		{
			name:      "observations object counts as absent",
			payload:   `{"observations":{"a":1},"description":"foo","confidence":0.9}`,
			wantShape: ShapeText,
			want:      []string{"foo"},
		},
		{
			name:      "observations number counts as absent",
			payload:   `{"observations":42,"confidence":0.9}`,
			wantShape: ShapePlaceholder,
			want:      []string{"Image analyzed"},
		},
		{
			name:      "analyses string counts as absent",
			payload:   `{"analyses":"x","description":"foo","confidence":0.9}`,
			wantShape: ShapeText,
			want:      []string{"foo"},
		},
		{
			name:      "analyses object counts as absent",
			payload:   `{"analyses":{"observations":["x"]},"confidence":0.9}`,
			wantShape: ShapePlaceholder,
			want:      []string{"Image analyzed"},
		},
		{
			name:      "non-numeric confidence leaves observations intact",
			payload:   `{"confidence":true,"observations":["a"]}`,
			wantShape: ShapeDirect,
			want:      []string{"a"},
		},
		{
			name:      "document that is not an object",
			payload:   `["a","b"]`,
			wantShape: ShapePlaceholder,
			want:      []string{"Image analyzed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(mustParse(t, tt.payload))
			assert.Equal(t, tt.wantShape, got.Shape)
			if diff := cmp.Diff(tt.want, got.Lines); diff != "" {
				t.Errorf("Lines mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtractDoesNotAliasPayload(t *testing.T) {
	p := mustParse(t, `{"observations":["a"],"confidence":0.9}`)
	got := Extract(p)
	got.Lines[0] = "changed"
	assert.Equal(t, Observations{"a"}, p.Observations)
}

func TestConfidenceOf(t *testing.T) {
	tests := []struct {
		payload string
		want    float64
	}{
		{`{"confidence":0.8}`, 0.8},
		{`{"combined_confidence":0.6}`, 0.6},
		{`{"confidence":0.3,"combined_confidence":0.9}`, 0.3},
		{`{"confidence":null,"combined_confidence":0.9}`, 0.9},
		{`{"confidence":"0.75"}`, 0.75},
		{`{"confidence":"high"}`, 0},
		{`{"confidence":true}`, 0},
		{`{"confidence":{"v":0.9}}`, 0},
		{`{"confidence":[0.9]}`, 0},
		// a present confidence wins even when it is zero or unreadable
		{`{"confidence":0,"combined_confidence":0.8}`, 0},
		{`{"confidence":false,"combined_confidence":0.8}`, 0},
		{`{}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.payload, func(t *testing.T) {
			assert.InDelta(t, tt.want, ConfidenceOf(mustParse(t, tt.payload)), 1e-9)
		})
	}
	assert.Equal(t, 0.0, ConfidenceOf(nil))
}

func TestParsePayload(t *testing.T) {
	p, err := ParsePayload([]byte("  null "))
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = ParsePayload(nil)
	require.NoError(t, err)
	assert.Nil(t, p)

	for _, raw := range []string{`"just text"`, `[1,2]`, `3`} {
		p, err = ParsePayload([]byte(raw))
		require.NoError(t, err, raw)
		assert.Equal(t, &Payload{}, p, raw)
	}

	_, err = ParsePayload([]byte(`{"observations":`))
	assert.Error(t, err)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 90, Percent(0.9))
	assert.Equal(t, 50, Percent(0.5))
	assert.Equal(t, 100, Percent(1))
	assert.Equal(t, 68, Percent(0.676))
	assert.Equal(t, 67, Percent(0.674))
	assert.Equal(t, 0, Percent(0))
}
