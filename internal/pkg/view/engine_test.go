package view

import (
	"bytes"
	"testing"

	"aquatech-web/internal/vision"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type provider struct {
	ID    string
	Label string
}

type loginBinding struct {
	User      interface{}
	Email     string
	Message   string
	Providers []provider
}

func TestRenderLoginInsideLayout(t *testing.T) {
	e := New()
	require.NoError(t, e.Load())

	var buf bytes.Buffer
	err := e.Render(&buf, "pages/login", loginBinding{
		Message:   "✅ Check your email for the magic link!",
		Providers: []provider{{ID: "google", Label: "Google"}},
	}, LayoutMain)
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "<!DOCTYPE html>")
	assert.Contains(t, html, "<title>Sign in · AquaTech</title>")
	assert.Contains(t, html, "Continue to your products")
	assert.Contains(t, html, `placeholder="Enter your email"`)
	assert.Contains(t, html, "Continue with Email")
	assert.Contains(t, html, `href="/auth/google"`)
	assert.Contains(t, html, "Continue with Google")
	assert.Contains(t, html, "✅ Check your email for the magic link!")
	assert.NotContains(t, html, "Sign out")
}

func TestRenderWithoutLayout(t *testing.T) {
	e := New()

	var buf bytes.Buffer
	require.NoError(t, e.Render(&buf, "pages/not_found", map[string]interface{}{"Message": "No such product"}, ""))
	assert.NotContains(t, buf.String(), "<!DOCTYPE html>")
	assert.Contains(t, buf.String(), "No such product")
}

func TestRenderUnknownPage(t *testing.T) {
	e := New()
	var buf bytes.Buffer
	assert.Error(t, e.Render(&buf, "pages/missing", nil, LayoutMain))
}

func TestRenderEscapesUserInput(t *testing.T) {
	e := New()
	var buf bytes.Buffer
	require.NoError(t, e.Render(&buf, "pages/login", loginBinding{
		Message: "❌ Error: <script>alert(1)</script>",
	}, LayoutMain))
	assert.NotContains(t, buf.String(), "<script>alert(1)</script>")
	assert.Contains(t, buf.String(), "&lt;script&gt;")
}

type cardBinding struct {
	vision.Card
	Title string
}

func TestRenderVisionCardPartial(t *testing.T) {
	e := New()
	confidence := vision.Score(0.8)
	card := vision.Present(&vision.Payload{
		Confidence:   &confidence,
		Observations: vision.Observations{"Cloudy water", "Algae on glass"},
	})

	var buf bytes.Buffer
	require.NoError(t, e.Render(&buf, "partials/vision_card", cardBinding{Card: card, Title: vision.CardTitle}))
	html := buf.String()
	assert.Contains(t, html, "💡 What I noticed from your image")
	assert.Contains(t, html, "▼")
	assert.Contains(t, html, "<li>Cloudy water</li>")
	assert.Contains(t, html, "Confidence: 80%")
	assert.Contains(t, html, " hidden>")

	card.Toggle()
	buf.Reset()
	require.NoError(t, e.Render(&buf, "partials/vision_card", cardBinding{Card: card, Title: vision.CardTitle}))
	assert.Contains(t, buf.String(), "▲")
	assert.NotContains(t, buf.String(), " hidden>")
}

func TestRenderInvisibleVisionCard(t *testing.T) {
	e := New()
	var buf bytes.Buffer
	require.NoError(t, e.Render(&buf, "partials/vision_card", cardBinding{Title: vision.CardTitle}))
	assert.Empty(t, bytes.TrimSpace(buf.Bytes()))
}
