package config

import (
	"encoding/base64"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"APP_PORT", "SESSION_TTL", "IDENTITY_TIMEOUT", "IDENTITY_PROVIDERS", "SESSION_LOADING_GRACE", "OTEL_SAMPLE_RATIO"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg := Load()
	assert.Equal(t, "3000", cfg.App.Port)
	assert.Equal(t, 720*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 15*time.Second, cfg.Identity.Timeout)
	assert.Equal(t, 2*time.Second, cfg.Session.LoadingGrace)
	assert.Equal(t, []string{"google"}, cfg.Identity.Providers)
	assert.Equal(t, 1.0, cfg.Tracing.SampleRatio)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_BASE_URL", "https://shop.aquatech.test/")
	t.Setenv("IDENTITY_TIMEOUT", "5s")
	t.Setenv("IDENTITY_PROVIDERS", " google, github ,")
	t.Setenv("SESSION_GATE_IDLE_TTL", "not-a-duration")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("OTEL_SAMPLE_RATIO", "1.5")

	cfg := Load()
	assert.Equal(t, "https://shop.aquatech.test", cfg.App.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Identity.Timeout)
	assert.Equal(t, []string{"google", "github"}, cfg.Identity.Providers)
	assert.Equal(t, 30*time.Minute, cfg.Session.GateIdleTTL)
	assert.Equal(t, 2525, cfg.SMTP.Port)
	assert.Equal(t, 1.0, cfg.Tracing.SampleRatio)
}

func TestValidate(t *testing.T) {
	cfg := &Config{App: AppConfig{Environment: EnvDevelopment}}
	assert.ErrorIs(t, cfg.Validate(), ErrIdentityNotConfigured)

	cfg.Identity = IdentityConfig{URL: "https://identity.test", AnonKey: "anon"}
	require.NoError(t, cfg.Validate())

	cfg.App.Environment = EnvProduction
	assert.Error(t, cfg.Validate())

	cfg.Session.Secret = "s3cret"
	assert.NoError(t, cfg.Validate())

	cfg.Session.CookieKey = "too-short"
	assert.Error(t, cfg.Validate())

	cfg.Session.CookieKey = base64.StdEncoding.EncodeToString(make([]byte, 32))
	assert.NoError(t, cfg.Validate())
}

func TestSMTPEnabled(t *testing.T) {
	cfg := &Config{}
	assert.False(t, cfg.SMTPEnabled())
	cfg.SMTP = SMTPConfig{Host: "smtp.test", SalesEmail: "sales@aquatech.test"}
	assert.True(t, cfg.SMTPEnabled())
}
