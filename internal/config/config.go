package config

import (
	"encoding/base64"
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)

type Config struct {
	App      AppConfig
	Session  SessionConfig
	Identity IdentityConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Tracing  TracingConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	StreamLogFilePath  string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type SessionConfig struct {
	// Secret seals stored tokens. Empty means a random per-process key.
	Secret string
	// CookieKey is the base64 key for encrypted cookies. Empty disables encryption.
	CookieKey    string
	TTL          time.Duration
	GateIdleTTL  time.Duration
	LoadingGrace time.Duration
}

type IdentityConfig struct {
	URL       string
	AnonKey   string
	JWTSecret string
	Timeout   time.Duration
	Providers []string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
	SalesEmail string
}

type TracingConfig struct {
	Enabled     bool
	Endpoint    string
	SampleRatio float64
	Environment string
}

var ErrIdentityNotConfigured = errors.New("IDENTITY_URL and IDENTITY_ANON_KEY must be set")

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            strings.TrimRight(getEnv("APP_BASE_URL", "http://localhost:3000"), "/"),
			Environment:        getEnv("GO_ENV", EnvDevelopment),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			StreamLogFilePath:  getEnv("STREAM_LOG_FILE_PATH", "logs/session_stream.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
		},
		Session: SessionConfig{
			Secret:       getEnv("SESSION_SECRET", ""),
			CookieKey:    getEnv("SESSION_COOKIE_KEY", ""),
			TTL:          getEnvAsDuration("SESSION_TTL", 720*time.Hour),
			GateIdleTTL:  getEnvAsDuration("SESSION_GATE_IDLE_TTL", 30*time.Minute),
			LoadingGrace: getEnvAsDuration("SESSION_LOADING_GRACE", 2*time.Second),
		},
		Identity: IdentityConfig{
			URL:       getEnv("IDENTITY_URL", ""),
			AnonKey:   getEnv("IDENTITY_ANON_KEY", ""),
			JWTSecret: getEnv("IDENTITY_JWT_SECRET", ""),
			Timeout:   getEnvAsDuration("IDENTITY_TIMEOUT", 15*time.Second),
			Providers: getEnvAsList("IDENTITY_PROVIDERS", []string{"google"}),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "AquaTech"),
			SalesEmail: getEnv("SALES_EMAIL", ""),
		},
		Tracing: TracingConfig{
			Enabled:     getEnv("OTEL_ENABLED", "") == "true",
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
			SampleRatio: getEnvAsRatio("OTEL_SAMPLE_RATIO", 1),
			Environment: getEnv("GO_ENV", EnvDevelopment),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == EnvProduction
}

// SMTPEnabled reports whether inquiry emails can be sent.
func (c *Config) SMTPEnabled() bool {
	return c.SMTP.Host != "" && c.SMTP.SalesEmail != ""
}

// Validate reports configuration the service cannot run correctly without.
// Missing identity settings are fatal in production only; elsewhere the
// identity client answers every call with identity.ErrNotConfigured.
func (c *Config) Validate() error {
	if c.Session.CookieKey != "" {
		key, err := base64.StdEncoding.DecodeString(c.Session.CookieKey)
		if err != nil || len(key) != 32 {
			return errors.New("SESSION_COOKIE_KEY must be 32 base64 encoded bytes")
		}
	}
	if c.IsProduction() && c.Session.Secret == "" {
		return errors.New("SESSION_SECRET must be set in production")
	}
	if c.Identity.URL == "" || c.Identity.AnonKey == "" {
		return ErrIdentityNotConfigured
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil && value > 0 {
		return value
	}
	return fallback
}

// getEnvAsRatio accepts values in [0, 1].
func getEnvAsRatio(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil && value >= 0 && value <= 1 {
		return value
	}
	return fallback
}

func getEnvAsList(key string, fallback []string) []string {
	strValue := getEnv(key, "")
	var out []string
	for _, part := range strings.Split(strValue, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
