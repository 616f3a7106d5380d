package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL string
	LogLevel   string
	LogFormat  string

	CredentialsPath string

	HTTPTimeout  time.Duration
	PollInterval time.Duration
	PollTimeout  time.Duration

	RetryMaxAttempts    int
	RetryInitialBackoff time.Duration
	RetryMaxBackoff     time.Duration
	BreakerEnabled      bool

	DefaultPageSize int
}

func Load() Config {
	// Best-effort env files for local development.
	_ = godotenv.Load(".env", ".env.local")

	return Config{
		APIBaseURL: mustEnv("RESUME_PILOT_API_URL", "http://localhost:8080"),
		LogLevel:   mustEnv("LOG_LEVEL", "info"),
		LogFormat:  mustEnv("LOG_FORMAT", "text"),

		CredentialsPath: mustEnv("RESUME_PILOT_CREDENTIALS", defaultCredentialsPath()),

		HTTPTimeout:  mustEnvDuration("HTTP_TIMEOUT", 30*time.Second),
		PollInterval: mustEnvDuration("POLL_INTERVAL", 2*time.Second),
		PollTimeout:  mustEnvDuration("POLL_TIMEOUT", 2*time.Minute),

		RetryMaxAttempts:    mustEnvInt("RETRY_MAX_ATTEMPTS", 3),
		RetryInitialBackoff: mustEnvDuration("RETRY_INITIAL_BACKOFF", 100*time.Millisecond),
		RetryMaxBackoff:     mustEnvDuration("RETRY_MAX_BACKOFF", 400*time.Millisecond),
		BreakerEnabled:      mustEnvBool("BREAKER_ENABLED", true),

		DefaultPageSize: mustEnvInt("DEFAULT_PAGE_SIZE", 10),
	}
}

func defaultCredentialsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".resume-pilot", "credentials.yaml")
	}
	return filepath.Join(home, ".config", "resume-pilot", "credentials.yaml")
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func mustEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
