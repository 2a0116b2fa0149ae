// Package config loads service configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the market-data service needs to start.
type Config struct {
	// HTTP API
	Port            int
	CORSAllowOrigin string

	// Provider
	BrapiBaseURL string
	BrapiToken   string
	HTTPTimeout  time.Duration

	// Retry policy for provider calls
	RetryAttempts int
	RetryBackoff  time.Duration

	// Symbol directory cache
	DirectoryTTL time.Duration

	// Cron spec for the background directory warmer; empty disables it.
	RefreshSchedule string
}

// Load reads configuration from the environment. Every value has a working
// default; in particular the provider token may be absent entirely.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:            envInt("PORT", 8090),
		CORSAllowOrigin: envStr("CORS_ALLOW_ORIGIN", "*"),

		BrapiBaseURL: envStr("BRAPI_BASE_URL", "https://brapi.dev/api"),
		BrapiToken:   envStr("BRAPI_TOKEN", ""),
		HTTPTimeout:  envDuration("HTTP_TIMEOUT", 30*time.Second),

		RetryAttempts: envInt("RETRY_ATTEMPTS", 3),
		RetryBackoff:  envDuration("RETRY_BACKOFF", 500*time.Millisecond),

		DirectoryTTL: envDuration("DIRECTORY_TTL", 5*time.Minute),

		RefreshSchedule: envStr("REFRESH_SCHEDULE", "@every 4m"),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
