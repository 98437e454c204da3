// Package config provides configuration loading for the dashboard service.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	// HTTP server port
	Port string

	// BaseURL is the origin the snapshot and history paths are resolved against
	BaseURL     string
	MetricsPath string
	HistoryPath string

	// RefreshInterval is the period of the refresh ticker
	RefreshInterval time.Duration

	// FetchTimeout bounds a single fetch; zero means no timeout
	FetchTimeout time.Duration

	// FetchRetryMax is passed to the retrying HTTP client; zero leaves the
	// ticker as the only retry
	FetchRetryMax int

	// Request rate limit for the HTTP API; zero RPS disables it
	RateLimitRPS   float64
	RateLimitBurst int

	// OpenTelemetry endpoint for observability
	OtelEndpoint string

	EnableMetrics bool

	// Optional webhook receiving every refresh outcome
	WebhookURL        string
	WebhookAPIKey     string
	WebhookSigningKey string
	WebhookTimeout    time.Duration
}

// Load creates a new Config from environment variables
func Load() Config {
	return Config{
		Port:            GetEnvOrDefault("PORT", "8080"),
		BaseURL:         GetEnvOrDefault("BASE_URL", "http://localhost:8000/"),
		MetricsPath:     GetEnvOrDefault("METRICS_PATH", "data/thbill_metrics.json"),
		HistoryPath:     GetEnvOrDefault("HISTORY_PATH", "data/peg_history.json"),
		RefreshInterval: GetEnvAsDuration("REFRESH_INTERVAL", 5*time.Minute),
		FetchTimeout:    GetEnvAsDuration("FETCH_TIMEOUT", 0),
		FetchRetryMax:   GetEnvAsInt("FETCH_RETRY_MAX", 0),
		RateLimitRPS:    GetEnvAsFloat("RATE_LIMIT_RPS", 0),
		RateLimitBurst:  GetEnvAsInt("RATE_LIMIT_BURST", 20),
		OtelEndpoint:    GetEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		EnableMetrics:   GetEnvAsBool("ENABLE_METRICS", true),

		WebhookURL:        GetEnvOrDefault("WEBHOOK_URL", ""),
		WebhookAPIKey:     GetEnvOrDefault("WEBHOOK_API_KEY", ""),
		WebhookSigningKey: GetEnvOrDefault("WEBHOOK_SIGNING_KEY", ""),
		WebhookTimeout:    GetEnvAsDuration("WEBHOOK_TIMEOUT", 10*time.Second),
	}
}

// GetEnv retrieves an environment variable and whether it exists
func GetEnv(key string) (string, bool) {
	value, exists := os.LookupEnv(key)
	return value, exists
}

// GetEnvOrDefault retrieves an environment variable or returns the default value if not set
func GetEnvOrDefault(key, defaultValue string) string {
	if value, exists := GetEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// GetEnvAsInt retrieves an environment variable as an integer with a default value
func GetEnvAsInt(key string, defaultValue int) int {
	if value, exists := GetEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// GetEnvAsFloat retrieves an environment variable as a float with a default value
func GetEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := GetEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// GetEnvAsDuration retrieves an environment variable as a duration with a default value
func GetEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := GetEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// GetEnvAsBool retrieves an environment variable as a boolean with a default value
func GetEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := GetEnv(key); exists {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
