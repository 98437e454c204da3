package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "BASE_URL", "REFRESH_INTERVAL", "FETCH_RETRY_MAX", "RATE_LIMIT_RPS", "ENABLE_METRICS", "WEBHOOK_URL", "WEBHOOK_TIMEOUT"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "http://localhost:8000/", cfg.BaseURL)
	assert.Equal(t, "data/thbill_metrics.json", cfg.MetricsPath)
	assert.Equal(t, "data/peg_history.json", cfg.HistoryPath)
	assert.Equal(t, 5*time.Minute, cfg.RefreshInterval)
	assert.Zero(t, cfg.FetchTimeout)
	assert.Zero(t, cfg.FetchRetryMax)
	assert.Zero(t, cfg.RateLimitRPS)
	assert.Equal(t, 20, cfg.RateLimitBurst)
	assert.True(t, cfg.EnableMetrics)
	assert.Empty(t, cfg.WebhookURL)
	assert.Equal(t, 10*time.Second, cfg.WebhookTimeout)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("REFRESH_INTERVAL", "30s")
	t.Setenv("FETCH_RETRY_MAX", "2")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("ENABLE_METRICS", "false")
	t.Setenv("WEBHOOK_URL", "https://hooks.example.com/thbill")
	t.Setenv("WEBHOOK_TIMEOUT", "3s")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.RefreshInterval)
	assert.Equal(t, 2, cfg.FetchRetryMax)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
	assert.False(t, cfg.EnableMetrics)
	assert.Equal(t, "https://hooks.example.com/thbill", cfg.WebhookURL)
	assert.Equal(t, 3*time.Second, cfg.WebhookTimeout)
}

func TestGetEnvHelpers_InvalidFallsBack(t *testing.T) {
	t.Setenv("BAD_INT", "x")
	t.Setenv("BAD_FLOAT", "x")
	t.Setenv("BAD_DURATION", "x")
	t.Setenv("BAD_BOOL", "x")

	assert.Equal(t, 7, GetEnvAsInt("BAD_INT", 7))
	assert.Equal(t, 1.5, GetEnvAsFloat("BAD_FLOAT", 1.5))
	assert.Equal(t, time.Second, GetEnvAsDuration("BAD_DURATION", time.Second))
	assert.True(t, GetEnvAsBool("BAD_BOOL", true))
}
