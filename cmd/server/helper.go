package main

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yourorg/thbill-risk-dashboard/internal/config"
	"github.com/yourorg/thbill-risk-dashboard/internal/export"
	"github.com/yourorg/thbill-risk-dashboard/internal/security"
)

// setupLogging configures the logging for the application
func setupLogging() {
	logFormat := strings.ToLower(os.Getenv("LOG_FORMAT"))
	logLevel := strings.ToLower(os.Getenv("LOG_LEVEL"))

	// Set log formatter based on environment
	switch logFormat {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	// Set log level based on environment
	switch logLevel {
	case "debug":
		logrus.SetLevel(logrus.DebugLevel)
	case "warn", "warning":
		logrus.SetLevel(logrus.WarnLevel)
	case "error":
		logrus.SetLevel(logrus.ErrorLevel)
	default:
		logrus.SetLevel(logrus.InfoLevel)
	}

	logrus.Info("Logging configured")
}

// configSummary is the configuration echoed by /status.
func configSummary(cfg config.Config) map[string]any {
	return map[string]any{
		"base_url":         cfg.BaseURL,
		"metrics_path":     cfg.MetricsPath,
		"history_path":     cfg.HistoryPath,
		"refresh_interval": cfg.RefreshInterval.String(),
		"fetch_timeout":    cfg.FetchTimeout.String(),
		"fetch_retry_max":  cfg.FetchRetryMax,
		"rate_limit_rps":   cfg.RateLimitRPS,
		"metrics":          cfg.EnableMetrics,
		"tracing":          cfg.OtelEndpoint != "",
		"webhook":          cfg.WebhookURL != "",
	}
}

// newWebhook builds the webhook presenter. Payloads are signed with the
// configured key, or an ephemeral one when none is set.
func newWebhook(cfg config.Config) (*export.Webhook, error) {
	signer, err := security.NewSigner(cfg.WebhookSigningKey)
	if err != nil {
		return nil, err
	}

	return export.NewWebhook(export.WebhookConfig{
		URL:     cfg.WebhookURL,
		APIKey:  cfg.WebhookAPIKey,
		Timeout: cfg.WebhookTimeout,
		Signer:  signer,
	})
}
