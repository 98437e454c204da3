// Package main runs the thBILL risk dashboard service: a refresh loop that
// derives risk indicators from the published metrics snapshot, and an HTTP
// API serving the result.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"github.com/yourorg/thbill-risk-dashboard/internal/api"
	"github.com/yourorg/thbill-risk-dashboard/internal/config"
	"github.com/yourorg/thbill-risk-dashboard/internal/dashboard"
	"github.com/yourorg/thbill-risk-dashboard/internal/fetch"
	"github.com/yourorg/thbill-risk-dashboard/internal/otel"
	"github.com/yourorg/thbill-risk-dashboard/internal/present"
)

func main() {
	setupLogging()

	cfg := config.Load()
	shutdownTracer := otel.InitTracer(cfg)
	defer shutdownTracer()

	opts := fetch.OptionsFromConfig(cfg)
	snapshots, err := fetch.NewSnapshotFetcher(opts, cfg.MetricsPath)
	if err != nil {
		logrus.Fatalf("Invalid snapshot location: %v", err)
	}
	history, err := fetch.NewHistoryFetcher(opts, cfg.HistoryPath)
	if err != nil {
		logrus.Fatalf("Invalid history location: %v", err)
	}

	board := present.NewBoard()
	presenters := present.Multi{board}

	var registry *prometheus.Registry
	if cfg.EnableMetrics {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		presenters = append(presenters, present.NewGauges(registry))
	}

	if cfg.WebhookURL != "" {
		hook, err := newWebhook(cfg)
		if err != nil {
			logrus.Fatalf("Invalid webhook configuration: %v", err)
		}
		presenters = append(presenters, hook)
	}

	refresher := dashboard.NewRefresher(snapshots, history, presenters)
	apiServer := api.NewServer(board, api.Options{
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		Registry:       registry,
		Config:         configSummary(cfg),
	})

	logrus.WithFields(logrus.Fields{
		"port":             cfg.Port,
		"snapshot_url":     snapshots.URL(),
		"history_url":      history.URL(),
		"refresh_interval": cfg.RefreshInterval.String(),
		"metrics":          cfg.EnableMetrics,
		"webhook":          cfg.WebhookURL != "",
	}).Info("Server initialized")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		refresher.Run(ctx, cfg.RefreshInterval)
	}()

	if err := serve(ctx, cfg.Port, apiServer.Handler()); err != nil {
		logrus.Errorf("Server error: %v", err)
		stop()
	}
	<-loopDone
	logrus.Info("Server stopped")
}

// serve runs the HTTP server until ctx is done, then shuts it down.
func serve(ctx context.Context, port string, handler http.Handler) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logrus.Infof("Server starting on port %s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logrus.Info("Server shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
