package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourorg/thbill-risk-dashboard/internal/config"
	"github.com/yourorg/thbill-risk-dashboard/internal/dashboard"
	"github.com/yourorg/thbill-risk-dashboard/internal/fetch"
	"github.com/yourorg/thbill-risk-dashboard/internal/present"
)

type fetchOptions struct {
	baseURL     string
	metricsPath string
	historyPath string
	timeout     time.Duration
	retries     int
	format      string
}

func newFetchCmd() *cobra.Command {
	cfg := config.Load()
	opts := &fetchOptions{}
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch the published snapshot and history and derive the dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.baseURL, "base-url", cfg.BaseURL, "Origin the resource paths are resolved against")
	cmd.Flags().StringVar(&opts.metricsPath, "metrics-path", cfg.MetricsPath, "Snapshot path")
	cmd.Flags().StringVar(&opts.historyPath, "history-path", cfg.HistoryPath, "Peg history path")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "Timeout per fetch (0 for none)")
	cmd.Flags().IntVar(&opts.retries, "retries", cfg.FetchRetryMax, "Retries per fetch")
	cmd.Flags().StringVar(&opts.format, "format", formatText, "Output format (text|json|raw)")
	return cmd
}

func runFetch(cmd *cobra.Command, opts *fetchOptions) error {
	if err := validateFormat(opts.format); err != nil {
		return err
	}

	fo := fetch.Options{BaseURL: opts.baseURL, Timeout: opts.timeout, RetryMax: opts.retries}
	snapshots, err := fetch.NewSnapshotFetcher(fo, opts.metricsPath)
	if err != nil {
		return err
	}
	history, err := fetch.NewHistoryFetcher(fo, opts.historyPath)
	if err != nil {
		return err
	}

	board := present.NewBoard()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if _, err := dashboard.NewRefresher(snapshots, history, board).RunCycle(ctx); err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}
	return output(cmd.OutOrStdout(), opts.format, board.Derived())
}
