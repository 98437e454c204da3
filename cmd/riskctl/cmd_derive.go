package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourorg/thbill-risk-dashboard/internal/derive"
	"github.com/yourorg/thbill-risk-dashboard/internal/fetch"
	"github.com/yourorg/thbill-risk-dashboard/internal/model"
	"github.com/yourorg/thbill-risk-dashboard/internal/validation"
)

type deriveOptions struct {
	snapshotPath string
	historyPath  string
	format       string
}

func newDeriveCmd() *cobra.Command {
	opts := &deriveOptions{}
	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Derive the dashboard from local snapshot and history files",
		Long: `Derive the dashboard from a snapshot document on disk. Use "-" to read
the snapshot from stdin. A missing or unreadable history file is treated
as an empty history.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDerive(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.snapshotPath, "snapshot", "data/thbill_metrics.json", "Snapshot document path, or - for stdin")
	cmd.Flags().StringVar(&opts.historyPath, "history", "", "Peg history document path")
	cmd.Flags().StringVar(&opts.format, "format", formatText, "Output format (text|json|raw)")
	return cmd
}

func runDerive(cmd *cobra.Command, opts *deriveOptions) error {
	if err := validateFormat(opts.format); err != nil {
		return err
	}

	snap, err := readSnapshot(cmd.InOrStdin(), opts.snapshotPath)
	if err != nil {
		return err
	}
	if err := validation.ValidateSnapshot(snap); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}

	d := derive.Derive(snap, readHistory(opts.historyPath))
	return output(cmd.OutOrStdout(), opts.format, d)
}

func readSnapshot(stdin io.Reader, path string) (*model.MetricsSnapshot, error) {
	if path == "-" {
		return fetch.DecodeSnapshot(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening snapshot: %w", err)
	}
	defer f.Close()
	return fetch.DecodeSnapshot(f)
}

func readHistory(path string) []model.PegHistoryPoint {
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		logrus.WithError(err).Warn("Peg history unavailable, continuing without it")
		return nil
	}
	defer f.Close()
	points, err := fetch.DecodeHistory(f)
	if err != nil {
		logrus.WithError(err).Warn("Peg history unavailable, continuing without it")
		return nil
	}
	return points
}
