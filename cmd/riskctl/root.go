package main

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatRaw  = "raw"
)

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:   "riskctl",
		Short: "Derive thBILL risk indicators from a metrics snapshot",
		Long: `riskctl runs one derivation of the thBILL risk dashboard and prints it.

Examples:
  riskctl derive --snapshot data/thbill_metrics.json --history data/peg_history.json
  riskctl fetch --base-url https://dashboard.example/ --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("invalid log level %q: %w", logLevel, err)
			}
			logrus.SetLevel(level)
			logrus.SetOutput(cmd.ErrOrStderr())
			return nil
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug|info|warn|error)")

	root.AddCommand(newDeriveCmd(), newFetchCmd())
	return root
}

func validateFormat(format string) error {
	switch strings.ToLower(format) {
	case formatText, formatJSON, formatRaw:
		return nil
	default:
		return fmt.Errorf("unsupported format %q (text|json|raw)", format)
	}
}
