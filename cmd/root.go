/*
Copyright (c) 2026 moyaru <rbffo@icloud.com>
*/

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/MOYARU/cspissues/internal/app/ui"
	"github.com/MOYARU/cspissues/internal/logging"
	appver "github.com/MOYARU/cspissues/internal/version"
)

var (
	version = appver.Value

	verbose bool
	logger  = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:           "cspissues",
	Short:         "cspissues records Content-Security-Policy weaknesses as reportable issues with HTTP transcripts as evidence.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(verbose)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s%v%s\n", ui.ColorRed, err, ui.ColorReset)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on stderr")

	rootCmd.Long = ui.Banner + `
cspissues records Content-Security-Policy weaknesses that have already been
triaged, capturing a fresh HTTP transcript of each affected URL as evidence,
and exports them as JSON or HTML issue reports.

Usage:
  cspissues kinds
  cspissues raise <kind> <url>... [flags]
  cspissues show <report.json>

Example:
  cspissues raise wildcard https://example.com --severity high --confidence certain --json
  cspissues raise deprecated https://example.com/a https://example.com/b --html
  cspissues show cspissues_report_https_example.com_20260101_120000.json

Settings are read from .cspissues.yaml in the working directory when present.

This tool is intended for security testing on assets you own or have explicit permission to test.
`

	rootCmd.AddCommand(kindsCmd, raiseCmd, showCmd)
}
