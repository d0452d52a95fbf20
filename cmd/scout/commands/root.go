package commands

import (
	"github.com/spf13/cobra"
)

var verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "scout",
	Short: "FilingSight - SEC filing metrics and signal engine",
	Long: `FilingSight Unified CLI

Fetches SEC EDGAR company facts (with a commercial-data fallback),
reduces them to annual metrics, scans insider transaction patterns,
and classifies each company into a research verdict.

Usage:
  go run ./cmd/scout [command]

Examples:
  go run ./cmd/scout analyze AAPL
  go run ./cmd/scout fetch AAPL
  go run ./cmd/scout api
  go run ./cmd/scout status`,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
