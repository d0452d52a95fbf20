package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the latest stored analysis results",
	Long: `Lists the most recent analysis results from the database.

Example:
  go run ./cmd/scout status
  go run ./cmd/scout status --limit 50`,
	RunE: runStatus,
}

var statusLimit int

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().IntVar(&statusLimit, "limit", 20, "maximum number of results to show")
}

func runStatus(cmd *cobra.Command, args []string) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}
	defer d.close()

	if d.results == nil {
		return fmt.Errorf("status requires a database (set DATABASE_URL)")
	}

	results, err := d.results.ListResults(context.Background(), statusLimit)
	if err != nil {
		return fmt.Errorf("list results: %w", err)
	}
	if len(results) == 0 {
		fmt.Println("No stored results yet. Run: go run ./cmd/scout analyze TICKER")
		return nil
	}

	fmt.Println()
	fmt.Printf("%-8s  %-12s  %-20s  %-8s  %s\n", "TICKER", "AS OF", "CLASSIFICATION", "CONF", "GENERATED")
	printSeparator()
	for _, r := range results {
		fmt.Printf("%-8s  %-12s  %-20s  %-8s  %s\n",
			r.Ticker,
			r.AsOf,
			r.Verdict.Classification,
			r.Verdict.Confidence,
			r.GeneratedAt.Format("2006-01-02 15:04"),
		)
	}
	fmt.Println()
	return nil
}
