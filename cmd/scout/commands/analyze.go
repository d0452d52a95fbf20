package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/filingsight/filingsight/internal/external/sec"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze TICKER [TICKER...]",
	Short: "Run the full analysis pipeline for one or more tickers",
	Long: `Fetches fundamentals and insider transactions, computes the metric
and signal tree, classifies the company, and writes a markdown report.

Example:
  go run ./cmd/scout analyze AAPL
  go run ./cmd/scout analyze AAPL MSFT --as-of 2024-12-01
  go run ./cmd/scout analyze AAPL --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

var (
	analyzeAsOf   string
	analyzeOutput string
	analyzeJSON   bool
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeAsOf, "as-of", "", "reference date YYYY-MM-DD (default today)")
	analyzeCmd.Flags().StringVar(&analyzeOutput, "output", "", "report output directory (default from config)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the full result document as JSON")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}
	defer d.close()

	asOf := time.Now().UTC()
	if analyzeAsOf != "" {
		asOf, err = time.Parse("2006-01-02", analyzeAsOf)
		if err != nil {
			return fmt.Errorf("parse --as-of: %w", err)
		}
	}

	outputDir := d.cfg.Analysis.OutputDir
	if analyzeOutput != "" {
		outputDir = analyzeOutput
	}

	ctx := context.Background()
	var failed int

	for _, arg := range args {
		ticker := strings.ToUpper(arg)
		result, err := d.service.Analyze(ctx, ticker, asOf)
		if err != nil {
			printError(fmt.Sprintf("%s: %v", ticker, err))
			failed++
			continue
		}

		if analyzeJSON {
			encoded, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("encode result: %w", err)
			}
			fmt.Println(string(encoded))
		} else {
			printVerdict(result.Ticker, string(result.Verdict.Classification), string(result.Verdict.Confidence), result.Verdict.Reasons)
		}

		// Filing citations for the report's sources section, when the
		// run went through EDGAR.
		var filings *sec.FilingSelection
		if result.CIK != "" {
			if subs, serr := d.edgar.FetchSubmissions(ctx, result.CIK); serr != nil {
				d.log.WithError(serr).Warn("Failed to fetch filing history for citations")
			} else {
				sel := sec.SelectFilings(subs.Rows(), asOf, d.cfg.Analysis.Form4LookbackDays, 3)
				filings = &sel
			}
		}

		path, err := d.renderer.Write(outputDir, result, filings)
		if err != nil {
			printError(fmt.Sprintf("%s: write report: %v", ticker, err))
			failed++
			continue
		}
		printSuccess(fmt.Sprintf("%s report written to %s", ticker, path))
	}

	if failed > 0 {
		os.Exit(1)
	}
	return nil
}
