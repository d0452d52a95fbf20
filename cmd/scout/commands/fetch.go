package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/filingsight/filingsight/internal/contracts"
	"github.com/filingsight/filingsight/internal/external/sec"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch TICKER",
	Short: "Fetch and store raw facts and insider transactions for a ticker",
	Long: `Retrieves the raw metric series and insider feed without running the
analysis, prints what was found, and persists it when a database is
configured.

Example:
  go run ./cmd/scout fetch AAPL`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}
	defer d.close()

	ticker := strings.ToUpper(args[0])
	ctx := context.Background()

	series, cik, err := fetchSeries(ctx, d, ticker)
	if err != nil {
		return fmt.Errorf("fetch fundamentals: %w", err)
	}
	if d.facts != nil {
		if serr := d.facts.SaveFacts(ctx, ticker, series); serr != nil {
			d.log.WithError(serr).Warn("Failed to persist facts")
		}
	}

	fmt.Println()
	printSeparator()
	fmt.Printf("  %s", ticker)
	if cik != "" {
		fmt.Printf("  (CIK %s)", cik)
	}
	fmt.Println()
	printSeparator()
	for _, metric := range contracts.MetricNames() {
		records := series.Get(metric)
		if len(records) == 0 {
			continue
		}
		printKeyValue(metric, fmt.Sprintf("%d records", len(records)))
	}

	txs, err := d.vendor.FetchInsiderTransactions(ctx, ticker)
	if err != nil {
		printError(fmt.Sprintf("insider feed: %v", err))
	} else {
		printKeyValue("insider txs", fmt.Sprintf("%d records", len(txs)))
		if d.txs != nil {
			if serr := d.txs.SaveTransactions(ctx, ticker, txs); serr != nil {
				d.log.WithError(serr).Warn("Failed to persist transactions")
			}
		}
	}
	printSeparator()

	if cik != "" {
		printFilings(ctx, d, cik)
	}

	if d.db != nil {
		printSuccess("Raw data persisted")
	}
	return nil
}

// printFilings lists the filings the analysis works from and the
// documents inside the latest annual report.
func printFilings(ctx context.Context, d *deps, cik string) {
	subs, err := d.edgar.FetchSubmissions(ctx, cik)
	if err != nil {
		printError(fmt.Sprintf("filing history: %v", err))
		return
	}
	sel := sec.SelectFilings(subs.Rows(), time.Now().UTC(), d.cfg.Analysis.Form4LookbackDays, 3)

	printKeyValue("10-Q filings", fmt.Sprintf("%d", len(sel.Recent10Qs)))
	printKeyValue("8-K (90d)", fmt.Sprintf("%d", len(sel.Recent8Ks)))
	printKeyValue("Form 4", fmt.Sprintf("%d", len(sel.Form4s)))

	if sel.Latest10K == nil {
		return
	}
	printKeyValue("latest 10-K", sel.Latest10K.FilingDate)
	docs, err := d.edgar.FetchFilingIndex(ctx, *sel.Latest10K)
	if err != nil {
		d.log.WithError(err).Warn("Failed to fetch 10-K index page")
		return
	}
	printKeyValue("10-K documents", fmt.Sprintf("%d", len(docs)))
	printSeparator()
}

// fetchSeries pulls fundamentals through the same EDGAR-then-vendor
// path the analysis service uses.
func fetchSeries(ctx context.Context, d *deps, ticker string) (contracts.MetricSeries, string, error) {
	if d.cfg.SEC.UserAgent != "" {
		cik, err := d.edgar.ResolveCIK(ctx, ticker)
		if err == nil {
			facts, ferr := d.edgar.FetchCompanyFacts(ctx, cik)
			if ferr == nil {
				return facts.MetricSeries(), cik, nil
			}
			err = ferr
		}
		d.log.WithError(err).Warn("EDGAR fetch failed, falling back to vendor")
	}

	series, err := d.vendor.FetchAnnualSeries(ctx, ticker)
	if err != nil {
		return nil, "", err
	}
	return series, "", nil
}
