// Package analysis coordinates one company's full pipeline: fetch raw
// facts and insider trades, reduce and score them, and classify the
// outcome. Retrieval, persistence, and computation stay in their own
// packages; this service only sequences them.
package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/filingsight/filingsight/internal/classify"
	"github.com/filingsight/filingsight/internal/contracts"
	"github.com/filingsight/filingsight/internal/external/sec"
	"github.com/filingsight/filingsight/internal/insider"
	"github.com/filingsight/filingsight/internal/metrics"
	"github.com/filingsight/filingsight/internal/reduce"
	"github.com/filingsight/filingsight/internal/signal"
	"github.com/filingsight/filingsight/pkg/config"
	"github.com/filingsight/filingsight/pkg/logger"
)

// FilingsSource is the EDGAR side of retrieval: ticker resolution and
// XBRL company facts.
type FilingsSource interface {
	ResolveCIK(ctx context.Context, ticker string) (string, error)
	FetchCompanyFacts(ctx context.Context, cik string) (*sec.CompanyFacts, error)
}

// VendorSource is the commercial-data side: annual fundamentals used as
// a fallback when EDGAR fails, plus the insider feed and share count
// EDGAR does not provide in a convenient form.
type VendorSource interface {
	FetchAnnualSeries(ctx context.Context, ticker string) (contracts.MetricSeries, error)
	FetchInsiderTransactions(ctx context.Context, ticker string) ([]contracts.Transaction, error)
	FetchSharesOutstanding(ctx context.Context, ticker string) (*float64, error)
}

// Service runs the analysis pipeline for one ticker at a time.
type Service struct {
	edgar  FilingsSource
	vendor VendorSource

	engine     *metrics.Engine
	detector   *insider.Detector
	builder    *signal.Builder
	classifier *classify.Classifier

	facts   contracts.FactRepository
	txs     contracts.TransactionRepository
	results contracts.ResultRepository

	cfg config.AnalysisConfig
	log *logger.Logger
}

// NewService wires the pipeline. edgar may be nil when no EDGAR access
// is configured; retrieval then goes straight to the vendor. Any
// repository may be nil to run without persistence.
func NewService(
	edgar FilingsSource,
	vendor VendorSource,
	cfg config.AnalysisConfig,
	log *logger.Logger,
) *Service {
	return &Service{
		edgar:      edgar,
		vendor:     vendor,
		engine:     metrics.NewEngine(log, cfg.PreferredForm),
		detector:   insider.NewDetector(log, insider.DefaultParams()),
		builder:    signal.NewBuilder(log),
		classifier: classify.New(log),
		cfg:        cfg,
		log:        log.WithComponent("analysis-service"),
	}
}

// WithRepositories attaches persistence for raw inputs and results.
func (s *Service) WithRepositories(
	facts contracts.FactRepository,
	txs contracts.TransactionRepository,
	results contracts.ResultRepository,
) *Service {
	s.facts = facts
	s.txs = txs
	s.results = results
	return s
}

// Analyze runs the full pipeline for one ticker as of a reference date.
func (s *Service) Analyze(ctx context.Context, ticker string, asOf time.Time) (*contracts.AnalysisResult, error) {
	start := time.Now()
	s.log.WithFields(map[string]interface{}{
		"ticker": ticker,
		"as_of":  asOf.Format("2006-01-02"),
	}).Info("Starting analysis")

	series, cik, err := s.fetchFundamentals(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("fetch fundamentals for %s: %w", ticker, err)
	}
	s.saveFacts(ctx, ticker, series)

	txs, shares, insiderOK := s.fetchInsiders(ctx, ticker, series)
	if insiderOK {
		s.saveTransactions(ctx, ticker, txs)
	}

	report := s.engine.Compute(series)

	var insiderReport *contracts.InsiderReport
	if insiderOK {
		insiderReport = s.detector.Analyze(txs, shares, asOf)
	}

	signals := s.builder.Build(report, insiderReport)
	verdict := s.classifier.Classify(signals)

	result := &contracts.AnalysisResult{
		Ticker:      ticker,
		CIK:         cik,
		AsOf:        asOf.Format("2006-01-02"),
		Metrics:     report,
		Insiders:    insiderReport,
		Signals:     signals,
		Verdict:     verdict,
		GeneratedAt: time.Now().UTC(),
	}
	s.saveResult(ctx, result)

	s.log.WithFields(map[string]interface{}{
		"ticker":         ticker,
		"classification": string(verdict.Classification),
		"confidence":     string(verdict.Confidence),
		"duration_ms":    time.Since(start).Milliseconds(),
	}).Info("Analysis completed")

	return result, nil
}

// AnalyzeAll runs every ticker independently; one ticker's failure does
// not stop the rest. The error reports how many failed.
func (s *Service) AnalyzeAll(ctx context.Context, tickers []string, asOf time.Time) ([]*contracts.AnalysisResult, error) {
	var results []*contracts.AnalysisResult
	var failed int

	for _, ticker := range tickers {
		result, err := s.Analyze(ctx, ticker, asOf)
		if err != nil {
			failed++
			s.log.WithFields(map[string]interface{}{
				"ticker": ticker,
				"error":  err.Error(),
			}).Error("Analysis failed")
			continue
		}
		results = append(results, result)
	}

	if failed > 0 {
		return results, fmt.Errorf("%d of %d tickers failed", failed, len(tickers))
	}
	return results, nil
}

// fetchFundamentals tries EDGAR first and falls back to the vendor.
// The returned CIK is empty on the vendor path.
func (s *Service) fetchFundamentals(ctx context.Context, ticker string) (contracts.MetricSeries, string, error) {
	if s.edgar != nil {
		series, cik, err := s.fetchFromEdgar(ctx, ticker)
		if err == nil {
			return series, cik, nil
		}
		s.log.WithFields(map[string]interface{}{
			"ticker": ticker,
			"error":  err.Error(),
		}).Warn("EDGAR retrieval failed, falling back to vendor")
	}

	series, err := s.vendor.FetchAnnualSeries(ctx, ticker)
	if err != nil {
		return nil, "", err
	}
	return series, "", nil
}

func (s *Service) fetchFromEdgar(ctx context.Context, ticker string) (contracts.MetricSeries, string, error) {
	cik, err := s.edgar.ResolveCIK(ctx, ticker)
	if err != nil {
		return nil, "", fmt.Errorf("resolve CIK: %w", err)
	}
	facts, err := s.edgar.FetchCompanyFacts(ctx, cik)
	if err != nil {
		return nil, "", fmt.Errorf("fetch company facts: %w", err)
	}
	return facts.MetricSeries(), cik, nil
}

// fetchInsiders loads the insider feed and a share count for cluster
// sizing. Insider data is optional: a failed fetch downgrades the
// insider signals to unknown instead of failing the run.
func (s *Service) fetchInsiders(ctx context.Context, ticker string, series contracts.MetricSeries) ([]contracts.Transaction, *float64, bool) {
	txs, err := s.vendor.FetchInsiderTransactions(ctx, ticker)
	if err != nil {
		s.log.WithFields(map[string]interface{}{
			"ticker": ticker,
			"error":  err.Error(),
		}).Warn("Insider feed unavailable")
		return nil, nil, false
	}

	shares, err := s.vendor.FetchSharesOutstanding(ctx, ticker)
	if err != nil || shares == nil {
		shares = latestDilutedShares(series, s.cfg.PreferredForm)
	}
	return txs, shares, true
}

// latestDilutedShares falls back to the newest reported diluted share
// count when the vendor overview has none.
func latestDilutedShares(series contracts.MetricSeries, preferredForm string) *float64 {
	annual := reduce.Annual(series.Get(contracts.MetricDilutedShares), preferredForm)
	values := annual.YearValues()
	if len(values) == 0 {
		return nil
	}
	return contracts.Float(values[len(values)-1].Value)
}

// Persistence is best-effort: a storage failure is logged and the run
// continues, since the result itself is still worth returning.

func (s *Service) saveFacts(ctx context.Context, ticker string, series contracts.MetricSeries) {
	if s.facts == nil {
		return
	}
	if err := s.facts.SaveFacts(ctx, ticker, series); err != nil {
		s.log.WithFields(map[string]interface{}{
			"ticker": ticker,
			"error":  err.Error(),
		}).Warn("Failed to persist facts")
	}
}

func (s *Service) saveTransactions(ctx context.Context, ticker string, txs []contracts.Transaction) {
	if s.txs == nil {
		return
	}
	if err := s.txs.SaveTransactions(ctx, ticker, txs); err != nil {
		s.log.WithFields(map[string]interface{}{
			"ticker": ticker,
			"error":  err.Error(),
		}).Warn("Failed to persist transactions")
	}
}

func (s *Service) saveResult(ctx context.Context, result *contracts.AnalysisResult) {
	if s.results == nil {
		return
	}
	if err := s.results.SaveResult(ctx, result); err != nil {
		s.log.WithFields(map[string]interface{}{
			"ticker": result.Ticker,
			"error":  err.Error(),
		}).Warn("Failed to persist result")
	}
}
