// Package report renders an analysis result into a markdown research
// note: verdict, financial highlights with filing citations, insider
// activity, red flags, and sources.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/filingsight/filingsight/internal/contracts"
	"github.com/filingsight/filingsight/internal/external/sec"
	"github.com/filingsight/filingsight/pkg/logger"
)

const notAvailable = "Not available"

// Renderer turns analysis results into markdown documents.
type Renderer struct {
	log *logger.Logger
}

// NewRenderer creates a renderer.
func NewRenderer(log *logger.Logger) *Renderer {
	return &Renderer{log: log.WithComponent("report-renderer")}
}

// Write renders the report and writes it under dir as
// <ticker>_<as-of>.md, returning the written path.
func (r *Renderer) Write(dir string, result *contracts.AnalysisResult, filings *sec.FilingSelection) (string, error) {
	text := r.Render(result, filings)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.md", result.Ticker, result.AsOf))
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}

	r.log.WithFields(map[string]interface{}{
		"ticker": result.Ticker,
		"path":   path,
	}).Info("Report written")
	return path, nil
}

// Render builds the markdown document. filings may be nil when the run
// had no EDGAR access; the sources section then lists provenance only.
func (r *Renderer) Render(result *contracts.AnalysisResult, filings *sec.FilingSelection) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Research Report — %s\n\n", result.Ticker)
	fmt.Fprintf(&b, "- Date: %s\n", result.AsOf)
	if result.CIK != "" {
		fmt.Fprintf(&b, "- CIK: %s\n", result.CIK)
	}
	b.WriteString("\n")

	writeVerdict(&b, result.Verdict)
	writeHighlights(&b, result.Metrics)
	writeInsiders(&b, result.Insiders)
	writeRedFlags(&b, result.Signals.RedFlags)
	writeSources(&b, result.Metrics, filings)

	return b.String()
}

func writeVerdict(b *strings.Builder, v contracts.Verdict) {
	b.WriteString("## Summary Verdict\n\n")
	fmt.Fprintf(b, "- Classification: **%s**\n", v.Classification)
	fmt.Fprintf(b, "- Confidence: **%s**\n", v.Confidence)
	fmt.Fprintf(b, "- Positive signal ratio: %s, coverage: %s\n", fmtRatio(&v.PositiveRatio), fmtRatio(&v.Coverage))
	for _, reason := range v.Reasons {
		fmt.Fprintf(b, "- %s\n", reason)
	}
	b.WriteString("\n")
}

func writeHighlights(b *strings.Builder, m *contracts.MetricsReport) {
	b.WriteString("## Financial Highlights\n\n")
	if m == nil {
		b.WriteString(notAvailable + "\n\n")
		return
	}

	if rc := m.RevenueCagr; rc != nil {
		fmt.Fprintf(b, "- Revenue CAGR: **%s** over %d years (%d–%d)\n",
			fmtPct(&rc.Cagr), rc.Span, rc.StartYear, rc.EndYear)
	} else {
		fmt.Fprintf(b, "- Revenue CAGR: %s\n", notAvailable)
	}

	if dd := m.RevenueDrawdown; dd != nil {
		fmt.Fprintf(b, "- Revenue drawdown: %d down years, worst single-year decline %.1f%%\n",
			dd.DownYears, dd.MaxDeclinePct)
	}

	if gm := m.GrossMargin; gm != nil {
		fmt.Fprintf(b, "- Gross margin mean/std (pp): **%.1f** / **%.1f** over %d years\n",
			gm.Mean, gm.StdDev, gm.Years)
	} else {
		fmt.Fprintf(b, "- Gross margin: %s\n", notAvailable)
	}

	if mp := m.MarginPersistence; mp != nil {
		fmt.Fprintf(b, "- Operating margin positive in %d of %d years\n", mp.PositiveYears, mp.Years)
	}

	if cf := m.CashFlow; cf != nil {
		fmt.Fprintf(b, "- Free cash flow (latest, %d): **%.0f**; positive in %d of %d years\n",
			cf.LatestYear, cf.LatestValue, cf.PositiveYears, len(cf.FreeCashFlow))
	} else {
		fmt.Fprintf(b, "- Free cash flow: %s\n", notAvailable)
	}

	fmt.Fprintf(b, "- Interest coverage (latest): **%s**\n", fmtRatio(m.InterestCoverage))
	fmt.Fprintf(b, "- Current ratio (latest): **%s**\n", fmtRatio(m.CurrentRatio))

	if lev := m.Leverage; lev != nil {
		fmt.Fprintf(b, "- Net debt/EBITDA (latest): **%s**\n", fmtRatio(lev.NetDebtToEbitda))
	} else {
		fmt.Fprintf(b, "- Net debt/EBITDA: %s\n", notAvailable)
	}

	if st := m.Shares; st != nil {
		fmt.Fprintf(b, "- Diluted shares: %s of %.1f%% (%d–%d)\n",
			st.Direction, st.PctChange, st.StartYear, st.EndYear)
	}

	if m.GrossProfitTag != "" {
		fmt.Fprintf(b, "- Gross profit source: `%s`\n", m.GrossProfitTag)
	}
	b.WriteString("\n")
}

func writeInsiders(b *strings.Builder, ins *contracts.InsiderReport) {
	b.WriteString("## Insider Activity\n\n")
	if ins == nil {
		b.WriteString("Insider feed unavailable for this run.\n\n")
		return
	}

	for _, label := range []string{contracts.Window3M, contracts.Window6M, contracts.Window12M} {
		w, ok := ins.Windows[label]
		if !ok {
			continue
		}
		fmt.Fprintf(b, "- %s: net shares **%.0f**, buyers %d, sellers %d, gross dollars %.0f\n",
			label, w.NetShares, w.UniqueBuyers, w.UniqueSellers, w.TotalDollars)
	}
	fmt.Fprintf(b, "- Clustered buying events: **%d**\n", len(ins.ClusterEvents))
	fmt.Fprintf(b, "- Routine sellers flagged: **%d**\n", len(ins.RoutineSellers))
	fmt.Fprintf(b, "- Owner alignment: **%s**\n", ins.OwnerAlignment)
	b.WriteString("\n")
}

func writeRedFlags(b *strings.Builder, rf contracts.RedFlagSignals) {
	b.WriteString("## Red Flags\n\n")
	flags := []struct {
		label string
		value contracts.Tristate
	}{
		{"Margin collapse", rf.MarginCollapse},
		{"Overleveraged", rf.Overleveraged},
		{"Thin interest coverage", rf.CoverageThin},
		{"Persistent cash burn", rf.PersistentCashBurn},
		{"Heavy dilution", rf.HeavyDilution},
	}
	for _, f := range flags {
		fmt.Fprintf(b, "- %s: %s\n", f.label, yesNo(f.value))
	}
	b.WriteString("\n")
}

func writeSources(b *strings.Builder, m *contracts.MetricsReport, filings *sec.FilingSelection) {
	b.WriteString("## Sources and Citations\n\n")

	if filings != nil {
		if f := filings.Latest10K; f != nil {
			fmt.Fprintf(b, "- 10-K (%s), accn %s: %s\n", f.FilingDate, f.AccessionNumber, f.IndexURL)
		}
		for _, q := range filings.Recent10Qs {
			fmt.Fprintf(b, "- 10-Q (%s), accn %s: %s\n", q.FilingDate, q.AccessionNumber, q.IndexURL)
		}
		if f := filings.LatestProxy; f != nil {
			fmt.Fprintf(b, "- DEF 14A (%s), accn %s: %s\n", f.FilingDate, f.AccessionNumber, f.IndexURL)
		}
		if n := len(filings.Recent8Ks); n > 0 {
			fmt.Fprintf(b, "- 8-K (last 90d): %d filings\n", n)
		}
		if n := len(filings.Form4s); n > 0 {
			fmt.Fprintf(b, "- Form 4 (lookback window): %d filings\n", n)
		}
	}

	if m != nil {
		for _, metric := range contracts.MetricNames() {
			ref, ok := m.Provenance[metric]
			if !ok || ref.AccessionNo == "" {
				continue
			}
			fmt.Fprintf(b, "- %s: %s filed %s, accn %s\n", metric, ref.FormType, ref.FiledDate, ref.AccessionNo)
		}
	}
	b.WriteString("\n")
}

func fmtPct(x *float64) string {
	if x == nil {
		return notAvailable
	}
	return fmt.Sprintf("%.2f%%", *x*100)
}

func fmtRatio(x *float64) string {
	if x == nil {
		return notAvailable
	}
	return fmt.Sprintf("%.2f", *x)
}

func yesNo(t contracts.Tristate) string {
	switch t {
	case contracts.True:
		return "Yes"
	case contracts.False:
		return "No"
	default:
		return "Unknown"
	}
}
