// Package metrics computes longitudinal ratios and window statistics
// over reduced annual series. Every metric degrades independently to
// nil when its inputs are missing; nothing here returns an error for a
// data gap.
package metrics

import (
	"github.com/filingsight/filingsight/internal/contracts"
	"github.com/filingsight/filingsight/internal/reduce"
	"github.com/filingsight/filingsight/pkg/logger"
)

// Engine reduces raw metric series and computes the full ratio report.
// Stateless between calls; safe for concurrent use.
type Engine struct {
	log           *logger.Logger
	preferredForm string
}

// NewEngine creates a metrics engine. preferredForm is the form type
// the reducer prefers within a fiscal year, typically "10-K".
func NewEngine(log *logger.Logger, preferredForm string) *Engine {
	return &Engine{
		log:           log.WithComponent("metrics-engine"),
		preferredForm: preferredForm,
	}
}

// Compute reduces every metric to an annual series and derives the
// ratio report with per-metric provenance.
func (e *Engine) Compute(series contracts.MetricSeries) *contracts.MetricsReport {
	reduced := reduce.AnnualAll(series, e.preferredForm)

	grossProfit := reduced[contracts.MetricGrossProfit]
	grossProfitTag := ""
	if len(grossProfit) > 0 {
		grossProfitTag = "reported"
	} else {
		grossProfit = DeriveGrossProfit(reduced[contracts.MetricRevenue], reduced[contracts.MetricCostOfRevenue])
		if len(grossProfit) > 0 {
			grossProfitTag = DerivedGrossProfitTag
			reduced[contracts.MetricGrossProfit] = grossProfit
		}
	}

	revenue := reduced[contracts.MetricRevenue]
	revenueValues := revenue.YearValues()

	report := &contracts.MetricsReport{
		RevenueCagr:     ChooseCagrWindow(revenueValues),
		RevenueDrawdown: Drawdown(revenueValues),
		GrossMargin:     Stability(MarginSeries(grossProfit, revenue)),
		CashFlow:        FreeCashFlow(reduced[contracts.MetricCFO], reduced[contracts.MetricCapex]),
		InterestCoverage: InterestCoverage(
			reduced[contracts.MetricOperatingIncome],
			reduced[contracts.MetricInterestExpense],
		),
		CurrentRatio: CurrentRatio(
			reduced[contracts.MetricAssetsCurrent],
			reduced[contracts.MetricLiabsCurrent],
		),
		Leverage: Leverage(leverageInputs{
			TotalDebt:       reduced[contracts.MetricTotalDebt],
			ShortTermBorrow: reduced[contracts.MetricShortTermBorrow],
			LTDebtCurrent:   reduced[contracts.MetricLTDebtCurrent],
			LTDebtNoncur:    reduced[contracts.MetricLTDebtNoncurrent],
			Cash:            reduced[contracts.MetricCash],
			RestrictedCash:  reduced[contracts.MetricRestrictedCash],
			OperatingIncome: reduced[contracts.MetricOperatingIncome],
			DepreciationAmr: reduced[contracts.MetricDepreciationAmrt],
		}),
		Shares:         Shares(reduced[contracts.MetricDilutedShares]),
		GrossProfitTag: grossProfitTag,
		Provenance:     provenance(reduced),
	}

	opMargins := MarginSeries(reduced[contracts.MetricOperatingIncome], revenue)
	report.OperatingMargin = Stability(opMargins)
	report.MarginPersistence = Persistence(opMargins)

	e.log.WithFields(map[string]interface{}{
		"revenue_years": len(revenueValues),
		"cagr":          report.RevenueCagr != nil,
		"leverage":      report.Leverage != nil,
	}).Debug("Metrics report computed")

	return report
}

// provenance records the filing reference of the latest chosen fact per
// metric, in the fixed metric order.
func provenance(reduced map[string]contracts.AnnualSeries) map[string]contracts.SourceRef {
	refs := make(map[string]contracts.SourceRef)
	for _, metric := range contracts.MetricNames() {
		series := reduced[metric]
		years := series.Years()
		if len(years) == 0 {
			continue
		}
		refs[metric] = series[years[len(years)-1]].Ref()
	}
	return refs
}
