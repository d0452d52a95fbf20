package metrics

import "github.com/filingsight/filingsight/internal/contracts"

// FreeCashFlow computes CFO minus capex for every year where both are
// observed. Returns nil when no year has both.
func FreeCashFlow(cfo, capex contracts.AnnualSeries) *contracts.CashFlowSummary {
	summary := &contracts.CashFlowSummary{
		CfoYears:   len(cfo.YearValues()),
		CapexYears: len(capex.YearValues()),
	}

	for _, year := range cfo.Years() {
		c, ok := cfo.Value(year)
		if !ok {
			continue
		}
		x, ok := capex.Value(year)
		if !ok {
			continue
		}
		fcf := c - x
		summary.FreeCashFlow = append(summary.FreeCashFlow, contracts.YearValue{Year: year, Value: fcf})
		if fcf > 0 {
			summary.PositiveYears++
		}
	}
	if len(summary.FreeCashFlow) == 0 {
		return nil
	}

	summary.PositiveRatio = float64(summary.PositiveYears) / float64(len(summary.FreeCashFlow))
	latest := summary.FreeCashFlow[len(summary.FreeCashFlow)-1]
	summary.LatestYear = latest.Year
	summary.LatestValue = latest.Value
	return summary
}
