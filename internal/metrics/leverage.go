package metrics

import (
	"sort"

	"github.com/filingsight/filingsight/internal/contracts"
)

// leverageInputs gathers the reduced balance-sheet series Leverage
// consumes.
type leverageInputs struct {
	TotalDebt       contracts.AnnualSeries // directly reported, may be empty
	ShortTermBorrow contracts.AnnualSeries
	LTDebtCurrent   contracts.AnnualSeries
	LTDebtNoncur    contracts.AnnualSeries
	Cash            contracts.AnnualSeries
	RestrictedCash  contracts.AnnualSeries
	OperatingIncome contracts.AnnualSeries
	DepreciationAmr contracts.AnnualSeries
}

// Leverage builds the point-in-time debt picture, paired by fiscal
// year. Total debt prefers a directly reported series; otherwise it is
// derived per year as the sum of short-term borrowings and both
// long-term debt components, with 0 standing in for absent components.
// The latest year carrying a total debt figure wins, and cash and
// restricted cash are netted from that same year's values, 0 when
// unobserved that year. Net-debt-to-EBITDA is reported only when the
// EBITDA approximation is strictly positive. Returns nil when no total
// debt can be established.
func Leverage(in leverageInputs) *contracts.LeverageSummary {
	year, totalDebt, ok := latestTotalDebt(in)
	if !ok {
		return nil
	}

	summary := &contracts.LeverageSummary{TotalDebt: contracts.Float(totalDebt)}

	cash := 0.0
	if v, ok := in.Cash.Value(year); ok {
		cash = v
		summary.Cash = contracts.Float(v)
	}
	restricted := 0.0
	if v, ok := in.RestrictedCash.Value(year); ok {
		restricted = v
		summary.RestrictedCash = contracts.Float(v)
	}
	summary.NetDebt = contracts.Float(totalDebt - cash)
	summary.NetDebtInclRestr = contracts.Float(totalDebt - cash - restricted)

	summary.EbitdaApprox = latestEbitdaApprox(in.OperatingIncome, in.DepreciationAmr)
	if summary.EbitdaApprox != nil && *summary.EbitdaApprox > 0 {
		summary.NetDebtToEbitda = contracts.Float(*summary.NetDebt / *summary.EbitdaApprox)
	}
	return summary
}

// latestTotalDebt returns the latest year with a total debt figure and
// that figure. The reported series wins when it has any year at all;
// otherwise debt is summed per year over the union of the component
// series' years.
func latestTotalDebt(in leverageInputs) (int, float64, bool) {
	byYear := make(map[int]float64)
	if reported := in.TotalDebt.YearValues(); len(reported) > 0 {
		for _, yv := range reported {
			byYear[yv.Year] = yv.Value
		}
	} else {
		for _, series := range []contracts.AnnualSeries{in.ShortTermBorrow, in.LTDebtCurrent, in.LTDebtNoncur} {
			for _, yv := range series.YearValues() {
				byYear[yv.Year] += yv.Value
			}
		}
	}
	if len(byYear) == 0 {
		return 0, 0, false
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)
	latest := years[len(years)-1]
	return latest, byYear[latest], true
}

// latestEbitdaApprox returns operating income plus D&A for the latest
// year where both exist.
func latestEbitdaApprox(operatingIncome, depreciation contracts.AnnualSeries) *float64 {
	var ebitda *float64
	for _, year := range operatingIncome.Years() {
		op, ok := operatingIncome.Value(year)
		if !ok {
			continue
		}
		da, ok := depreciation.Value(year)
		if !ok {
			continue
		}
		ebitda = contracts.Float(op + da)
	}
	return ebitda
}
