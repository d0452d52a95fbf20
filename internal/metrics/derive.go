package metrics

import "github.com/filingsight/filingsight/internal/contracts"

// DerivedGrossProfitTag marks gross-profit rows computed from revenue
// and cost of revenue rather than reported directly, so provenance is
// honest about derivation.
const DerivedGrossProfitTag = "computed:revenue_minus_cost_of_revenue"

// DeriveGrossProfit computes revenue minus cost of revenue for each
// matching year. Derived records borrow the revenue record's filing
// reference but carry a distinct tag. Returns nil when either input is
// missing a year entirely.
func DeriveGrossProfit(revenue, costOfRevenue contracts.AnnualSeries) contracts.AnnualSeries {
	derived := make(contracts.AnnualSeries)
	for _, year := range revenue.Years() {
		rev, ok := revenue.Value(year)
		if !ok {
			continue
		}
		cost, ok := costOfRevenue.Value(year)
		if !ok {
			continue
		}
		base := revenue[year]
		derived[year] = contracts.FactRecord{
			End:          base.End,
			Value:        contracts.Float(rev - cost),
			FiscalYear:   contracts.Int(year),
			FiscalPeriod: base.FiscalPeriod,
			FormType:     base.FormType,
			FiledDate:    base.FiledDate,
			AccessionNo:  base.AccessionNo,
			Tag:          DerivedGrossProfitTag,
			Unit:         base.Unit,
		}
	}
	if len(derived) == 0 {
		return nil
	}
	return derived
}
