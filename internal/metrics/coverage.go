package metrics

import "github.com/filingsight/filingsight/internal/contracts"

// InterestCoverage reports EBIT over interest expense for the latest
// qualifying year. The scan runs year-ascending and keeps overwriting,
// so the reported value belongs to the latest year where operating
// income exists alongside a strictly positive interest expense — not
// necessarily the latest year in either series.
func InterestCoverage(operatingIncome, interestExpense contracts.AnnualSeries) *float64 {
	var coverage *float64
	for _, year := range operatingIncome.Years() {
		ebit, ok := operatingIncome.Value(year)
		if !ok {
			continue
		}
		interest, ok := interestExpense.Value(year)
		if !ok || interest <= 0 {
			continue
		}
		coverage = contracts.Float(ebit / interest)
	}
	return coverage
}

// CurrentRatio reports current assets over current liabilities for the
// latest year where both are observed and liabilities are non-zero.
func CurrentRatio(assets, liabilities contracts.AnnualSeries) *float64 {
	var ratio *float64
	for _, year := range assets.Years() {
		a, ok := assets.Value(year)
		if !ok {
			continue
		}
		l, ok := liabilities.Value(year)
		if !ok || l == 0 {
			continue
		}
		ratio = contracts.Float(a / l)
	}
	return ratio
}
