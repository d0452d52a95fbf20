package contracts

import (
	"sort"
	"strconv"
)

// FactRecord is one reported value for one metric at one point in time.
// Records are never mutated after creation; the reducer only selects
// among them. Multiple records may describe the same fiscal year when a
// figure was restated across filings.
type FactRecord struct {
	End          string   `json:"end"`             // period-end date, YYYY-MM-DD
	Value        *float64 `json:"val"`             // nil when the source reported no value
	FiscalYear   *int     `json:"fy,omitempty"`    // absent values are derived from End
	FiscalPeriod string   `json:"fp,omitempty"`    // "FY", "Q1", ... (may be empty)
	FormType     string   `json:"form,omitempty"`  // "10-K", "ANNUAL", ...
	FiledDate    string   `json:"filed,omitempty"` // disclosure date, YYYY-MM-DD
	AccessionNo  string   `json:"accn,omitempty"`  // opaque source reference
	Tag          string   `json:"tag,omitempty"`   // originating taxonomy/field name
	Unit         string   `json:"unit,omitempty"`
}

// Year returns the fiscal year for grouping purposes: the reported
// fiscal year when present, otherwise the 4-digit prefix of End.
// ok is false when neither is usable.
func (f FactRecord) Year() (int, bool) {
	if f.FiscalYear != nil {
		return *f.FiscalYear, true
	}
	if len(f.End) >= 4 {
		if y, err := strconv.Atoi(f.End[:4]); err == nil {
			return y, true
		}
	}
	return 0, false
}

// Ref returns the source reference carried into provenance output.
func (f FactRecord) Ref() SourceRef {
	return SourceRef{
		FormType:    f.FormType,
		AccessionNo: f.AccessionNo,
		FiledDate:   f.FiledDate,
		End:         f.End,
	}
}

// SourceRef points a computed metric back at the filing its inputs came
// from. It carries identifiers only, never raw payloads.
type SourceRef struct {
	FormType    string `json:"form,omitempty"`
	AccessionNo string `json:"accn,omitempty"`
	FiledDate   string `json:"filed,omitempty"`
	End         string `json:"end,omitempty"`
}

// AnnualSeries maps a fiscal year to the single fact chosen for it.
type AnnualSeries map[int]FactRecord

// Years returns the years present in the series in ascending order.
func (s AnnualSeries) Years() []int {
	years := make([]int, 0, len(s))
	for y := range s {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// Value returns the numeric value for a year, if both the year and its
// value are present.
func (s AnnualSeries) Value(year int) (float64, bool) {
	fact, ok := s[year]
	if !ok || fact.Value == nil {
		return 0, false
	}
	return *fact.Value, true
}

// YearValues returns (year, value) pairs in ascending year order,
// skipping years whose chosen fact has no value.
func (s AnnualSeries) YearValues() []YearValue {
	out := make([]YearValue, 0, len(s))
	for _, y := range s.Years() {
		if v, ok := s.Value(y); ok {
			out = append(out, YearValue{Year: y, Value: v})
		}
	}
	return out
}

// YearValue is one (fiscal year, value) observation.
type YearValue struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// MetricSeries maps metric names to their raw fact-record lists as
// handed over by a retrieval collaborator. Absent metrics are empty
// lists, never errors.
type MetricSeries map[string][]FactRecord

// Get returns the raw facts for a metric; missing metrics yield nil,
// which every consumer treats as an empty series.
func (m MetricSeries) Get(metric string) []FactRecord {
	return m[metric]
}

// Fixed metric names shared between retrieval collaborators and the
// metrics engine.
const (
	MetricRevenue          = "revenue"
	MetricCostOfRevenue    = "cost_of_revenue"
	MetricGrossProfit      = "gross_profit"
	MetricOperatingIncome  = "operating_income"
	MetricNetIncome        = "net_income"
	MetricDilutedShares    = "diluted_shares"
	MetricCFO              = "cfo"
	MetricCapex            = "capex"
	MetricInterestExpense  = "interest_expense"
	MetricDepreciationAmrt = "depreciation_amortization"
	MetricAssetsCurrent    = "assets_current"
	MetricLiabsCurrent     = "liabilities_current"
	MetricCash             = "cash"
	MetricRestrictedCash   = "restricted_cash"
	MetricShortTermBorrow  = "short_term_borrowings"
	MetricLTDebtCurrent    = "lt_debt_current"
	MetricLTDebtNoncurrent = "lt_debt_noncurrent"
	MetricTotalDebt        = "total_debt"
)

// MetricNames lists every metric the engine knows about, in report order.
func MetricNames() []string {
	return []string{
		MetricRevenue,
		MetricCostOfRevenue,
		MetricGrossProfit,
		MetricOperatingIncome,
		MetricNetIncome,
		MetricDilutedShares,
		MetricCFO,
		MetricCapex,
		MetricInterestExpense,
		MetricDepreciationAmrt,
		MetricAssetsCurrent,
		MetricLiabsCurrent,
		MetricCash,
		MetricRestrictedCash,
		MetricShortTermBorrow,
		MetricLTDebtCurrent,
		MetricLTDebtNoncurrent,
		MetricTotalDebt,
	}
}

// Float returns a pointer to v, for building FactRecord literals.
func Float(v float64) *float64 {
	return &v
}

// Int returns a pointer to v, for building FactRecord literals.
func Int(v int) *int {
	return &v
}
