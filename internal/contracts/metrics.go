package contracts

// CagrWindow is the compound annual growth rate over the single chosen
// window: the widest span class the data supports, with both endpoints
// strictly positive. A nil *CagrWindow means no pair qualified.
type CagrWindow struct {
	Span       int     `json:"span_years"`
	StartYear  int     `json:"start_year"`
	EndYear    int     `json:"end_year"`
	StartValue float64 `json:"start_value"`
	EndValue   float64 `json:"end_value"`
	Cagr       float64 `json:"cagr"`
}

// DrawdownStats describe how a series behaved on the way down.
type DrawdownStats struct {
	MaxDeclinePct float64 `json:"max_decline_pct"` // worst single-year decline in percent, positive number
	DownYears     int     `json:"down_years"`      // count of year-over-year declines
}

// MarginStability summarizes one margin series (gross or operating)
// in percentage points over the observed years.
type MarginStability struct {
	Years     int     `json:"years"`
	Mean      float64 `json:"mean"`
	StdDev    float64 `json:"std_dev"`     // population standard deviation
	DropGt5pp bool    `json:"drop_gt_5pp"` // any consecutive-year drop of more than 5 points
}

// MarginPersistence reports what share of observed years a margin
// stayed positive. Persistent means that share reached 0.8.
type MarginPersistence struct {
	Years         int     `json:"years"`
	PositiveYears int     `json:"positive_years"`
	PositiveRatio float64 `json:"positive_ratio"`
	Persistent    bool    `json:"persistent"`
}

// CashFlowSummary carries per-year free cash flow (CFO minus capex,
// computed only for years where both are present) and its tendency.
type CashFlowSummary struct {
	FreeCashFlow  []YearValue `json:"free_cash_flow"`
	PositiveYears int         `json:"positive_years"`
	PositiveRatio float64     `json:"positive_ratio"`
	LatestYear    int         `json:"latest_year"`
	LatestValue   float64     `json:"latest_value"`
	CfoYears      int         `json:"cfo_years"`   // years with an operating cash flow observation
	CapexYears    int         `json:"capex_years"` // years with a capex observation
}

// LeverageSummary is a point-in-time balance-sheet picture built from
// the latest observations of each component.
type LeverageSummary struct {
	TotalDebt        *float64 `json:"total_debt"`
	Cash             *float64 `json:"cash"`
	RestrictedCash   *float64 `json:"restricted_cash"`
	NetDebt          *float64 `json:"net_debt"`                 // total debt minus unrestricted cash
	NetDebtInclRestr *float64 `json:"net_debt_incl_restricted"` // also nets restricted cash
	EbitdaApprox     *float64 `json:"ebitda_approx"`            // operating income plus D&A, latest year with both
	NetDebtToEbitda  *float64 `json:"net_debt_to_ebitda"`       // nil unless EBITDA approx > 0
}

// Share-trend directions.
const (
	TrendReduction = "reduction"
	TrendDilution  = "dilution"
	TrendFlat      = "flat"
)

// ShareTrend compares diluted share counts at the ends of the series.
type ShareTrend struct {
	StartYear  int     `json:"start_year"`
	EndYear    int     `json:"end_year"`
	StartValue float64 `json:"start_value"`
	EndValue   float64 `json:"end_value"`
	PctChange  float64 `json:"pct_change"` // positive means dilution
	Direction  string  `json:"direction"`
}

// MetricsReport is the full output of the metrics engine for one
// company. Pointer fields are nil when the underlying inputs were
// missing; consumers translate nil into unknown signals rather than
// guessing.
type MetricsReport struct {
	RevenueCagr       *CagrWindow        `json:"revenue_cagr"`
	RevenueDrawdown   *DrawdownStats     `json:"revenue_drawdown"`
	GrossMargin       *MarginStability   `json:"gross_margin"`
	OperatingMargin   *MarginStability   `json:"operating_margin"`
	MarginPersistence *MarginPersistence `json:"operating_margin_persistence"`
	CashFlow          *CashFlowSummary   `json:"cash_flow"`
	InterestCoverage  *float64           `json:"interest_coverage"`
	CurrentRatio      *float64           `json:"current_ratio"`
	Leverage          *LeverageSummary   `json:"leverage"`
	Shares            *ShareTrend        `json:"share_trend"`
	GrossProfitTag    string             `json:"gross_profit_tag,omitempty"` // which tag supplied gross profit, reported or derived

	// Provenance maps each metric name to the filing reference of the
	// latest fact used for it.
	Provenance map[string]SourceRef `json:"provenance"`
}
