package contracts

// Transaction is one disclosed insider trade as handed over by a
// retrieval collaborator. Empty strings stand in for missing fields;
// shares and price default to 0 when the source value did not parse.
type Transaction struct {
	Date      string  `json:"date"`       // YYYY-MM-DD, may be empty
	OwnerName string  `json:"owner_name"` // may be empty
	TypeText  string  `json:"type_text"`  // free text, e.g. "P-Purchase"
	Shares    float64 `json:"shares"`
	Price     float64 `json:"price"`
}

// ActivityWindow aggregates signed insider activity over one trailing
// window (90, 180, or 365 days).
type ActivityWindow struct {
	NetShares     float64 `json:"net_shares"`
	UniqueBuyers  int     `json:"unique_buyers"`
	UniqueSellers int     `json:"unique_sellers"`
	TotalDollars  float64 `json:"total_dollars"`
}

// ClusterEvent is one qualifying clustered-buying window. The scan is
// overlapping: the same underlying trades can appear in several events
// with different start dates.
type ClusterEvent struct {
	WindowStart    string   `json:"window_start"`
	WindowEnd      string   `json:"window_end"`
	UniqueInsiders int      `json:"unique_insiders"`
	SharesSum      float64  `json:"shares_sum"`
	DollarsSum     float64  `json:"dollars_sum"`
	SharesPctOfOut *float64 `json:"shares_pct_of_out"` // nil when shares outstanding is unknown
}

// RoutineSeller describes a seller whose cadence and sale size are
// stable enough to read as pre-planned rather than signal-bearing.
type RoutineSeller struct {
	Occurrences      int     `json:"occurrences"`
	AvgDaysBetween   float64 `json:"avg_days_between"`
	SizeDeviationPct float64 `json:"size_deviation_pct"`
}

// InsiderReport is the full output of the insider pattern detector.
type InsiderReport struct {
	Windows        map[string]ActivityWindow `json:"windows"` // keys: "3m", "6m", "12m"
	ClusterEvents  []ClusterEvent            `json:"clustered_buying"`
	RoutineSellers map[string]RoutineSeller  `json:"routine_selling"` // key: owner name
	OwnerAlignment string                    `json:"owner_alignment"` // "positive", "negative", "mixed"
}

// Window labels used by the detector and its consumers.
const (
	Window3M  = "3m"
	Window6M  = "6m"
	Window12M = "12m"
)
