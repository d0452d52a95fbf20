package insider

// Params tune the pattern detector. Zero values are never meaningful;
// start from DefaultParams and override.
type Params struct {
	// Clustered buying
	ClusterWindowDays  int     // span of one candidate window
	ClusterMinInsiders int     // distinct named buyers required
	ClusterMinDollars  float64 // alternative dollar threshold
	ClusterMinPctFloat float64 // alternative threshold as percent of shares outstanding

	// Routine selling
	RoutineMinOccurrences int     // sells required before a seller is scored
	CadenceToleranceDays  float64 // accepted distance from a monthly or quarterly rhythm
	SizeTolerancePct      float64 // max deviation from the first sale's size, percent
}

// DefaultParams returns the production thresholds.
func DefaultParams() Params {
	return Params{
		ClusterWindowDays:     30,
		ClusterMinInsiders:    3,
		ClusterMinDollars:     500_000,
		ClusterMinPctFloat:    0.1,
		RoutineMinOccurrences: 3,
		CadenceToleranceDays:  15,
		SizeTolerancePct:      20,
	}
}
