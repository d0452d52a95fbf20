package signal

// Fixed thresholds mapping engine outputs onto boolean signals.
const (
	maxDownYears           = 2    // durability: tolerated year-over-year revenue declines
	fcfPositiveRatioMin    = 0.7  // durability: share of FCF years that must be positive
	fcfMinYears            = 3    // durability: FCF observations needed before judging consistency
	grossMarginStdMaxPp    = 5.0  // moat: tolerated gross-margin standard deviation, points
	interestCoverageStrong = 4.0  // balance sheet: EBIT over interest
	currentRatioHealthy    = 1.0  // balance sheet
	netDebtToEbitdaModest  = 3.0  // balance sheet
	routineSellerRatioMin  = 0.5  // insiders: share of sellers that must look pre-planned
	overleveragedRatio     = 4.0  // red flag: net debt over EBITDA
	coverageThinRatio      = 2.0  // red flag: EBIT over interest
	cashBurnPositiveRatio  = 0.5  // red flag: below this share of positive FCF years is a burn
	heavyDilutionPct       = 10.0 // red flag: share-count growth in percent
)
