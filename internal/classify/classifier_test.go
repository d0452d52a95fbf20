package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/filingsight/filingsight/internal/contracts"
	"github.com/filingsight/filingsight/pkg/config"
	"github.com/filingsight/filingsight/pkg/logger"
)

func testClassifier() *Classifier {
	return New(logger.New(&config.Config{LogLevel: "error", LogFormat: "json"}))
}

// allCoreTrue fills every core signal with True.
func allCoreTrue() contracts.SignalSet {
	var s contracts.SignalSet
	s.Durability = contracts.DurabilitySignals{
		RevenueCagrPositive: contracts.True,
		FewDownYears:        contracts.True,
		FcfMostlyPositive:   contracts.True,
		FcfLatestPositive:   contracts.True,
	}
	s.Moat = contracts.MoatSignals{
		GrossMarginStable:         contracts.True,
		NoMarginCollapse:          contracts.True,
		OperatingMarginPersistent: contracts.True,
	}
	s.BalanceSheet = contracts.BalanceSheetSignals{
		InterestCoverageStrong: contracts.True,
		CurrentRatioHealthy:    contracts.True,
		LeverageModest:         contracts.True,
	}
	s.CapitalAllocation = contracts.CapitalAllocationSignals{
		ShareCountFlatOrDown:  contracts.True,
		ReinvestsThroughCapex: contracts.True,
	}
	return s
}

func TestClassify_HighConfidenceAtExactCoverage(t *testing.T) {
	// 16 of 20 signals known (coverage exactly 0.8), no red flag true.
	s := allCoreTrue() // 12 known
	s.Insiders = contracts.InsiderSignals{
		ClusteredBuyingPresent: contracts.False,
		AlignmentPositive:      contracts.False,
		SellingMostlyRoutine:   contracts.False,
	} // 15 known
	s.RedFlags.MarginCollapse = contracts.False // 16 known, 4 red flags unknown

	verdict := testClassifier().Classify(s)

	assert.InDelta(t, 0.8, verdict.Coverage, 1e-9)
	assert.Equal(t, contracts.ConfidenceHigh, verdict.Confidence)
	assert.Equal(t, contracts.ClassInvestigate, verdict.Classification)
	assert.InDelta(t, 1.0, verdict.PositiveRatio, 1e-9)
}

func TestClassify_LowConfidenceBelowHalfCoverage(t *testing.T) {
	// Only 8 of 20 signals known: coverage 0.4.
	var s contracts.SignalSet
	s.Durability = contracts.DurabilitySignals{
		RevenueCagrPositive: contracts.True,
		FewDownYears:        contracts.True,
		FcfMostlyPositive:   contracts.True,
		FcfLatestPositive:   contracts.True,
	}
	s.Moat = contracts.MoatSignals{
		GrossMarginStable:         contracts.True,
		NoMarginCollapse:          contracts.True,
		OperatingMarginPersistent: contracts.True,
	}
	s.BalanceSheet.InterestCoverageStrong = contracts.True

	verdict := testClassifier().Classify(s)

	assert.InDelta(t, 0.4, verdict.Coverage, 1e-9)
	assert.Equal(t, contracts.ConfidenceLow, verdict.Confidence)
	assert.Equal(t, contracts.ClassInvestigate, verdict.Classification, "ratio over known signals is still 1.0")
}

func TestClassify_RedFlagOverridesEverything(t *testing.T) {
	s := allCoreTrue()
	s.Insiders = contracts.InsiderSignals{
		ClusteredBuyingPresent: contracts.True,
		AlignmentPositive:      contracts.True,
		SellingMostlyRoutine:   contracts.True,
	}
	s.RedFlags = contracts.RedFlagSignals{
		MarginCollapse:     contracts.False,
		Overleveraged:      contracts.True,
		CoverageThin:       contracts.False,
		PersistentCashBurn: contracts.False,
		HeavyDilution:      contracts.False,
	}

	verdict := testClassifier().Classify(s)

	assert.Equal(t, contracts.ClassAvoid, verdict.Classification)
	assert.NotEqual(t, contracts.ConfidenceHigh, verdict.Confidence, "a raised red flag caps confidence")
	assert.Equal(t, contracts.ConfidenceMedium, verdict.Confidence)
	assert.NotEmpty(t, verdict.Reasons)
	assert.Contains(t, verdict.Reasons[0], "net debt")
}

func TestClassify_WatchBelowInvestigateRatio(t *testing.T) {
	s := allCoreTrue()
	s.Moat = contracts.MoatSignals{
		GrossMarginStable:         contracts.False,
		NoMarginCollapse:          contracts.False,
		OperatingMarginPersistent: contracts.False,
	}
	s.BalanceSheet.LeverageModest = contracts.False
	// 8 of 12 known core signals true: ratio 0.667 < 0.7

	verdict := testClassifier().Classify(s)

	assert.Equal(t, contracts.ClassWatch, verdict.Classification)
	assert.InDelta(t, 8.0/12.0, verdict.PositiveRatio, 1e-9)
}

func TestClassify_InvestigateAtExactRatio(t *testing.T) {
	// 7 of 10 known core signals true: ratio exactly 0.7.
	s := allCoreTrue()
	s.Durability.FcfMostlyPositive = contracts.Unknown
	s.Durability.FcfLatestPositive = contracts.Unknown
	s.Moat.GrossMarginStable = contracts.False
	s.Moat.NoMarginCollapse = contracts.False
	s.BalanceSheet.LeverageModest = contracts.False

	verdict := testClassifier().Classify(s)

	assert.InDelta(t, 0.7, verdict.PositiveRatio, 1e-9)
	assert.Equal(t, contracts.ClassInvestigate, verdict.Classification)
}

func TestClassify_EmptySignalSet(t *testing.T) {
	verdict := testClassifier().Classify(contracts.SignalSet{})

	assert.Equal(t, contracts.ClassWatch, verdict.Classification)
	assert.Equal(t, contracts.ConfidenceLow, verdict.Confidence)
	assert.Zero(t, verdict.Coverage)
	assert.NotEmpty(t, verdict.Reasons)
}
