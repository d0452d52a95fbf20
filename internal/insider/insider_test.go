package insider

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filingsight/filingsight/internal/contracts"
	"github.com/filingsight/filingsight/pkg/config"
	"github.com/filingsight/filingsight/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{LogLevel: "error", LogFormat: "json"})
}

func testDetector() *Detector {
	return NewDetector(testLogger(), DefaultParams())
}

func tx(date, owner, typeText string, shares, price float64) contracts.Transaction {
	return contracts.Transaction{
		Date:      date,
		OwnerName: owner,
		TypeText:  typeText,
		Shares:    shares,
		Price:     price,
	}
}

func asOf(t *testing.T, date string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", date)
	require.NoError(t, err)
	return parsed
}

func TestSign(t *testing.T) {
	tests := []struct {
		typeText string
		want     int
	}{
		{"P-Purchase", 1},
		{"Open market purchase", 1},
		{"p", 1},
		{"S-Sale", -1},
		{"Automatic Sale", -1},
		{"s", -1},
		{"A-Award", 0},
		{"Gift", 0},
		{"", 0},
		{"  ", 0},
	}

	for _, tt := range tests {
		t.Run(tt.typeText, func(t *testing.T) {
			assert.Equal(t, tt.want, Sign(tt.typeText))
		})
	}
}

func TestAnalyze_WindowAggregation(t *testing.T) {
	txs := []contracts.Transaction{
		tx("2024-11-01", "Kim A", "P-Purchase", 1000, 50),  // in 3m window
		tx("2024-08-01", "Lee B", "S-Sale", 400, 50),       // in 6m window only
		tx("2024-02-01", "Park C", "P-Purchase", 200, 50),  // in 12m window only
		tx("2023-01-01", "Old D", "P-Purchase", 9999, 50),  // outside every window
		tx("2024-11-15", "", "P-Purchase", 100, 10),        // unnamed: totals yes, identity no
		tx("", "Nodate E", "P-Purchase", 500, 50),          // undated: excluded entirely
		tx("2024-11-20", "Gift F", "G-Gift", 300, 50),      // neutral: excluded
	}

	report := testDetector().Analyze(txs, nil, asOf(t, "2024-12-01"))

	w3 := report.Windows[contracts.Window3M]
	assert.InDelta(t, 1100.0, w3.NetShares, 1e-9)
	assert.Equal(t, 1, w3.UniqueBuyers, "unnamed buyer is not an identity")
	assert.Equal(t, 0, w3.UniqueSellers)
	assert.InDelta(t, 51_000.0, w3.TotalDollars, 1e-9)

	w6 := report.Windows[contracts.Window6M]
	assert.InDelta(t, 700.0, w6.NetShares, 1e-9)
	assert.Equal(t, 1, w6.UniqueSellers)
	assert.InDelta(t, 71_000.0, w6.TotalDollars, 1e-9, "dollar totals are unsigned")

	w12 := report.Windows[contracts.Window12M]
	assert.InDelta(t, 900.0, w12.NetShares, 1e-9)
	assert.Equal(t, 2, w12.UniqueBuyers)
}

func TestAnalyze_ClusteredBuyingWithinTenDays(t *testing.T) {
	// Three distinct buyers, $200k each, inside a 10-day span.
	txs := []contracts.Transaction{
		tx("2024-10-01", "Kim A", "P-Purchase", 4000, 50),
		tx("2024-10-05", "Lee B", "P-Purchase", 4000, 50),
		tx("2024-10-10", "Park C", "P-Purchase", 4000, 50),
	}

	report := testDetector().Analyze(txs, nil, asOf(t, "2024-12-01"))

	require.Len(t, report.ClusterEvents, 1)
	event := report.ClusterEvents[0]
	assert.Equal(t, 3, event.UniqueInsiders)
	assert.Equal(t, "2024-10-01", event.WindowStart)
	assert.Equal(t, "2024-10-10", event.WindowEnd)
	assert.InDelta(t, 600_000.0, event.DollarsSum, 1e-9)
	assert.Nil(t, event.SharesPctOfOut, "unknown shares outstanding")
}

func TestAnalyze_ClusterDollarsUnsignedOnMalformedRow(t *testing.T) {
	// A purchase row with a negative share count still contributes its
	// absolute dollar value to the cluster total.
	txs := []contracts.Transaction{
		tx("2024-10-01", "Kim A", "P-Purchase", 4000, 50),
		tx("2024-10-05", "Lee B", "P-Purchase", 4000, 50),
		tx("2024-10-10", "Park C", "P-Purchase", -4000, 50),
	}

	report := testDetector().Analyze(txs, nil, asOf(t, "2024-12-01"))

	require.Len(t, report.ClusterEvents, 1)
	assert.InDelta(t, 600_000.0, report.ClusterEvents[0].DollarsSum, 1e-9)
}

func TestAnalyze_NoClusterWhenSpreadOut(t *testing.T) {
	// Same three buyers spread across 45 days: no 30-day window holds
	// all three.
	txs := []contracts.Transaction{
		tx("2024-10-01", "Kim A", "P-Purchase", 4000, 50),
		tx("2024-10-23", "Lee B", "P-Purchase", 4000, 50),
		tx("2024-11-15", "Park C", "P-Purchase", 4000, 50),
	}

	report := testDetector().Analyze(txs, nil, asOf(t, "2024-12-01"))

	assert.Empty(t, report.ClusterEvents)
}

func TestAnalyze_OverlappingClustersReportedSeparately(t *testing.T) {
	// Four buyers within a week: the scan tries every start index, so
	// both the 4-name window and the trailing 3-name window qualify.
	txs := []contracts.Transaction{
		tx("2024-10-01", "Kim A", "P-Purchase", 4000, 50),
		tx("2024-10-02", "Lee B", "P-Purchase", 4000, 50),
		tx("2024-10-03", "Park C", "P-Purchase", 4000, 50),
		tx("2024-10-04", "Choi D", "P-Purchase", 4000, 50),
	}

	report := testDetector().Analyze(txs, nil, asOf(t, "2024-12-01"))

	require.Len(t, report.ClusterEvents, 2)
	assert.Equal(t, 4, report.ClusterEvents[0].UniqueInsiders)
	assert.Equal(t, 3, report.ClusterEvents[1].UniqueInsiders)
	assert.Equal(t, "2024-10-02", report.ClusterEvents[1].WindowStart)
}

func TestAnalyze_ClusterQualifiesViaFloatPercentage(t *testing.T) {
	// $30k total stays under the dollar threshold, but 60k shares is
	// 0.6% of a 10M float.
	txs := []contracts.Transaction{
		tx("2024-10-01", "Kim A", "P-Purchase", 20_000, 0.5),
		tx("2024-10-05", "Lee B", "P-Purchase", 20_000, 0.5),
		tx("2024-10-09", "Park C", "P-Purchase", 20_000, 0.5),
	}
	outstanding := contracts.Float(10_000_000)

	report := testDetector().Analyze(txs, outstanding, asOf(t, "2024-12-01"))

	require.Len(t, report.ClusterEvents, 1)
	require.NotNil(t, report.ClusterEvents[0].SharesPctOfOut)
	assert.InDelta(t, 0.6, *report.ClusterEvents[0].SharesPctOfOut, 1e-9)
}

func TestAnalyze_RoutineSeller(t *testing.T) {
	// Four sales roughly a month apart, each within 15% of the first.
	txs := []contracts.Transaction{
		tx("2024-01-10", "Kim A", "S-Sale", 1000, 40),
		tx("2024-02-09", "Kim A", "S-Sale", 1100, 40), // +30d, +10%
		tx("2024-03-20", "Kim A", "S-Sale", 950, 40),  // +40d, -5%
		tx("2024-04-14", "Kim A", "S-Sale", 1050, 40), // +25d, +5%
	}

	report := testDetector().Analyze(txs, nil, asOf(t, "2024-12-01"))

	require.Contains(t, report.RoutineSellers, "Kim A")
	seller := report.RoutineSellers["Kim A"]
	assert.Equal(t, 4, seller.Occurrences)
	assert.InDelta(t, 95.0/3.0, seller.AvgDaysBetween, 1e-9)
	assert.InDelta(t, 10.0, seller.SizeDeviationPct, 1e-9)
}

func TestAnalyze_NotRoutineWhenSizeJumps(t *testing.T) {
	// Identical cadence, but the fourth sale is 50% larger.
	txs := []contracts.Transaction{
		tx("2024-01-10", "Kim A", "S-Sale", 1000, 40),
		tx("2024-02-09", "Kim A", "S-Sale", 1000, 40),
		tx("2024-03-10", "Kim A", "S-Sale", 1000, 40),
		tx("2024-04-09", "Kim A", "S-Sale", 1500, 40),
	}

	report := testDetector().Analyze(txs, nil, asOf(t, "2024-12-01"))

	assert.NotContains(t, report.RoutineSellers, "Kim A")
}

func TestAnalyze_RoutineQuarterlyCadence(t *testing.T) {
	txs := []contracts.Transaction{
		tx("2024-01-02", "Lee B", "S-Sale", 500, 40),
		tx("2024-04-01", "Lee B", "S-Sale", 500, 40),
		tx("2024-07-01", "Lee B", "S-Sale", 500, 40),
	}

	report := testDetector().Analyze(txs, nil, asOf(t, "2024-12-01"))

	assert.Contains(t, report.RoutineSellers, "Lee B")
}

func TestAnalyze_RoutineFailsClosedOnNonPositiveSize(t *testing.T) {
	txs := []contracts.Transaction{
		tx("2024-01-10", "Kim A", "S-Sale", 0, 40),
		tx("2024-02-09", "Kim A", "S-Sale", 0, 40),
		tx("2024-03-10", "Kim A", "S-Sale", 0, 40),
	}

	report := testDetector().Analyze(txs, nil, asOf(t, "2024-12-01"))

	assert.NotContains(t, report.RoutineSellers, "Kim A")
}

func TestAnalyze_RoutineNeedsMinimumOccurrences(t *testing.T) {
	txs := []contracts.Transaction{
		tx("2024-01-10", "Kim A", "S-Sale", 1000, 40),
		tx("2024-02-09", "Kim A", "S-Sale", 1000, 40),
	}

	report := testDetector().Analyze(txs, nil, asOf(t, "2024-12-01"))

	assert.NotContains(t, report.RoutineSellers, "Kim A")
}

func TestAlignment(t *testing.T) {
	tests := []struct {
		name   string
		window contracts.ActivityWindow
		want   string
	}{
		{
			name:   "net buying with buyer majority",
			window: contracts.ActivityWindow{NetShares: 500, UniqueBuyers: 3, UniqueSellers: 1},
			want:   AlignmentPositive,
		},
		{
			name:   "net selling with seller majority",
			window: contracts.ActivityWindow{NetShares: -500, UniqueBuyers: 1, UniqueSellers: 3},
			want:   AlignmentNegative,
		},
		{
			name:   "net buying but sellers outnumber buyers",
			window: contracts.ActivityWindow{NetShares: 100, UniqueBuyers: 1, UniqueSellers: 2},
			want:   AlignmentMixed,
		},
		{
			name:   "no activity",
			window: contracts.ActivityWindow{},
			want:   AlignmentMixed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, alignment(tt.window))
		})
	}
}

func TestAnalyze_EmptyInput(t *testing.T) {
	report := testDetector().Analyze(nil, nil, asOf(t, "2024-12-01"))

	require.Len(t, report.Windows, 3)
	assert.Empty(t, report.ClusterEvents)
	assert.Empty(t, report.RoutineSellers)
	assert.Equal(t, AlignmentMixed, report.OwnerAlignment)
}
