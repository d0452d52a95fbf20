// Package insider detects behavioral patterns in disclosed insider
// transaction streams: windowed net activity, clustered buying, and
// routine (pre-planned looking) selling. All scans are pure functions
// over the input list; nothing is retained between calls.
package insider

import (
	"time"

	"github.com/filingsight/filingsight/internal/contracts"
	"github.com/filingsight/filingsight/pkg/logger"
)

// Detector runs the full pattern scan with fixed parameters.
type Detector struct {
	log    *logger.Logger
	params Params
}

// NewDetector creates a detector; pass DefaultParams() for production
// thresholds.
func NewDetector(log *logger.Logger, params Params) *Detector {
	return &Detector{
		log:    log.WithComponent("insider-detector"),
		params: params,
	}
}

// Analyze builds the full insider report as of the given timestamp.
// sharesOutstanding may be nil when unknown; it only widens the
// clustered-buying threshold and enriches cluster events.
func (d *Detector) Analyze(txs []contracts.Transaction, sharesOutstanding *float64, asOf time.Time) *contracts.InsiderReport {
	events := signedEvents(txs)

	report := &contracts.InsiderReport{
		Windows: map[string]contracts.ActivityWindow{
			contracts.Window3M:  aggregateWindow(events, asOf, 90),
			contracts.Window6M:  aggregateWindow(events, asOf, 180),
			contracts.Window12M: aggregateWindow(events, asOf, 365),
		},
		ClusterEvents:  scanClusters(events, sharesOutstanding, d.params),
		RoutineSellers: scanRoutineSellers(events, d.params),
	}
	report.OwnerAlignment = alignment(report.Windows[contracts.Window12M])

	d.log.WithFields(map[string]interface{}{
		"transactions":    len(txs),
		"signed_events":   len(events),
		"clusters":        len(report.ClusterEvents),
		"routine_sellers": len(report.RoutineSellers),
		"alignment":       report.OwnerAlignment,
	}).Debug("Insider report computed")

	return report
}

// Alignment labels.
const (
	AlignmentPositive = "positive"
	AlignmentNegative = "negative"
	AlignmentMixed    = "mixed"
)

// alignment summarizes the 12-month window: positive when net buying
// with at least as many buyers as sellers, negative when net selling
// with strictly more sellers, mixed otherwise.
func alignment(w contracts.ActivityWindow) string {
	switch {
	case w.NetShares > 0 && w.UniqueBuyers >= w.UniqueSellers:
		return AlignmentPositive
	case w.NetShares < 0 && w.UniqueSellers > w.UniqueBuyers:
		return AlignmentNegative
	default:
		return AlignmentMixed
	}
}
