// Package classify reduces a signal tree to the final two-value
// verdict: a classification bucket and a confidence tier.
package classify

import (
	"fmt"

	"github.com/filingsight/filingsight/internal/contracts"
	"github.com/filingsight/filingsight/pkg/logger"
)

const (
	// share of known core signals that must be true to warrant a closer look
	investigateRatio = 0.7

	// coverage tiers over all signals
	highCoverage   = 0.8
	mediumCoverage = 0.5
)

// Classifier turns a SignalSet into a Verdict.
type Classifier struct {
	log *logger.Logger
}

// New creates a classifier.
func New(log *logger.Logger) *Classifier {
	return &Classifier{log: log.WithComponent("classifier")}
}

// Classify produces the verdict. Any true red flag forces
// "Avoid-for-now" regardless of the positive ratio. Otherwise the
// fraction of true among known core signals decides between
// "Investigate Further" and "Watch". Confidence comes from coverage
// over every signal in the tree: both true and false count as known.
func (c *Classifier) Classify(signals contracts.SignalSet) contracts.Verdict {
	positiveRatio, knownCore := positiveRatio(signals.CoreFields())
	coverage := coverage(signals.AllFields())
	redFlagged := signals.AnyRedFlag()

	verdict := contracts.Verdict{
		PositiveRatio: positiveRatio,
		Coverage:      coverage,
	}

	switch {
	case redFlagged:
		verdict.Classification = contracts.ClassAvoid
		verdict.Reasons = append(verdict.Reasons, redFlagReasons(signals.RedFlags)...)
	case positiveRatio >= investigateRatio && knownCore > 0:
		verdict.Classification = contracts.ClassInvestigate
		verdict.Reasons = append(verdict.Reasons,
			fmt.Sprintf("%.0f%% of %d known core signals are positive", positiveRatio*100, knownCore))
	default:
		verdict.Classification = contracts.ClassWatch
		if knownCore == 0 {
			verdict.Reasons = append(verdict.Reasons, "no core signal could be evaluated")
		} else {
			verdict.Reasons = append(verdict.Reasons,
				fmt.Sprintf("only %.0f%% of %d known core signals are positive", positiveRatio*100, knownCore))
		}
	}

	switch {
	case coverage >= highCoverage && !redFlagged:
		verdict.Confidence = contracts.ConfidenceHigh
	case coverage >= mediumCoverage:
		verdict.Confidence = contracts.ConfidenceMedium
	default:
		verdict.Confidence = contracts.ConfidenceLow
	}

	c.log.WithFields(map[string]interface{}{
		"classification": string(verdict.Classification),
		"confidence":     string(verdict.Confidence),
		"positive_ratio": positiveRatio,
		"coverage":       coverage,
	}).Debug("Signals classified")

	return verdict
}

// positiveRatio is the fraction of true among known core signals.
func positiveRatio(fields []contracts.Tristate) (ratio float64, known int) {
	positive := 0
	for _, f := range fields {
		if !f.Known() {
			continue
		}
		known++
		if f.Bool() {
			positive++
		}
	}
	if known == 0 {
		return 0, 0
	}
	return float64(positive) / float64(known), known
}

// coverage is the fraction of all signals that are known.
func coverage(fields []contracts.Tristate) float64 {
	if len(fields) == 0 {
		return 0
	}
	known := 0
	for _, f := range fields {
		if f.Known() {
			known++
		}
	}
	return float64(known) / float64(len(fields))
}

func redFlagReasons(rf contracts.RedFlagSignals) []string {
	var reasons []string
	if rf.MarginCollapse == contracts.True {
		reasons = append(reasons, "red flag: margin collapsed more than 5 points in a single year")
	}
	if rf.Overleveraged == contracts.True {
		reasons = append(reasons, "red flag: net debt above 4x EBITDA")
	}
	if rf.CoverageThin == contracts.True {
		reasons = append(reasons, "red flag: interest coverage below 2x")
	}
	if rf.PersistentCashBurn == contracts.True {
		reasons = append(reasons, "red flag: free cash flow negative in most observed years")
	}
	if rf.HeavyDilution == contracts.True {
		reasons = append(reasons, "red flag: share count grew 10% or more")
	}
	return reasons
}
