package metrics

import (
	"math"

	"github.com/filingsight/filingsight/internal/contracts"
)

// margin drop worth flagging, in percentage points
const marginDropThresholdPp = 5.0

// margin must be positive in at least this share of years to count as persistent
const persistenceThreshold = 0.8

// MarginSeries computes numerator/revenue as percentage points for each
// year present in both series with non-zero revenue, ascending by year.
func MarginSeries(numerator, revenue contracts.AnnualSeries) []contracts.YearValue {
	var out []contracts.YearValue
	for _, year := range revenue.Years() {
		rev, ok := revenue.Value(year)
		if !ok || rev == 0 {
			continue
		}
		num, ok := numerator.Value(year)
		if !ok {
			continue
		}
		out = append(out, contracts.YearValue{Year: year, Value: num / rev * 100})
	}
	return out
}

// Stability reports mean, population standard deviation, and whether
// the margin fell more than 5 points between any consecutive observed
// years. Returns nil when the series is empty.
func Stability(margins []contracts.YearValue) *contracts.MarginStability {
	if len(margins) == 0 {
		return nil
	}

	var sum float64
	for _, m := range margins {
		sum += m.Value
	}
	mean := sum / float64(len(margins))

	var variance float64
	for _, m := range margins {
		d := m.Value - mean
		variance += d * d
	}
	variance /= float64(len(margins))

	stats := &contracts.MarginStability{
		Years:  len(margins),
		Mean:   mean,
		StdDev: math.Sqrt(variance),
	}
	for i := 1; i < len(margins); i++ {
		if margins[i-1].Value-margins[i].Value > marginDropThresholdPp {
			stats.DropGt5pp = true
			break
		}
	}
	return stats
}

// Persistence reports the share of observed years the margin stayed
// positive. Returns nil when no qualifying year exists.
func Persistence(margins []contracts.YearValue) *contracts.MarginPersistence {
	if len(margins) == 0 {
		return nil
	}

	positive := 0
	for _, m := range margins {
		if m.Value > 0 {
			positive++
		}
	}
	ratio := float64(positive) / float64(len(margins))
	return &contracts.MarginPersistence{
		Years:         len(margins),
		PositiveYears: positive,
		PositiveRatio: ratio,
		Persistent:    ratio >= persistenceThreshold,
	}
}
