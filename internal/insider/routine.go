package insider

import (
	"math"

	"github.com/filingsight/filingsight/internal/contracts"
)

// monthly and quarterly cadences, in days
var cadenceAnchors = []float64{30, 90}

// scanRoutineSellers flags sellers whose cadence and sale size are
// stable enough to read as pre-planned. A seller needs at least
// RoutineMinOccurrences dated sells; the average gap between
// consecutive sells must sit near a monthly or quarterly rhythm, and no
// sale's share count may deviate from the first sale's by more than
// SizeTolerancePct. Non-positive sizes fail the stability check closed.
// Unnamed sellers are excluded entirely.
func scanRoutineSellers(events []event, p Params) map[string]contracts.RoutineSeller {
	byOwner := make(map[string][]event)
	for _, ev := range events {
		if ev.sign < 0 && ev.owner != "" {
			byOwner[ev.owner] = append(byOwner[ev.owner], ev)
		}
	}

	routine := make(map[string]contracts.RoutineSeller)
	for owner, sells := range byOwner {
		if len(sells) < p.RoutineMinOccurrences {
			continue
		}

		var gapSum float64
		for i := 1; i < len(sells); i++ {
			gapSum += sells[i].date.Sub(sells[i-1].date).Hours() / 24
		}
		avgGap := gapSum / float64(len(sells)-1)
		if !nearCadence(avgGap, p.CadenceToleranceDays) {
			continue
		}

		maxDeviation, ok := sizeDeviation(sells)
		if !ok || maxDeviation > p.SizeTolerancePct/100 {
			continue
		}

		routine[owner] = contracts.RoutineSeller{
			Occurrences:      len(sells),
			AvgDaysBetween:   avgGap,
			SizeDeviationPct: maxDeviation * 100,
		}
	}
	return routine
}

func nearCadence(avgGap, tolerance float64) bool {
	for _, anchor := range cadenceAnchors {
		if math.Abs(avgGap-anchor) <= tolerance {
			return true
		}
	}
	return false
}

// sizeDeviation returns the largest relative deviation of any sale's
// share count from the first sale's. ok is false when any size is
// non-positive, which makes the comparison meaningless.
func sizeDeviation(sells []event) (float64, bool) {
	first := sells[0].shares
	if first <= 0 {
		return 0, false
	}
	var max float64
	for _, s := range sells {
		if s.shares <= 0 {
			return 0, false
		}
		dev := math.Abs(s.shares-first) / first
		if dev > max {
			max = dev
		}
	}
	return max, true
}
