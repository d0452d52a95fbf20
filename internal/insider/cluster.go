package insider

import (
	"math"

	"github.com/filingsight/filingsight/internal/contracts"
)

// scanClusters finds windows of concentrated buying. Every buy event is
// tried as a window start and the window extends forward over later
// buys within ClusterWindowDays of it, inclusive. A window qualifies
// when enough distinct named buyers participated and the total clears
// either the dollar threshold or, when shares outstanding is known, the
// float-percentage threshold. Overlapping windows over the same trades
// are reported separately on purpose: each qualifying sub-window is its
// own event.
func scanClusters(events []event, sharesOutstanding *float64, p Params) []contracts.ClusterEvent {
	var buys []event
	for _, ev := range events {
		if ev.sign > 0 {
			buys = append(buys, ev)
		}
	}

	var clusters []contracts.ClusterEvent
	for i := range buys {
		end := buys[i].date.AddDate(0, 0, p.ClusterWindowDays)
		names := make(map[string]struct{})
		var sharesSum, dollarsSum float64
		last := buys[i].date

		for j := i; j < len(buys) && !buys[j].date.After(end); j++ {
			if buys[j].owner != "" {
				names[buys[j].owner] = struct{}{}
			}
			sharesSum += buys[j].shares
			dollarsSum += math.Abs(buys[j].shares * buys[j].price)
			last = buys[j].date
		}

		if len(names) < p.ClusterMinInsiders {
			continue
		}
		if !clearsSizeThreshold(sharesSum, dollarsSum, sharesOutstanding, p) {
			continue
		}

		cluster := contracts.ClusterEvent{
			WindowStart:    buys[i].date.Format(dateLayout),
			WindowEnd:      last.Format(dateLayout),
			UniqueInsiders: len(names),
			SharesSum:      sharesSum,
			DollarsSum:     dollarsSum,
		}
		if sharesOutstanding != nil && *sharesOutstanding > 0 {
			cluster.SharesPctOfOut = contracts.Float(sharesSum / *sharesOutstanding * 100)
		}
		clusters = append(clusters, cluster)
	}
	return clusters
}

func clearsSizeThreshold(sharesSum, dollarsSum float64, sharesOutstanding *float64, p Params) bool {
	if dollarsSum >= p.ClusterMinDollars {
		return true
	}
	if sharesOutstanding != nil && *sharesOutstanding > 0 {
		return sharesSum >= *sharesOutstanding*p.ClusterMinPctFloat/100
	}
	return false
}
