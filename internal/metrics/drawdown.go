package metrics

import "github.com/filingsight/filingsight/internal/contracts"

// Drawdown walks consecutive available years in ascending order and
// reports how many declined year-over-year plus the worst single-year
// percentage decline. Returns nil with fewer than two observations.
func Drawdown(values []contracts.YearValue) *contracts.DrawdownStats {
	if len(values) < 2 {
		return nil
	}

	stats := &contracts.DrawdownStats{}
	for i := 1; i < len(values); i++ {
		prev, cur := values[i-1].Value, values[i].Value
		if cur >= prev {
			continue
		}
		stats.DownYears++
		if prev > 0 {
			decline := (prev - cur) / prev * 100
			if decline > stats.MaxDeclinePct {
				stats.MaxDeclinePct = decline
			}
		}
	}
	return stats
}
