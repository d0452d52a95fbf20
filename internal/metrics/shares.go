package metrics

import "github.com/filingsight/filingsight/internal/contracts"

// Shares compares diluted share counts between the earliest and latest
// observed years. Returns nil with fewer than two observations or a
// non-positive starting count.
func Shares(diluted contracts.AnnualSeries) *contracts.ShareTrend {
	values := diluted.YearValues()
	if len(values) < 2 {
		return nil
	}

	start, end := values[0], values[len(values)-1]
	if start.Value <= 0 {
		return nil
	}

	pct := (end.Value - start.Value) / start.Value * 100
	direction := contracts.TrendFlat
	switch {
	case pct < 0:
		direction = contracts.TrendReduction
	case pct > 0:
		direction = contracts.TrendDilution
	}

	return &contracts.ShareTrend{
		StartYear:  start.Year,
		EndYear:    end.Year,
		StartValue: start.Value,
		EndValue:   end.Value,
		PctChange:  pct,
		Direction:  direction,
	}
}
