package metrics

import (
	"math"
	"sort"

	"github.com/filingsight/filingsight/internal/contracts"
)

// Window span thresholds, widest class first. A span of target−1 years
// between endpoints counts as a window of that class (11 observations
// span 10 calendar years but 10 year-gaps).
var spanThresholds = []int{9, 6, 4}

// fallback span when no class threshold is reachable
const minFallbackSpan = 2

// ChooseCagrWindow picks the single window CAGR is computed over.
//
// Endpoints must both be strictly positive; non-positive values make
// the growth rate undefined and the pair is skipped. The widest span
// class wins outright: any qualifying 10-year-class pair beats every
// 7-year-class pair regardless of scan position. Within a class the
// scan runs start-year ascending then end-year ascending and the first
// qualifying pair is taken. When no class threshold is reachable, the
// first pair spanning at least 2 years is used. Returns nil when
// nothing qualifies.
func ChooseCagrWindow(values []contracts.YearValue) *contracts.CagrWindow {
	sorted := make([]contracts.YearValue, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Year < sorted[j].Year })

	for _, threshold := range spanThresholds {
		if w := firstQualifying(sorted, threshold); w != nil {
			return w
		}
	}
	return firstQualifying(sorted, minFallbackSpan)
}

func firstQualifying(sorted []contracts.YearValue, minSpan int) *contracts.CagrWindow {
	for i := 0; i < len(sorted); i++ {
		if sorted[i].Value <= 0 {
			continue
		}
		for j := i + 1; j < len(sorted); j++ {
			if sorted[j].Value <= 0 {
				continue
			}
			span := sorted[j].Year - sorted[i].Year
			if span < minSpan {
				continue
			}
			return &contracts.CagrWindow{
				Span:       span,
				StartYear:  sorted[i].Year,
				EndYear:    sorted[j].Year,
				StartValue: sorted[i].Value,
				EndValue:   sorted[j].Value,
				Cagr:       math.Pow(sorted[j].Value/sorted[i].Value, 1/float64(span)) - 1,
			}
		}
	}
	return nil
}
