// Package reduce collapses raw, possibly-duplicated fact records into
// one chosen record per fiscal year. Restatements across filings mean
// several records can describe the same year; the reducer selects one
// deterministically and never mutates its input.
package reduce

import (
	"strings"

	"github.com/filingsight/filingsight/internal/contracts"
)

// Annual reduces a raw fact list to one record per fiscal year.
//
// Within a year, records tagged with fiscal period "FY" are preferred;
// among those, records whose form matches preferredForm; among those,
// the record with the lexicographically greatest filed date wins, which
// lets restatements supersede originals. Ties on filed date keep the
// earliest candidate in input order, so repeated calls on the same
// input always agree. Records with no usable year are dropped.
func Annual(facts []contracts.FactRecord, preferredForm string) contracts.AnnualSeries {
	groups := make(map[int][]contracts.FactRecord)
	for _, fact := range facts {
		year, ok := fact.Year()
		if !ok {
			continue
		}
		groups[year] = append(groups[year], fact)
	}

	series := make(contracts.AnnualSeries, len(groups))
	for year, group := range groups {
		series[year] = choose(group, preferredForm)
	}
	return series
}

// AnnualAll reduces every metric in a series collection with the same
// preferred form.
func AnnualAll(series contracts.MetricSeries, preferredForm string) map[string]contracts.AnnualSeries {
	out := make(map[string]contracts.AnnualSeries, len(series))
	for metric, facts := range series {
		out[metric] = Annual(facts, preferredForm)
	}
	return out
}

func choose(group []contracts.FactRecord, preferredForm string) contracts.FactRecord {
	candidates := filterPeriod(group)
	candidates = filterForm(candidates, preferredForm)

	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.FiledDate > best.FiledDate {
			best = c
		}
	}
	return best
}

// filterPeriod keeps full-year records when any exist; providers that
// omit period tagging pass through unfiltered.
func filterPeriod(group []contracts.FactRecord) []contracts.FactRecord {
	var fy []contracts.FactRecord
	for _, fact := range group {
		if strings.EqualFold(fact.FiscalPeriod, "FY") {
			fy = append(fy, fact)
		}
	}
	if len(fy) == 0 {
		return group
	}
	return fy
}

// filterForm keeps records matching the preferred form when any exist.
func filterForm(group []contracts.FactRecord, preferredForm string) []contracts.FactRecord {
	var matched []contracts.FactRecord
	for _, fact := range group {
		if strings.EqualFold(fact.FormType, preferredForm) {
			matched = append(matched, fact)
		}
	}
	if len(matched) == 0 {
		return group
	}
	return matched
}
