package sec

import (
	"context"
	"fmt"
	"sort"

	"github.com/filingsight/filingsight/internal/contracts"
	"github.com/filingsight/filingsight/pkg/redis"
)

// CompanyFacts is the slice of the XBRL company-facts response we
// consume: taxonomy -> tag -> unit -> observations.
type CompanyFacts struct {
	CIK        int64                              `json:"cik"`
	EntityName string                             `json:"entityName"`
	Facts      map[string]map[string]taxonomyFact `json:"facts"`
}

type taxonomyFact struct {
	Units map[string][]factObservation `json:"units"`
}

type factObservation struct {
	Start string   `json:"start,omitempty"`
	End   string   `json:"end"`
	Val   *float64 `json:"val"`
	FY    *int     `json:"fy"`
	FP    string   `json:"fp"`
	Form  string   `json:"form"`
	Filed string   `json:"filed"`
	Accn  string   `json:"accn"`
}

// metricTags maps each engine metric to candidate us-gaap tags, tried
// in order; companies report under different tags depending on era and
// industry, so the first tag with any observations wins.
var metricTags = map[string][]string{
	contracts.MetricRevenue: {
		"RevenueFromContractWithCustomerExcludingAssessedTax",
		"Revenues",
		"SalesRevenueNet",
	},
	contracts.MetricCostOfRevenue: {
		"CostOfRevenue",
		"CostOfGoodsAndServicesSold",
	},
	contracts.MetricGrossProfit: {
		"GrossProfit",
	},
	contracts.MetricOperatingIncome: {
		"OperatingIncomeLoss",
	},
	contracts.MetricNetIncome: {
		"NetIncomeLoss",
	},
	contracts.MetricDilutedShares: {
		"WeightedAverageNumberOfDilutedSharesOutstanding",
	},
	contracts.MetricCFO: {
		"NetCashProvidedByUsedInOperatingActivities",
	},
	contracts.MetricCapex: {
		"PaymentsToAcquirePropertyPlantAndEquipment",
	},
	contracts.MetricInterestExpense: {
		"InterestExpense",
		"InterestExpenseNonoperating",
	},
	contracts.MetricDepreciationAmrt: {
		"DepreciationDepletionAndAmortization",
		"DepreciationAndAmortization",
	},
	contracts.MetricAssetsCurrent: {
		"AssetsCurrent",
	},
	contracts.MetricLiabsCurrent: {
		"LiabilitiesCurrent",
	},
	contracts.MetricCash: {
		"CashAndCashEquivalentsAtCarryingValue",
	},
	contracts.MetricRestrictedCash: {
		"RestrictedCashAndCashEquivalents",
		"RestrictedCashAndCashEquivalentsNoncurrent",
	},
	contracts.MetricShortTermBorrow: {
		"ShortTermBorrowings",
	},
	contracts.MetricLTDebtCurrent: {
		"LongTermDebtCurrent",
	},
	contracts.MetricLTDebtNoncurrent: {
		"LongTermDebtNoncurrent",
	},
}

// FetchCompanyFacts loads the full XBRL fact history for a CIK.
func (c *Client) FetchCompanyFacts(ctx context.Context, cik string) (*CompanyFacts, error) {
	cik10 := NormalizeCIK(cik)
	url := fmt.Sprintf("%s/api/xbrl/companyfacts/CIK%s.json", c.cfg.BaseURL, cik10)

	var facts CompanyFacts
	if c.cache != nil {
		err := c.cache.GetOrSet(ctx, redis.CompanyFactsKey(cik10), &facts, redis.TTLDaily, func() (interface{}, error) {
			var fresh CompanyFacts
			if err := c.getJSON(ctx, url, &fresh); err != nil {
				return nil, err
			}
			return &fresh, nil
		})
		if err != nil {
			return nil, err
		}
	} else if err := c.getJSON(ctx, url, &facts); err != nil {
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"cik":    cik10,
		"entity": facts.EntityName,
		"tags":   len(facts.Facts["us-gaap"]),
	}).Debug("Company facts fetched")

	return &facts, nil
}

// MetricSeries converts raw company facts into the engine's metric
// series. Metrics no tag covers come back as absent keys, which the
// engine treats as empty series.
func (f *CompanyFacts) MetricSeries() contracts.MetricSeries {
	gaap := f.Facts["us-gaap"]
	if gaap == nil {
		return contracts.MetricSeries{}
	}

	series := make(contracts.MetricSeries)
	for metric, tags := range metricTags {
		for _, tag := range tags {
			records := recordsForTag(gaap, tag)
			if len(records) > 0 {
				series[metric] = records
				break
			}
		}
	}
	return series
}

func recordsForTag(gaap map[string]taxonomyFact, tag string) []contracts.FactRecord {
	fact, ok := gaap[tag]
	if !ok {
		return nil
	}
	units := make([]string, 0, len(fact.Units))
	for unit := range fact.Units {
		units = append(units, unit)
	}
	sort.Strings(units) // stable record order regardless of map iteration

	var records []contracts.FactRecord
	for _, unit := range units {
		for _, obs := range fact.Units[unit] {
			records = append(records, contracts.FactRecord{
				End:          obs.End,
				Value:        obs.Val,
				FiscalYear:   obs.FY,
				FiscalPeriod: obs.FP,
				FormType:     obs.Form,
				FiledDate:    obs.Filed,
				AccessionNo:  obs.Accn,
				Tag:          "us-gaap:" + tag,
				Unit:         unit,
			})
		}
	}
	return records
}
