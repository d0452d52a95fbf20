package metrics

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filingsight/filingsight/internal/contracts"
	"github.com/filingsight/filingsight/pkg/config"
	"github.com/filingsight/filingsight/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{LogLevel: "error", LogFormat: "json"})
}

func rawFacts(values map[int]float64) []contracts.FactRecord {
	var facts []contracts.FactRecord
	for year, v := range values {
		facts = append(facts, contracts.FactRecord{
			End:          fmt.Sprintf("%d-12-31", year),
			Value:        contracts.Float(v),
			FiscalYear:   contracts.Int(year),
			FiscalPeriod: "FY",
			FormType:     "10-K",
			FiledDate:    fmt.Sprintf("%d-02-15", year+1),
			AccessionNo:  fmt.Sprintf("acc-%d", year),
		})
	}
	return facts
}

func TestEngineCompute(t *testing.T) {
	series := contracts.MetricSeries{
		contracts.MetricRevenue: rawFacts(map[int]float64{
			2015: 100, 2016: 110, 2017: 121, 2018: 133, 2019: 146,
			2020: 140, 2021: 160, 2022: 176, 2023: 194, 2024: 213,
		}),
		contracts.MetricCostOfRevenue: rawFacts(map[int]float64{
			2022: 106, 2023: 116, 2024: 128,
		}),
		contracts.MetricOperatingIncome: rawFacts(map[int]float64{
			2022: 35, 2023: 39, 2024: 43,
		}),
		contracts.MetricCFO:              rawFacts(map[int]float64{2022: 40, 2023: 44, 2024: 48}),
		contracts.MetricCapex:            rawFacts(map[int]float64{2022: 10, 2023: 11, 2024: 12}),
		contracts.MetricInterestExpense:  rawFacts(map[int]float64{2022: 5, 2023: 5, 2024: 5}),
		contracts.MetricAssetsCurrent:    rawFacts(map[int]float64{2024: 120}),
		contracts.MetricLiabsCurrent:     rawFacts(map[int]float64{2024: 80}),
		contracts.MetricLTDebtNoncurrent: rawFacts(map[int]float64{2024: 90}),
		contracts.MetricCash:             rawFacts(map[int]float64{2024: 50}),
		contracts.MetricDepreciationAmrt: rawFacts(map[int]float64{
			2022: 8, 2023: 9, 2024: 10,
		}),
		contracts.MetricDilutedShares: rawFacts(map[int]float64{2015: 1000, 2024: 950}),
	}

	engine := NewEngine(testLogger(), "10-K")
	report := engine.Compute(series)

	require.NotNil(t, report.RevenueCagr)
	assert.Equal(t, 9, report.RevenueCagr.Span)
	assert.Equal(t, 2015, report.RevenueCagr.StartYear)
	assert.Equal(t, 2024, report.RevenueCagr.EndYear)

	require.NotNil(t, report.RevenueDrawdown)
	assert.Equal(t, 1, report.RevenueDrawdown.DownYears, "only 2020 declined")

	require.NotNil(t, report.GrossMargin)
	assert.Equal(t, 3, report.GrossMargin.Years)
	assert.Equal(t, DerivedGrossProfitTag, report.GrossProfitTag, "no reported gross profit, so it is derived")

	require.NotNil(t, report.OperatingMargin)
	require.NotNil(t, report.MarginPersistence)
	assert.True(t, report.MarginPersistence.Persistent)

	require.NotNil(t, report.CashFlow)
	assert.Equal(t, 3, report.CashFlow.PositiveYears)

	require.NotNil(t, report.InterestCoverage)
	assert.InDelta(t, 8.6, *report.InterestCoverage, 1e-9)

	require.NotNil(t, report.CurrentRatio)
	assert.InDelta(t, 1.5, *report.CurrentRatio, 1e-9)

	require.NotNil(t, report.Leverage)
	require.NotNil(t, report.Leverage.NetDebtToEbitda)
	assert.InDelta(t, 40.0/53.0, *report.Leverage.NetDebtToEbitda, 1e-9)

	require.NotNil(t, report.Shares)
	assert.Equal(t, contracts.TrendReduction, report.Shares.Direction)

	assert.Equal(t, "acc-2024", report.Provenance[contracts.MetricRevenue].AccessionNo)
	assert.Equal(t, "acc-2024", report.Provenance[contracts.MetricGrossProfit].AccessionNo, "derived rows inherit the revenue filing reference")
	_, ok := report.Provenance[contracts.MetricTotalDebt]
	assert.False(t, ok, "no reported total debt series means no provenance entry")
}

func TestEngineCompute_ReportedGrossProfit(t *testing.T) {
	series := contracts.MetricSeries{
		contracts.MetricRevenue:     rawFacts(map[int]float64{2023: 200, 2024: 220}),
		contracts.MetricGrossProfit: rawFacts(map[int]float64{2023: 80, 2024: 90}),
	}

	report := NewEngine(testLogger(), "10-K").Compute(series)

	require.NotNil(t, report.GrossMargin)
	assert.Equal(t, "reported", report.GrossProfitTag)
}

func TestEngineCompute_EmptyInput(t *testing.T) {
	report := NewEngine(testLogger(), "10-K").Compute(contracts.MetricSeries{})

	assert.Nil(t, report.RevenueCagr)
	assert.Nil(t, report.RevenueDrawdown)
	assert.Nil(t, report.GrossMargin)
	assert.Nil(t, report.CashFlow)
	assert.Nil(t, report.InterestCoverage)
	assert.Nil(t, report.Leverage)
	assert.Nil(t, report.Shares)
	assert.Empty(t, report.Provenance)
}
