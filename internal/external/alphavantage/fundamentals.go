package alphavantage

import (
	"context"
	"math"
	"sort"
	"strconv"

	"github.com/filingsight/filingsight/internal/contracts"
	"github.com/filingsight/filingsight/pkg/redis"
)

// annualReport is one fiscal-year row of an Alpha Vantage statement.
// Every numeric field arrives as a string, including "None".
type annualReport map[string]string

type statementResponse struct {
	Symbol        string         `json:"symbol"`
	AnnualReports []annualReport `json:"annualReports"`
}

// FetchAnnualSeries builds the engine's metric series from the three
// annual statements. Rows mirror the filing-derived shape: fiscal
// period FY, form ANNUAL, no accession or filed date, and a
// vendor-prefixed tag so provenance shows where the number came from.
func (c *Client) FetchAnnualSeries(ctx context.Context, ticker string) (contracts.MetricSeries, error) {
	if c.cache != nil {
		var cached contracts.MetricSeries
		err := c.cache.GetOrSet(ctx, redis.VendorSeriesKey(ticker), &cached, redis.TTLDaily, func() (interface{}, error) {
			fresh, err := c.fetchAnnualSeries(ctx, ticker)
			if err != nil {
				return nil, err
			}
			return fresh, nil
		})
		return cached, err
	}
	return c.fetchAnnualSeries(ctx, ticker)
}

func (c *Client) fetchAnnualSeries(ctx context.Context, ticker string) (contracts.MetricSeries, error) {
	var income, balance, cash statementResponse
	if err := c.query(ctx, "INCOME_STATEMENT", ticker, &income); err != nil {
		return nil, err
	}
	if err := c.query(ctx, "BALANCE_SHEET", ticker, &balance); err != nil {
		return nil, err
	}
	if err := c.query(ctx, "CASH_FLOW", ticker, &cash); err != nil {
		return nil, err
	}

	series := contracts.MetricSeries{
		contracts.MetricRevenue:          rowsFromAnnual(income.AnnualReports, "totalRevenue"),
		contracts.MetricCostOfRevenue:    rowsFromAnnual(income.AnnualReports, "costOfRevenue"),
		contracts.MetricGrossProfit:      rowsFromAnnual(income.AnnualReports, "grossProfit"),
		contracts.MetricOperatingIncome:  rowsFromAnnual(income.AnnualReports, "operatingIncome"),
		contracts.MetricNetIncome:        rowsFromAnnual(income.AnnualReports, "netIncome"),
		contracts.MetricInterestExpense:  rowsFromAnnual(income.AnnualReports, "interestExpense"),
		contracts.MetricCFO:              rowsFromAnnual(cash.AnnualReports, "operatingCashflow"),
		contracts.MetricAssetsCurrent:    rowsFromAnnual(balance.AnnualReports, "totalCurrentAssets"),
		contracts.MetricLiabsCurrent:     rowsFromAnnual(balance.AnnualReports, "totalCurrentLiabilities"),
		contracts.MetricLTDebtCurrent:    rowsFromAnnual(balance.AnnualReports, "shortTermDebt"),
		contracts.MetricLTDebtNoncurrent: rowsFromAnnual(balance.AnnualReports, "longTermDebt"),
		contracts.MetricShortTermBorrow:  rowsFromAnnual(balance.AnnualReports, "shortLongTermDebtTotal"),
		contracts.MetricDilutedShares:    rowsFromAnnual(balance.AnnualReports, "commonStockSharesOutstanding"),
	}

	// D&A appears on either statement depending on the company
	da := rowsFromAnnual(income.AnnualReports, "depreciationAndAmortization")
	if len(da) == 0 {
		da = rowsFromAnnual(cash.AnnualReports, "depreciationAndAmortization")
	}
	series[contracts.MetricDepreciationAmrt] = da

	// capex as a positive outflow
	capex := rowsFromAnnual(cash.AnnualReports, "capitalExpenditures")
	for i := range capex {
		if capex[i].Value != nil {
			capex[i].Value = contracts.Float(math.Abs(*capex[i].Value))
		}
	}
	series[contracts.MetricCapex] = capex

	cashRows := rowsFromAnnual(balance.AnnualReports, "cashAndCashEquivalentsAtCarryingValue")
	if len(cashRows) == 0 {
		cashRows = rowsFromAnnual(balance.AnnualReports, "cashAndCashEquivalents")
	}
	series[contracts.MetricCash] = cashRows

	series[contracts.MetricTotalDebt] = derivedTotalDebt(series)

	c.logger.WithFields(map[string]interface{}{
		"ticker":        ticker,
		"revenue_years": len(series[contracts.MetricRevenue]),
	}).Debug("Vendor annual series fetched")

	return series, nil
}

// rowsFromAnnual extracts one field from every annual report row,
// skipping values that do not parse ("None" is common).
func rowsFromAnnual(reports []annualReport, key string) []contracts.FactRecord {
	var rows []contracts.FactRecord
	for _, report := range reports {
		value, err := strconv.ParseFloat(report[key], 64)
		if err != nil {
			continue
		}
		end := report["fiscalDateEnding"]
		unit := report["reportedCurrency"]
		if unit == "" {
			unit = "USD"
		}
		record := contracts.FactRecord{
			End:          end,
			Value:        contracts.Float(value),
			FiscalPeriod: "FY",
			FormType:     "ANNUAL",
			Tag:          "alpha_vantage:" + key,
			Unit:         unit,
		}
		if len(end) >= 4 {
			if fy, err := strconv.Atoi(end[:4]); err == nil {
				record.FiscalYear = contracts.Int(fy)
			}
		}
		rows = append(rows, record)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].End < rows[j].End })
	return rows
}

// derivedTotalDebt sums the debt components per period end, treating
// absent components as zero.
func derivedTotalDebt(series contracts.MetricSeries) []contracts.FactRecord {
	sums := make(map[string]float64)
	for _, metric := range []string{
		contracts.MetricLTDebtCurrent,
		contracts.MetricLTDebtNoncurrent,
		contracts.MetricShortTermBorrow,
	} {
		for _, row := range series.Get(metric) {
			if row.Value != nil {
				sums[row.End] += *row.Value
			}
		}
	}
	if len(sums) == 0 {
		return nil
	}

	ends := make([]string, 0, len(sums))
	for end := range sums {
		ends = append(ends, end)
	}
	sort.Strings(ends)

	rows := make([]contracts.FactRecord, 0, len(ends))
	for _, end := range ends {
		record := contracts.FactRecord{
			End:          end,
			Value:        contracts.Float(sums[end]),
			FiscalPeriod: "FY",
			FormType:     "ANNUAL",
			Tag:          "alpha_vantage:total_debt",
			Unit:         "USD",
		}
		if len(end) >= 4 {
			if fy, err := strconv.Atoi(end[:4]); err == nil {
				record.FiscalYear = contracts.Int(fy)
			}
		}
		rows = append(rows, record)
	}
	return rows
}
