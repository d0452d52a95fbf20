package alphavantage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/filingsight/filingsight/internal/contracts"
	"github.com/filingsight/filingsight/pkg/config"
	"github.com/filingsight/filingsight/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{LogLevel: "error", LogFormat: "json"})
}

func testClient(baseURL string) *Client {
	return NewClient(config.AlphaVantageConfig{
		APIKey:  "test-key",
		BaseURL: baseURL,
	}, nil, testLogger())
}

func statementHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("function") {
		case "INCOME_STATEMENT":
			w.Write([]byte(`{"symbol":"TEST","annualReports":[
				{"fiscalDateEnding":"2023-12-31","reportedCurrency":"USD","totalRevenue":"1000","costOfRevenue":"600","operatingIncome":"200","interestExpense":"None"},
				{"fiscalDateEnding":"2024-12-31","reportedCurrency":"USD","totalRevenue":"1100","costOfRevenue":"640","operatingIncome":"230","interestExpense":"10"}
			]}`))
		case "BALANCE_SHEET":
			w.Write([]byte(`{"symbol":"TEST","annualReports":[
				{"fiscalDateEnding":"2024-12-31","reportedCurrency":"USD","totalCurrentAssets":"500","totalCurrentLiabilities":"250","shortTermDebt":"40","longTermDebt":"160","cashAndCashEquivalentsAtCarryingValue":"90","commonStockSharesOutstanding":"1000000"}
			]}`))
		case "CASH_FLOW":
			w.Write([]byte(`{"symbol":"TEST","annualReports":[
				{"fiscalDateEnding":"2024-12-31","reportedCurrency":"USD","operatingCashflow":"260","capitalExpenditures":"-50","depreciationAndAmortization":"30"}
			]}`))
		default:
			t.Errorf("unexpected function %s", r.URL.Query().Get("function"))
		}
	}
}

func TestFetchAnnualSeries(t *testing.T) {
	server := httptest.NewServer(statementHandler(t))
	defer server.Close()

	series, err := testClient(server.URL).FetchAnnualSeries(context.Background(), "test")
	if err != nil {
		t.Fatalf("FetchAnnualSeries() error = %v", err)
	}

	revenue := series.Get(contracts.MetricRevenue)
	if len(revenue) != 2 {
		t.Fatalf("expected 2 revenue rows, got %d", len(revenue))
	}
	if revenue[0].End != "2023-12-31" {
		t.Errorf("rows should be sorted by end date, got %s first", revenue[0].End)
	}
	if revenue[0].FormType != "ANNUAL" || revenue[0].FiscalPeriod != "FY" {
		t.Errorf("vendor rows must be tagged ANNUAL/FY, got %s/%s", revenue[0].FormType, revenue[0].FiscalPeriod)
	}
	if revenue[0].Tag != "alpha_vantage:totalRevenue" {
		t.Errorf("Tag = %q", revenue[0].Tag)
	}
	if revenue[0].FiscalYear == nil || *revenue[0].FiscalYear != 2023 {
		t.Errorf("FiscalYear = %v, want 2023", revenue[0].FiscalYear)
	}

	interest := series.Get(contracts.MetricInterestExpense)
	if len(interest) != 1 {
		t.Errorf(`"None" values must be skipped; got %d interest rows`, len(interest))
	}

	capex := series.Get(contracts.MetricCapex)
	if len(capex) != 1 || *capex[0].Value != 50 {
		t.Errorf("capex must be a positive outflow, got %+v", capex)
	}

	totalDebt := series.Get(contracts.MetricTotalDebt)
	if len(totalDebt) != 1 {
		t.Fatalf("expected a derived total debt row, got %d", len(totalDebt))
	}
	if *totalDebt[0].Value != 200 {
		t.Errorf("total debt = %v, want 40+160", *totalDebt[0].Value)
	}
	if totalDebt[0].Tag != "alpha_vantage:total_debt" {
		t.Errorf("Tag = %q", totalDebt[0].Tag)
	}
}

func TestFetchAnnualSeries_Throttled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"Note":"Thank you for using Alpha Vantage! Our standard API rate limit is 25 requests per day."}`))
	}))
	defer server.Close()

	_, err := testClient(server.URL).FetchAnnualSeries(context.Background(), "test")
	if err == nil {
		t.Fatal("expected throttling error, got nil")
	}
}

func TestFetchInsiderTransactions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("function"); got != "INSIDER_TRANSACTIONS" {
			t.Errorf("function = %s", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[
			{"transaction_date":"2024-10-01","executive":"Kim A","acquisition_or_disposal":"A","shares":"1000","share_price":"52.1"},
			{"transaction_date":"2024-10-05","executive":"Lee B","acquisition_or_disposal":"D","shares":"400","share_price":"53.0"},
			{"transactionDate":"2024-09-01","reportingName":"Park C","transactionType":"P-Purchase","securitiesTransacted":200,"transactionPrice":51.5}
		]}`))
	}))
	defer server.Close()

	txs, err := testClient(server.URL).FetchInsiderTransactions(context.Background(), "test")
	if err != nil {
		t.Fatalf("FetchInsiderTransactions() error = %v", err)
	}

	if len(txs) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(txs))
	}
	if txs[0].TypeText != "purchase" {
		t.Errorf("acquisition letter A must expand to purchase, got %q", txs[0].TypeText)
	}
	if txs[1].TypeText != "sale" {
		t.Errorf("disposal letter D must expand to sale, got %q", txs[1].TypeText)
	}
	if txs[0].Shares != 1000 || txs[0].Price != 52.1 {
		t.Errorf("string numerics must parse, got %+v", txs[0])
	}
	if txs[2].OwnerName != "Park C" || txs[2].Shares != 200 {
		t.Errorf("legacy field names must still map, got %+v", txs[2])
	}
}

func TestFetchSharesOutstanding(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"Symbol":"TEST","Name":"Test Corp","SharesOutstanding":"123456789"}`))
	}))
	defer server.Close()

	shares, err := testClient(server.URL).FetchSharesOutstanding(context.Background(), "test")
	if err != nil {
		t.Fatalf("FetchSharesOutstanding() error = %v", err)
	}
	if shares == nil || *shares != 123456789 {
		t.Errorf("shares = %v, want 123456789", shares)
	}
}

func TestFetchSharesOutstanding_Unparseable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"Symbol":"TEST","SharesOutstanding":"None"}`))
	}))
	defer server.Close()

	shares, err := testClient(server.URL).FetchSharesOutstanding(context.Background(), "test")
	if err != nil {
		t.Fatalf("FetchSharesOutstanding() error = %v", err)
	}
	if shares != nil {
		t.Errorf("shares = %v, want nil for unparseable figure", shares)
	}
}

func TestQuery_MissingAPIKey(t *testing.T) {
	client := NewClient(config.AlphaVantageConfig{BaseURL: "http://localhost"}, nil, testLogger())

	var dest map[string]interface{}
	if err := client.query(context.Background(), "OVERVIEW", "TEST", &dest); err == nil {
		t.Fatal("expected error without API key")
	}
}
