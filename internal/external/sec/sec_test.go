package sec

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/filingsight/filingsight/internal/contracts"
	"github.com/filingsight/filingsight/pkg/config"
	"github.com/filingsight/filingsight/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{LogLevel: "error", LogFormat: "json"})
}

func testClient(baseURL string) *Client {
	return NewClient(config.SECConfig{
		BaseURL:      baseURL,
		ArchivesURL:  baseURL,
		UserAgent:    "FilingSight test@example.com",
		MaxPerSecond: 100,
	}, nil, testLogger())
}

func TestNormalizeCIK(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"320193", "0000320193"},
		{"0000320193", "0000320193"},
		{"CIK-320193", "0000320193"},
		{"1", "0000000001"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := NormalizeCIK(tt.in); got != tt.want {
				t.Errorf("NormalizeCIK(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCIKNoPad(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0000320193", "320193"},
		{"320193", "320193"},
		{"0000000000", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := cikNoPad(tt.in); got != tt.want {
				t.Errorf("cikNoPad(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSubmissionsRows(t *testing.T) {
	subs := &Submissions{CIK: "0000320193"}
	subs.Filings.Recent = recentFilings{
		Form:            []string{"10-K", "4"},
		FilingDate:      []string{"2024-11-01", "2024-10-15"},
		ReportDate:      []string{"2024-09-28", ""},
		AccessionNumber: []string{"0000320193-24-000123", "0000320193-24-000100"},
		PrimaryDocument: []string{"aapl-20240928.htm", ""},
	}

	rows := subs.Rows()

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	wantIndex := "https://www.sec.gov/Archives/edgar/data/320193/000032019324000123-index.html"
	if rows[0].IndexURL != wantIndex {
		t.Errorf("IndexURL = %q, want %q", rows[0].IndexURL, wantIndex)
	}
	wantFiling := "https://www.sec.gov/Archives/edgar/data/320193/000032019324000123/aapl-20240928.htm"
	if rows[0].FilingURL != wantFiling {
		t.Errorf("FilingURL = %q, want %q", rows[0].FilingURL, wantFiling)
	}
	if rows[1].FilingURL != "" {
		t.Errorf("expected no FilingURL without a primary document, got %q", rows[1].FilingURL)
	}
}

func TestSelectFilings(t *testing.T) {
	asOf := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
	rows := []Filing{
		{Form: "10-K", FilingDate: "2023-11-03", AccessionNumber: "a1"},
		{Form: "10-K", FilingDate: "2024-11-01", AccessionNumber: "a2"},
		{Form: "10-Q", FilingDate: "2024-08-02", AccessionNumber: "q1"},
		{Form: "10-Q", FilingDate: "2024-05-03", AccessionNumber: "q2"},
		{Form: "10-Q", FilingDate: "2024-02-02", AccessionNumber: "q3"},
		{Form: "10-Q", FilingDate: "2023-11-10", AccessionNumber: "q4"},
		{Form: "8-K", FilingDate: "2024-11-15", AccessionNumber: "k1"},
		{Form: "8-K", FilingDate: "2024-06-01", AccessionNumber: "k2"}, // outside 90 days
		{Form: "DEF 14A", FilingDate: "2024-01-10", AccessionNumber: "p1"},
		{Form: "4", FilingDate: "2024-10-01", AccessionNumber: "f1"},
		{Form: "4/A", FilingDate: "2024-09-01", AccessionNumber: "f2"},
		{Form: "4", FilingDate: "2021-01-01", AccessionNumber: "f3"}, // outside lookback
	}

	sel := SelectFilings(rows, asOf, 730, 3)

	if sel.Latest10K == nil || sel.Latest10K.AccessionNumber != "a2" {
		t.Fatalf("Latest10K = %+v, want a2", sel.Latest10K)
	}
	if len(sel.Recent10Qs) != 3 || sel.Recent10Qs[0].AccessionNumber != "q1" {
		t.Errorf("Recent10Qs = %+v, want 3 newest", sel.Recent10Qs)
	}
	if len(sel.Recent8Ks) != 1 || sel.Recent8Ks[0].AccessionNumber != "k1" {
		t.Errorf("Recent8Ks = %+v, want only k1", sel.Recent8Ks)
	}
	if sel.LatestProxy == nil || sel.LatestProxy.AccessionNumber != "p1" {
		t.Errorf("LatestProxy = %+v, want p1", sel.LatestProxy)
	}
	if len(sel.Form4s) != 2 {
		t.Errorf("Form4s = %+v, want f1 and f2", sel.Form4s)
	}
}

func TestFetchSubmissions(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		if r.URL.Path != "/submissions/CIK0000320193.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"cik": "0000320193",
			"name": "Apple Inc.",
			"tickers": ["AAPL"],
			"filings": {"recent": {
				"form": ["10-K"],
				"filingDate": ["2024-11-01"],
				"reportDate": ["2024-09-28"],
				"accessionNumber": ["0000320193-24-000123"],
				"primaryDocument": ["aapl-20240928.htm"]
			}}
		}`))
	}))
	defer server.Close()

	subs, err := testClient(server.URL).FetchSubmissions(context.Background(), "320193")
	if err != nil {
		t.Fatalf("FetchSubmissions() error = %v", err)
	}

	if subs.Name != "Apple Inc." {
		t.Errorf("Name = %q", subs.Name)
	}
	if len(subs.Rows()) != 1 {
		t.Errorf("expected 1 filing row, got %d", len(subs.Rows()))
	}
	if gotUA != "FilingSight test@example.com" {
		t.Errorf("User-Agent = %q, want the configured contact header", gotUA)
	}
}

func TestCompanyFactsMetricSeries(t *testing.T) {
	facts := &CompanyFacts{
		EntityName: "Apple Inc.",
		Facts: map[string]map[string]taxonomyFact{
			"us-gaap": {
				"Revenues": {Units: map[string][]factObservation{
					"USD": {{
						End:   "2024-09-28",
						Val:   contracts.Float(391_035_000_000),
						FY:    contracts.Int(2024),
						FP:    "FY",
						Form:  "10-K",
						Filed: "2024-11-01",
						Accn:  "0000320193-24-000123",
					}},
				}},
				"OperatingIncomeLoss": {Units: map[string][]factObservation{
					"USD": {{End: "2024-09-28", Val: contracts.Float(123_216_000_000), FY: contracts.Int(2024), FP: "FY", Form: "10-K"}},
				}},
				"SomethingUnmapped": {Units: map[string][]factObservation{
					"USD": {{End: "2024-09-28", Val: contracts.Float(1)}},
				}},
			},
		},
	}

	series := facts.MetricSeries()

	revenue := series.Get(contracts.MetricRevenue)
	if len(revenue) != 1 {
		t.Fatalf("expected 1 revenue record, got %d", len(revenue))
	}
	if revenue[0].Tag != "us-gaap:Revenues" {
		t.Errorf("Tag = %q", revenue[0].Tag)
	}
	if revenue[0].Unit != "USD" {
		t.Errorf("Unit = %q", revenue[0].Unit)
	}
	if len(series.Get(contracts.MetricOperatingIncome)) != 1 {
		t.Errorf("expected operating income to map")
	}
	if len(series.Get(contracts.MetricCapex)) != 0 {
		t.Errorf("capex should be absent, not invented")
	}
}

func TestResolveCIK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/files/company_tickers.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"0": {"cik_str": 320193, "ticker": "AAPL", "title": "Apple Inc."},
			"1": {"cik_str": 789019, "ticker": "MSFT", "title": "MICROSOFT CORP"}
		}`))
	}))
	defer server.Close()

	client := testClient(server.URL)

	cik, err := client.ResolveCIK(context.Background(), "aapl")
	if err != nil {
		t.Fatalf("ResolveCIK() error = %v", err)
	}
	if cik != "0000320193" {
		t.Errorf("cik = %q, want 0000320193", cik)
	}

	if _, err := client.ResolveCIK(context.Background(), "ZZZZ"); err == nil {
		t.Error("expected error for unknown ticker")
	}
}
