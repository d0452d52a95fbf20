package sec

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/filingsight/filingsight/pkg/redis"
)

// Submissions is the slice of the submissions API response we consume.
type Submissions struct {
	CIK     string   `json:"cik"`
	Name    string   `json:"name"`
	Tickers []string `json:"tickers"`
	Filings struct {
		Recent recentFilings `json:"recent"`
	} `json:"filings"`
}

// recentFilings is EDGAR's column-oriented filing listing: parallel
// arrays, one entry per filing.
type recentFilings struct {
	Form            []string `json:"form"`
	FilingDate      []string `json:"filingDate"`
	ReportDate      []string `json:"reportDate"`
	AccessionNumber []string `json:"accessionNumber"`
	PrimaryDocument []string `json:"primaryDocument"`
}

// Filing is one row of the listing with its archive URLs attached.
type Filing struct {
	Form            string `json:"form"`
	FilingDate      string `json:"filingDate"`
	ReportDate      string `json:"reportDate,omitempty"`
	AccessionNumber string `json:"accessionNumber"`
	PrimaryDocument string `json:"primaryDocument,omitempty"`
	FilingURL       string `json:"filingUrl,omitempty"`
	IndexURL        string `json:"indexUrl"`
}

// FetchSubmissions loads the filing history summary for a CIK.
func (c *Client) FetchSubmissions(ctx context.Context, cik string) (*Submissions, error) {
	cik10 := NormalizeCIK(cik)
	url := fmt.Sprintf("%s/submissions/CIK%s.json", c.cfg.BaseURL, cik10)

	var subs Submissions
	if c.cache != nil {
		err := c.cache.GetOrSet(ctx, redis.SubmissionsKey(cik10), &subs, redis.TTLDaily, func() (interface{}, error) {
			var fresh Submissions
			if err := c.getJSON(ctx, url, &fresh); err != nil {
				return nil, err
			}
			return &fresh, nil
		})
		if err != nil {
			return nil, err
		}
	} else if err := c.getJSON(ctx, url, &subs); err != nil {
		return nil, err
	}

	c.logger.WithFields(map[string]interface{}{
		"cik":     cik10,
		"company": subs.Name,
		"filings": len(subs.Filings.Recent.Form),
	}).Debug("Submissions fetched")

	return &subs, nil
}

// Rows converts the column-oriented listing into Filing rows with
// archive URLs.
func (s *Submissions) Rows() []Filing {
	recent := s.Filings.Recent
	rows := make([]Filing, 0, len(recent.Form))
	for i := range recent.Form {
		row := Filing{Form: recent.Form[i]}
		if i < len(recent.FilingDate) {
			row.FilingDate = recent.FilingDate[i]
		}
		if i < len(recent.ReportDate) {
			row.ReportDate = recent.ReportDate[i]
		}
		if i < len(recent.AccessionNumber) {
			row.AccessionNumber = recent.AccessionNumber[i]
		}
		if i < len(recent.PrimaryDocument) {
			row.PrimaryDocument = recent.PrimaryDocument[i]
		}
		attachURLs(s.CIK, &row)
		rows = append(rows, row)
	}
	return rows
}

func attachURLs(cik string, f *Filing) {
	accNo := strings.ReplaceAll(f.AccessionNumber, "-", "")
	if accNo == "" {
		return
	}
	base := fmt.Sprintf("https://www.sec.gov/Archives/edgar/data/%s/%s", cikNoPad(cik), accNo)
	f.IndexURL = base + "-index.html"
	if f.PrimaryDocument != "" {
		f.FilingURL = base + "/" + f.PrimaryDocument
	}
}

// FilingSelection is the set of filings the analysis pipeline works
// from.
type FilingSelection struct {
	Latest10K   *Filing  `json:"latest_10k"`
	Recent10Qs  []Filing `json:"recent_10qs"`
	Recent8Ks   []Filing `json:"recent_8ks"`
	LatestProxy *Filing  `json:"latest_proxy"`
	Form4s      []Filing `json:"form4s"`
}

// SelectFilings picks the filings the pipeline needs: the latest 10-K,
// the last quarterly reports, 8-Ks from the trailing 90 days, the
// latest proxy statement, and Form 4s inside the lookback window.
func SelectFilings(rows []Filing, asOf time.Time, form4LookbackDays, quarterlyCount int) FilingSelection {
	var sel FilingSelection

	sel.Latest10K = latestByForm(rows, "10-K")
	sel.LatestProxy = latestByForm(rows, "DEF 14A")

	qs := byForm(rows, "10-Q")
	sortByFilingDateDesc(qs)
	if len(qs) > quarterlyCount {
		qs = qs[:quarterlyCount]
	}
	sel.Recent10Qs = qs

	cutoff8K := asOf.AddDate(0, 0, -90).Format("2006-01-02")
	for _, f := range byForm(rows, "8-K") {
		if f.FilingDate >= cutoff8K {
			sel.Recent8Ks = append(sel.Recent8Ks, f)
		}
	}

	cutoff4 := asOf.AddDate(0, 0, -form4LookbackDays).Format("2006-01-02")
	for _, f := range rows {
		form := strings.ToUpper(f.Form)
		if (form == "4" || form == "4/A") && f.FilingDate >= cutoff4 {
			sel.Form4s = append(sel.Form4s, f)
		}
	}

	return sel
}

func byForm(rows []Filing, form string) []Filing {
	var out []Filing
	for _, f := range rows {
		if strings.EqualFold(f.Form, form) {
			out = append(out, f)
		}
	}
	return out
}

func latestByForm(rows []Filing, form string) *Filing {
	matches := byForm(rows, form)
	if len(matches) == 0 {
		return nil
	}
	sortByFilingDateDesc(matches)
	return &matches[0]
}

func sortByFilingDateDesc(rows []Filing) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].FilingDate > rows[j].FilingDate
	})
}
