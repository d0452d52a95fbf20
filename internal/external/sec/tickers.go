package sec

import (
	"context"
	"fmt"
	"strings"
)

// tickerEntry is one row of the company_tickers.json mapping file,
// which is keyed by arbitrary string indexes.
type tickerEntry struct {
	CIK    int64  `json:"cik_str"`
	Ticker string `json:"ticker"`
	Title  string `json:"title"`
}

// ResolveCIK looks a ticker up in EDGAR's company_tickers.json and
// returns the zero-padded CIK.
func (c *Client) ResolveCIK(ctx context.Context, ticker string) (string, error) {
	url := c.cfg.ArchivesURL + "/files/company_tickers.json"

	var entries map[string]tickerEntry
	if err := c.getJSON(ctx, url, &entries); err != nil {
		return "", err
	}

	want := strings.ToUpper(strings.TrimSpace(ticker))
	for _, entry := range entries {
		if strings.ToUpper(entry.Ticker) == want {
			return NormalizeCIK(fmt.Sprintf("%d", entry.CIK)), nil
		}
	}
	return "", fmt.Errorf("ticker %s not found in EDGAR company list", ticker)
}
