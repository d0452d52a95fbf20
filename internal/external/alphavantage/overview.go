package alphavantage

import (
	"context"
	"strconv"

	"github.com/filingsight/filingsight/internal/contracts"
)

// overviewResponse is the slice of the company OVERVIEW payload we use.
type overviewResponse struct {
	Symbol            string `json:"Symbol"`
	Name              string `json:"Name"`
	SharesOutstanding string `json:"SharesOutstanding"`
}

// FetchSharesOutstanding returns the current share count, or nil when
// the overview does not carry a parseable figure. The detector only
// uses it to widen the clustered-buying threshold, so absence is fine.
func (c *Client) FetchSharesOutstanding(ctx context.Context, ticker string) (*float64, error) {
	var overview overviewResponse
	if err := c.query(ctx, "OVERVIEW", ticker, &overview); err != nil {
		return nil, err
	}

	shares, err := strconv.ParseFloat(overview.SharesOutstanding, 64)
	if err != nil || shares <= 0 {
		return nil, nil
	}
	return contracts.Float(shares), nil
}
