package alphavantage

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/filingsight/filingsight/internal/contracts"
	"github.com/filingsight/filingsight/pkg/redis"
)

// insiderResponse tolerates the several envelope keys the endpoint has
// shipped under.
type insiderResponse struct {
	Transactions []json.RawMessage `json:"transactions"`
	Data         []json.RawMessage `json:"data"`
	Legacy       []json.RawMessage `json:"insiderTransactions"`
}

// FetchInsiderTransactions loads the disclosed insider trades for a
// ticker, normalized into the detector's transaction shape. Field names
// vary across API revisions, so each attribute is read from a list of
// candidate keys; values that do not parse default to zero rather than
// failing the whole feed.
func (c *Client) FetchInsiderTransactions(ctx context.Context, ticker string) ([]contracts.Transaction, error) {
	if c.cache != nil {
		var cached []contracts.Transaction
		err := c.cache.GetOrSet(ctx, redis.InsiderTxKey(ticker), &cached, redis.TTLDaily, func() (interface{}, error) {
			fresh, err := c.fetchInsiderTransactions(ctx, ticker)
			if err != nil {
				return nil, err
			}
			return fresh, nil
		})
		return cached, err
	}
	return c.fetchInsiderTransactions(ctx, ticker)
}

func (c *Client) fetchInsiderTransactions(ctx context.Context, ticker string) ([]contracts.Transaction, error) {
	var resp insiderResponse
	if err := c.query(ctx, "INSIDER_TRANSACTIONS", ticker, &resp); err != nil {
		return nil, err
	}

	raws := resp.Transactions
	if len(raws) == 0 {
		raws = resp.Data
	}
	if len(raws) == 0 {
		raws = resp.Legacy
	}

	txs := make([]contracts.Transaction, 0, len(raws))
	for _, raw := range raws {
		var row map[string]interface{}
		if err := json.Unmarshal(raw, &row); err != nil {
			continue
		}
		txs = append(txs, contracts.Transaction{
			Date:      firstString(row, "transaction_date", "transactionDate", "filing_date", "filingDate"),
			OwnerName: firstString(row, "executive", "reportingName", "name", "filingOwnerName", "reportingCik"),
			TypeText:  typeText(row),
			Shares:    firstNumber(row, "shares", "securitiesTransacted", "transactionShares"),
			Price:     firstNumber(row, "share_price", "price", "transactionPrice", "transactionPricePerShare"),
		})
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker":       ticker,
		"transactions": len(txs),
	}).Debug("Insider transactions fetched")

	return txs, nil
}

// typeText prefers the descriptive transaction-type field; the newer
// API only ships an acquisition_or_disposal letter, which is expanded
// so the sign heuristic can read it.
func typeText(row map[string]interface{}) string {
	if text := firstString(row, "transactionType", "type"); text != "" {
		return text
	}
	switch strings.ToUpper(firstString(row, "acquisition_or_disposal")) {
	case "A":
		return "purchase"
	case "D":
		return "sale"
	}
	return ""
}

func firstString(row map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if v, ok := row[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

func firstNumber(row map[string]interface{}, keys ...string) float64 {
	for _, key := range keys {
		v, ok := row[key]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			return n
		case string:
			if parsed, err := strconv.ParseFloat(n, 64); err == nil {
				return parsed
			}
		}
	}
	return 0
}
