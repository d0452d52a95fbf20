// Package alphavantage is the vendor fundamentals client: annual
// report series, insider transactions, and company overview. It is the
// fallback source when a company has no usable EDGAR facts, and the
// only source for insider transaction streams.
package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/filingsight/filingsight/pkg/config"
	"github.com/filingsight/filingsight/pkg/httputil"
	"github.com/filingsight/filingsight/pkg/logger"
	"github.com/filingsight/filingsight/pkg/redis"
)

// Client handles communication with the Alpha Vantage query API.
type Client struct {
	http   *httputil.Client
	logger *logger.Logger
	cfg    config.AlphaVantageConfig
	cache  *redis.Cache
}

// NewClient creates an Alpha Vantage client. cache may be nil.
func NewClient(cfg config.AlphaVantageConfig, cache *redis.Cache, log *logger.Logger) *Client {
	return &Client{
		http:   httputil.NewWithTimeout(log, 30*time.Second).WithRetry(3, time.Second),
		logger: log.WithComponent("alphavantage-client"),
		cfg:    cfg,
		cache:  cache,
	}
}

// WithRateLimiter attaches the shared per-minute limiter; the free tier
// allows 5 requests per minute.
func (c *Client) WithRateLimiter(limiter *redis.RateLimiter) *Client {
	c.http = c.http.WithRateLimiter(limiter, redis.AlphaVantageRateLimit)
	return c
}

// query calls one API function for a symbol. Alpha Vantage signals
// throttling with a 200 response carrying a Note or Information field,
// so that case is surfaced as an error instead of empty data.
func (c *Client) query(ctx context.Context, function, symbol string, dest interface{}) error {
	if c.cfg.APIKey == "" {
		return fmt.Errorf("alpha vantage: missing API key")
	}

	endpoint := fmt.Sprintf("%s?function=%s&symbol=%s&apikey=%s",
		c.cfg.BaseURL, url.QueryEscape(function), url.QueryEscape(strings.ToUpper(symbol)), url.QueryEscape(c.cfg.APIKey))

	var raw json.RawMessage
	if err := c.http.GetJSON(ctx, endpoint, &raw); err != nil {
		return fmt.Errorf("GET %s: %w", function, err)
	}

	var notice struct {
		Note        string `json:"Note"`
		Information string `json:"Information"`
	}
	if err := json.Unmarshal(raw, &notice); err == nil {
		if notice.Note != "" || notice.Information != "" {
			return fmt.Errorf("alpha vantage throttled %s: %s%s", function, notice.Note, notice.Information)
		}
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode %s response: %w", function, err)
	}
	return nil
}
