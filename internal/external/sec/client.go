// Package sec is the EDGAR client: submissions, company facts, and the
// ticker-to-CIK map from data.sec.gov, plus filing index pages from the
// archives host. All EDGAR calls go through this client so the fair-use
// rate limit and User-Agent policy are enforced in one place.
package sec

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/filingsight/filingsight/pkg/config"
	"github.com/filingsight/filingsight/pkg/httputil"
	"github.com/filingsight/filingsight/pkg/logger"
	"github.com/filingsight/filingsight/pkg/redis"
)

// Client handles communication with SEC EDGAR.
type Client struct {
	http    *httputil.Client
	logger  *logger.Logger
	cfg     config.SECConfig
	limiter *rate.Limiter
	cache   *redis.Cache
}

// NewClient creates an EDGAR client. cache may be nil to disable
// response caching. The local limiter enforces the SEC fair-use policy
// per process; a shared redis limiter can additionally be attached to
// the underlying HTTP client when several workers share one quota.
func NewClient(cfg config.SECConfig, cache *redis.Cache, log *logger.Logger) *Client {
	httpClient := httputil.NewWithTimeout(log, 30*time.Second).
		WithRetry(3, 500*time.Millisecond).
		WithHeader("User-Agent", cfg.UserAgent).
		WithHeader("Accept-Encoding", "gzip, deflate")

	return &Client{
		http:    httpClient,
		logger:  log.WithComponent("sec-client"),
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.MaxPerSecond), cfg.MaxPerSecond),
		cache:   cache,
	}
}

// WithRateLimiter attaches a shared redis sliding-window limiter on top
// of the local one.
func (c *Client) WithRateLimiter(limiter *redis.RateLimiter) *Client {
	c.http = c.http.WithRateLimiter(limiter, redis.SECRateLimit)
	return c
}

func (c *Client) getJSON(ctx context.Context, url string, dest interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	if err := c.http.GetJSON(ctx, url, dest); err != nil {
		return fmt.Errorf("GET %s: %w", url, err)
	}
	return nil
}

var nonDigits = regexp.MustCompile(`\D`)

// NormalizeCIK strips non-digits and zero-pads to the 10-digit form the
// submissions and facts APIs expect.
func NormalizeCIK(cik string) string {
	digits := nonDigits.ReplaceAllString(cik, "")
	if len(digits) >= 10 {
		return digits[len(digits)-10:]
	}
	return strings.Repeat("0", 10-len(digits)) + digits
}

// cikNoPad returns the archive-path form of a CIK: digits with leading
// zeros stripped.
func cikNoPad(cik string) string {
	trimmed := strings.TrimLeft(nonDigits.ReplaceAllString(cik, ""), "0")
	if trimmed == "" {
		return "0"
	}
	return trimmed
}
