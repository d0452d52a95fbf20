package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Cache provides typed caching for raw upstream payloads so re-runs of an
// analysis do not refetch from the SEC or vendor APIs.
type Cache struct {
	client *Client
	prefix string
}

// NewCache creates a new cache helper
func NewCache(client *Client, prefix string) *Cache {
	return &Cache{
		client: client,
		prefix: prefix,
	}
}

// Get retrieves a cached value
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !c.client.Enabled() {
		return false, nil
	}

	fullKey := fmt.Sprintf("%s:cache:%s", c.prefix, key)
	data, err := c.client.Redis().Get(ctx, fullKey).Bytes()
	if err != nil {
		// Key not found is not an error
		return false, nil
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal failed: %w", err)
	}

	return true, nil
}

// Set stores a value in cache with TTL
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !c.client.Enabled() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}

	fullKey := fmt.Sprintf("%s:cache:%s", c.prefix, key)
	return c.client.Redis().Set(ctx, fullKey, data, ttl).Err()
}

// Delete removes a cached value
func (c *Cache) Delete(ctx context.Context, key string) error {
	if !c.client.Enabled() {
		return nil
	}

	fullKey := fmt.Sprintf("%s:cache:%s", c.prefix, key)
	return c.client.Redis().Del(ctx, fullKey).Err()
}

// GetOrSet retrieves from cache or calls fn to populate it
func (c *Cache) GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, fn func() (interface{}, error)) error {
	// Try cache first
	found, err := c.Get(ctx, key, dest)
	if err != nil {
		return err
	}
	if found {
		return nil
	}

	// Cache miss - call function
	value, err := fn()
	if err != nil {
		return err
	}

	// Store in cache; a write failure only costs a refetch later
	if err := c.Set(ctx, key, value, ttl); err != nil {
		return nil
	}

	data, _ := json.Marshal(value)
	return json.Unmarshal(data, dest)
}

// Predefined TTLs
const (
	TTLShort  = 10 * time.Minute // ticker lookups
	TTLDaily  = 24 * time.Hour   // submissions, companyfacts
	TTLWeekly = 7 * 24 * time.Hour
)

// Common cache key generators

// SubmissionsKey keys the EDGAR submissions payload for a CIK
func SubmissionsKey(cik string) string {
	return fmt.Sprintf("sec:submissions:%s", cik)
}

// CompanyFactsKey keys the EDGAR companyfacts payload for a CIK
func CompanyFactsKey(cik string) string {
	return fmt.Sprintf("sec:companyfacts:%s", cik)
}

// VendorSeriesKey keys the vendor fundamentals timeseries for a ticker
func VendorSeriesKey(ticker string) string {
	return fmt.Sprintf("av:timeseries:%s", ticker)
}

// InsiderTxKey keys the vendor insider transaction list for a ticker
func InsiderTxKey(ticker string) string {
	return fmt.Sprintf("av:insider:%s", ticker)
}
