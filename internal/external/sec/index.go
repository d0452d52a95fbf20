package sec

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// IndexDocument is one file listed on a filing's index page.
type IndexDocument struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// FetchFilingIndex scrapes a filing's index page and returns the
// documents it links to. Useful for locating exhibits and the raw XML
// behind a filing when the primary document is not enough.
func (c *Client) FetchFilingIndex(ctx context.Context, f Filing) ([]IndexDocument, error) {
	if f.IndexURL == "" {
		return nil, fmt.Errorf("filing %s has no index URL", f.AccessionNumber)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	resp, err := c.http.Get(ctx, f.IndexURL)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", f.IndexURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d for %s", resp.StatusCode, f.IndexURL)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse index page: %w", err)
	}

	var documents []IndexDocument
	doc.Find("table.tableFile a").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || href == "" {
			return
		}
		url := href
		if strings.HasPrefix(href, "/") {
			url = "https://www.sec.gov" + href
		}
		documents = append(documents, IndexDocument{
			Name: strings.TrimSpace(sel.Text()),
			URL:  url,
		})
	})

	c.logger.WithFields(map[string]interface{}{
		"accession": f.AccessionNumber,
		"documents": len(documents),
	}).Debug("Filing index parsed")

	return documents, nil
}
