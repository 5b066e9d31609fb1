package jobs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrProvider is returned when the search provider cannot produce results.
var ErrProvider = errors.New("search provider failed")

// Provider returns candidate result URLs for a query in relevance order.
type Provider interface {
	URLs(ctx context.Context, query string, limit int) ([]string, error)
}

const maxResultPageBytes = 4 << 20

// fetchDocument GETs rawURL and parses the body. Non-2xx responses are
// errors here since a search page that is not 2xx has no results to read.
func fetchDocument(ctx context.Context, client *http.Client, rawURL, userAgent string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	req.Header.Set("Accept", "text/html")
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxResultPageBytes))
}

// collector gathers unique http(s) URLs up to a limit.
type collector struct {
	limit int
	seen  map[string]struct{}
	urls  []string
}

func newCollector(limit int) *collector {
	return &collector{limit: limit, seen: make(map[string]struct{})}
}

func (c *collector) add(raw string) {
	if c.full() {
		return
	}
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return
	}
	key := u.String()
	if _, ok := c.seen[key]; ok {
		return
	}
	c.seen[key] = struct{}{}
	c.urls = append(c.urls, key)
}

func (c *collector) full() bool {
	return c.limit > 0 && len(c.urls) >= c.limit
}
