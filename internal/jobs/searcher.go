package jobs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"internship-ats/internal/shared/metrics"
	"internship-ats/internal/shared/telemetry"
)

const (
	DefaultLimit        = 10
	DefaultFetchTimeout = 5 * time.Second
	DefaultConcurrency  = 4

	maxListingPageBytes = 2 << 20
)

// Searcher turns a query into job listings: one provider call, then one
// fetch per result URL.
type Searcher struct {
	Provider     Provider
	Client       *http.Client
	UserAgent    string
	DefaultLimit int
	FetchTimeout time.Duration
	Concurrency  int
}

// Search returns exactly one listing per provider URL, in provider order.
// Per-URL failures are folded into degraded listings; only provider
// failures and caller cancellation are returned as errors.
func (s *Searcher) Search(ctx context.Context, query string, limit int) ([]Listing, error) {
	if strings.TrimSpace(query) == "" {
		query = DefaultQuery
	}
	if limit <= 0 {
		limit = s.DefaultLimit
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	urls, err := s.Provider.URLs(ctx, query, limit)
	if err != nil {
		if errors.Is(err, ErrProvider) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrProvider, err)
	}
	if len(urls) > limit {
		urls = urls[:limit]
	}

	listings := make([]Listing, len(urls))
	var g errgroup.Group
	g.SetLimit(s.concurrency())
	for i, u := range urls {
		g.Go(func() error {
			listings[i] = s.fetchListing(ctx, u)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	degraded := 0
	for _, l := range listings {
		if l.Degraded() {
			degraded++
		}
	}
	telemetry.Info("jobs.search.complete", map[string]any{
		"query":    query,
		"limit":    limit,
		"results":  len(listings),
		"degraded": degraded,
	})
	return listings, nil
}

func (s *Searcher) fetchListing(ctx context.Context, rawURL string) Listing {
	listing, err := s.scrape(ctx, rawURL)
	if err != nil {
		metrics.IncListingFetch(metrics.FetchDegraded)
		return Listing{Title: ErrorTitle, URL: rawURL, Description: err.Error()}
	}
	metrics.IncListingFetch(metrics.FetchOK)
	return listing
}

// scrape reads the page title and meta description. Non-2xx responses are
// parsed like any other page.
func (s *Searcher) scrape(ctx context.Context, rawURL string) (Listing, error) {
	timeout := s.FetchTimeout
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Listing{}, err
	}
	if s.UserAgent != "" {
		req.Header.Set("User-Agent", s.UserAgent)
	}
	resp, err := s.client().Do(req)
	if err != nil {
		return Listing{}, err
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxListingPageBytes))
	if err != nil {
		return Listing{}, err
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = NoTitle
	}
	description := NoDescription
	if content, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok && strings.TrimSpace(content) != "" {
		description = strings.TrimSpace(content)
	}
	return Listing{Title: title, URL: rawURL, Description: description}, nil
}

func (s *Searcher) client() *http.Client {
	if s.Client != nil {
		return s.Client
	}
	return http.DefaultClient
}

func (s *Searcher) concurrency() int {
	if s.Concurrency > 0 {
		return s.Concurrency
	}
	return DefaultConcurrency
}
