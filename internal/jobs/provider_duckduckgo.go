package jobs

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const duckDuckGoSearchURL = "https://html.duckduckgo.com/html/"

// DuckDuckGo scrapes the JavaScript-free DuckDuckGo results page.
type DuckDuckGo struct {
	Client    *http.Client
	BaseURL   string
	UserAgent string
}

// URLs returns up to limit result links for query.
func (d *DuckDuckGo) URLs(ctx context.Context, query string, limit int) ([]string, error) {
	base := d.BaseURL
	if base == "" {
		base = duckDuckGoSearchURL
	}
	client := d.Client
	if client == nil {
		client = http.DefaultClient
	}

	doc, err := fetchDocument(ctx, client, base+"?q="+url.QueryEscape(query), d.UserAgent)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo search: %w", err)
	}

	c := newCollector(limit)
	doc.Find("a.result__a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		c.add(unwrapDuckDuckGo(href))
		return !c.full()
	})
	return c.urls, nil
}

// unwrapDuckDuckGo resolves "//duckduckgo.com/l/?uddg=<target>" redirects.
func unwrapDuckDuckGo(href string) string {
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if strings.HasSuffix(u.Hostname(), "duckduckgo.com") && strings.HasPrefix(u.Path, "/l/") {
		if target := u.Query().Get("uddg"); target != "" {
			return target
		}
	}
	return href
}

var _ Provider = (*DuckDuckGo)(nil)
