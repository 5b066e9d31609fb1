package jobs

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const googleSearchURL = "https://www.google.com/search"

// Google scrapes the classic HTML results page of Google web search.
type Google struct {
	Client    *http.Client
	BaseURL   string
	UserAgent string
}

// URLs returns up to limit organic result links for query.
func (g *Google) URLs(ctx context.Context, query string, limit int) ([]string, error) {
	base := g.BaseURL
	if base == "" {
		base = googleSearchURL
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("num", strconv.Itoa(limit+2))
	params.Set("hl", "en")

	doc, err := fetchDocument(ctx, g.client(), base+"?"+params.Encode(), g.UserAgent)
	if err != nil {
		return nil, fmt.Errorf("google search: %w", err)
	}

	c := newCollector(limit)
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if target, ok := googleResultTarget(href); ok {
			c.add(target)
		}
		return !c.full()
	})
	return c.urls, nil
}

func (g *Google) client() *http.Client {
	if g.Client != nil {
		return g.Client
	}
	return http.DefaultClient
}

// googleResultTarget unwraps "/url?q=" redirect links and keeps direct links
// that leave Google.
func googleResultTarget(href string) (string, bool) {
	if strings.HasPrefix(href, "/url?") {
		u, err := url.Parse(href)
		if err != nil {
			return "", false
		}
		q := u.Query()
		target := q.Get("q")
		if target == "" {
			target = q.Get("url")
		}
		return target, target != "" && !isGoogleHost(target)
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href, !isGoogleHost(href)
	}
	return "", false
}

func isGoogleHost(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return true
	}
	host := strings.ToLower(u.Hostname())
	return host == "google.com" ||
		strings.HasSuffix(host, ".google.com") ||
		strings.HasSuffix(host, ".googleusercontent.com") ||
		strings.HasPrefix(host, "google.") ||
		strings.Contains(host, ".google.")
}

var _ Provider = (*Google)(nil)
