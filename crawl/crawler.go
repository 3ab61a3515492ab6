// Package crawl provides breadth-first page discovery bounded by depth and
// domain. The crawler delegates fetching to an a11y.PageFetcher and records
// the URL and title of every reachable page.
package crawl

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/mpawlak/a11y"
)

// Crawler discovers pages of a single site via breadth-first traversal.
// One Crawl call is one run: the visited set is not shared or restartable.
type Crawler struct {
	Fetcher a11y.PageFetcher
	Logger  *slog.Logger

	// ExpectedURLs and FalsePositiveRate size the frontier's Bloom filter.
	// Zero values use the frontier defaults.
	ExpectedURLs      uint
	FalsePositiveRate float64
}

// New returns a Crawler using the given fetcher and logger.
func New(fetcher a11y.PageFetcher, logger *slog.Logger) *Crawler {
	return &Crawler{Fetcher: fetcher, Logger: logger}
}

// Crawl walks the site breadth-first starting at startURL, following only
// absolute http(s) links whose hostname exactly equals the start hostname.
// Links are compared by string equality without URL normalization, so
// query-string variants are distinct pages. Per-fetch errors are logged and
// the URL is skipped; the run continues. Returns an error only if startURL
// is unusable or the context is canceled.
func (c *Crawler) Crawl(ctx context.Context, startURL string, maxDepth int) ([]a11y.CrawledPage, error) {
	start, err := url.Parse(startURL)
	if err != nil || start.Hostname() == "" {
		return nil, a11y.Errorf(a11y.EINVALID, "invalid start URL %q", startURL)
	}
	if start.Scheme != "http" && start.Scheme != "https" {
		return nil, a11y.Errorf(a11y.EINVALID, "start URL must be http(s), got %q", start.Scheme)
	}
	host := start.Hostname()

	expected := c.ExpectedURLs
	if expected == 0 {
		expected = DefaultExpectedURLs
	}
	fpRate := c.FalsePositiveRate
	if fpRate == 0 {
		fpRate = DefaultFalsePositiveRate
	}

	frontier := NewFrontier(expected, fpRate)
	frontier.Push(startURL, 0)

	var pages []a11y.CrawledPage
	for {
		pageURL, depth, ok := frontier.Pop()
		if !ok {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if depth > maxDepth {
			continue
		}

		page, err := c.Fetcher.Fetch(ctx, pageURL)
		if err != nil {
			c.Logger.Warn("fetch failed, skipping page",
				"url", pageURL,
				"depth", depth,
				"err", err,
			)
			continue
		}

		pages = append(pages, a11y.CrawledPage{URL: pageURL, Title: page.Title})

		if depth == maxDepth {
			continue
		}
		for _, link := range page.Links {
			if !sameHostHTTP(host, link) {
				continue
			}
			frontier.Push(link, depth+1)
		}
	}

	return pages, nil
}

// sameHostHTTP reports whether rawURL is an absolute http(s) URL whose
// hostname exactly equals host. Malformed URLs are dropped silently.
func sameHostHTTP(host, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Hostname() == host
}
