// Package http provides an HTTP-based implementation of a11y.PageFetcher
// for auditing static sites that don't require JavaScript rendering, plus
// sitemap-based URL discovery.
package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/mpawlak/a11y"
	"github.com/mpawlak/a11y/goquery"
)

// DefaultFetchTimeout is the default timeout for page navigation.
// Kept consistent with rod.DefaultNavigationTimeout.
const DefaultFetchTimeout = 120 * time.Second

// Ensure Fetcher implements a11y.PageFetcher at compile time.
var _ a11y.PageFetcher = (*Fetcher)(nil)

// Fetcher retrieves pages using plain HTTP requests. Unlike rod.Fetcher,
// this does not execute JavaScript and is suitable for static sites only.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves and parses the page at the given URL.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*a11y.RenderedPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, a11y.Errorf(a11y.EINVALID, "invalid page URL %q: %v", url, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		// Expiry of either deadline counts as a navigation timeout: the
		// caller's context or the client-level request timeout.
		if ctx.Err() != nil || os.IsTimeout(err) || errors.Is(err, context.DeadlineExceeded) {
			return nil, a11y.Errorf(a11y.ETIMEOUT, "navigation to %s timed out", url)
		}
		return nil, a11y.Errorf(a11y.EUNAVAILABLE, "fetching %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, a11y.Errorf(a11y.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, a11y.Errorf(a11y.EUNAVAILABLE, "reading %s: %v", url, err)
	}

	htmlContent := string(body)
	links, err := goquery.ExtractLinks(htmlContent, url)
	if err != nil {
		return nil, err
	}

	return &a11y.RenderedPage{
		URL:   url,
		Title: goquery.ExtractTitle(htmlContent),
		HTML:  htmlContent,
		Links: links,
	}, nil
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
