package rod

import (
	"context"
	"time"

	"github.com/go-rod/rod/lib/proto"
	"github.com/mpawlak/a11y"
	"github.com/mpawlak/a11y/goquery"
)

// DefaultNavigationTimeout bounds a single page navigation, including
// load event and render.
const DefaultNavigationTimeout = 120 * time.Second

// Ensure Fetcher implements a11y.PageFetcher at compile time.
var _ a11y.PageFetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered pages using Chrome browser automation. Page
// HTML reflects the DOM after JavaScript execution, which a plain HTTP
// fetch cannot provide. Fetcher is safe for concurrent use.
type Fetcher struct {
	manager *BrowserManager
	timeout time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithNavigationTimeout sets the per-page navigation timeout.
// Defaults to DefaultNavigationTimeout.
func WithNavigationTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// NewFetcher creates a Fetcher that launches a managed headless Chrome
// browser. Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	manager, err := NewBrowserManager()
	if err != nil {
		return nil, err
	}
	f := &Fetcher{
		manager: manager,
		timeout: DefaultNavigationTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Fetch navigates to the URL and returns the rendered page.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*a11y.RenderedPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := f.manager.Browser().Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, a11y.Errorf(a11y.EUNAVAILABLE, "opening browser page: %v", err)
	}
	defer page.Close()

	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return nil, navError(ctx, url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, navError(ctx, url, err)
	}

	htmlContent, err := page.HTML()
	if err != nil {
		return nil, navError(ctx, url, err)
	}

	links, err := goquery.ExtractLinks(htmlContent, url)
	if err != nil {
		return nil, err
	}

	f.manager.PageRendered()

	return &a11y.RenderedPage{
		URL:   url,
		Title: goquery.ExtractTitle(htmlContent),
		HTML:  htmlContent,
		Links: links,
	}, nil
}

// Close releases browser resources.
func (f *Fetcher) Close() error {
	return f.manager.Close()
}

func navError(ctx context.Context, url string, err error) error {
	if ctx.Err() == context.DeadlineExceeded {
		return a11y.Errorf(a11y.ETIMEOUT, "navigation to %s timed out", url)
	}
	return a11y.Errorf(a11y.EUNAVAILABLE, "rendering %s: %v", url, err)
}
