package a11y

import "context"

// RenderedPage is a fetched page ready for scanning. Links holds the
// absolute URLs of outbound anchors as resolved against the page URL.
type RenderedPage struct {
	URL   string
	Title string
	HTML  string
	Links []string
}

// PageFetcher retrieves rendered pages. Implementations hide the choice
// between plain HTTP and browser automation for JavaScript-rendered sites.
type PageFetcher interface {
	// Fetch navigates to the URL and returns the rendered page.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (*RenderedPage, error)

	// Close releases fetcher resources.
	// Must be called when the PageFetcher is no longer needed.
	Close() error
}

// CrawledPage is a page discovered during crawling.
type CrawledPage struct {
	URL   string
	Title string
}

// SitemapService discovers page URLs from a site's sitemap, as an
// alternative to BFS crawling.
type SitemapService interface {
	// DiscoverURLs finds page URLs from a site's sitemap. It checks
	// robots.txt for sitemap directives, then falls back to /sitemap.xml.
	// Sitemap indexes are resolved recursively.
	DiscoverURLs(ctx context.Context, baseURL string) ([]string, error)
}
