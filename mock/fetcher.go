// Package mock provides function-field mock implementations of the a11y
// domain interfaces for use in tests.
package mock

import (
	"context"

	"github.com/mpawlak/a11y"
)

var _ a11y.PageFetcher = (*PageFetcher)(nil)

// PageFetcher is a mock implementation of a11y.PageFetcher.
type PageFetcher struct {
	FetchFn func(ctx context.Context, url string) (*a11y.RenderedPage, error)
	CloseFn func() error
}

func (f *PageFetcher) Fetch(ctx context.Context, url string) (*a11y.RenderedPage, error) {
	return f.FetchFn(ctx, url)
}

func (f *PageFetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}

var _ a11y.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of a11y.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL)
}
