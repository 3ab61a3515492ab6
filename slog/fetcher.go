// Package slog provides logging decorators over the a11y domain
// interfaces.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/mpawlak/a11y"
)

// Ensure LoggingFetcher implements a11y.PageFetcher.
var _ a11y.PageFetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a PageFetcher with fetch logging.
type LoggingFetcher struct {
	next   a11y.PageFetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next a11y.PageFetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch logs the URL, size, and duration of the fetch and delegates to
// the wrapped fetcher.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (page *a11y.RenderedPage, err error) {
	defer func(begin time.Time) {
		var bytes, links int
		if page != nil {
			bytes = len(page.HTML)
			links = len(page.Links)
		}
		f.logger.Info("fetch",
			"url", url,
			"bytes", bytes,
			"links", links,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
