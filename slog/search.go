package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/mpawlak/a11y"
)

// Ensure LoggingSearchService implements a11y.SearchService.
var _ a11y.SearchService = (*LoggingSearchService)(nil)

// LoggingSearchService wraps a SearchService with query logging.
type LoggingSearchService struct {
	next   a11y.SearchService
	logger *slog.Logger
}

// NewLoggingSearchService creates a new LoggingSearchService.
func NewLoggingSearchService(next a11y.SearchService, logger *slog.Logger) *LoggingSearchService {
	return &LoggingSearchService{next: next, logger: logger}
}

// Search logs the query, result count, and duration and delegates to the
// wrapped service.
func (s *LoggingSearchService) Search(ctx context.Context, query string, limit int) (results []a11y.SearchResult, err error) {
	defer func(begin time.Time) {
		s.logger.Info("semantic search",
			"query", query,
			"limit", limit,
			"results", len(results),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Search(ctx, query, limit)
}
