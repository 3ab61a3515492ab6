package mock

import (
	"context"

	"github.com/mpawlak/a11y"
)

var _ a11y.SearchService = (*SearchService)(nil)

// SearchService is a mock implementation of a11y.SearchService.
type SearchService struct {
	SearchFn func(ctx context.Context, query string, limit int) ([]a11y.SearchResult, error)
}

func (s *SearchService) Search(ctx context.Context, query string, limit int) ([]a11y.SearchResult, error) {
	return s.SearchFn(ctx, query, limit)
}
