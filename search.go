package a11y

import "context"

// SearchResult is a semantic search match.
type SearchResult struct {
	Violation  *Violation `json:"violation"`
	Similarity float64    `json:"similarity"`
}

// SearchService ranks stored violations against a natural language query.
type SearchService interface {
	// Search returns up to limit violations ranked by descending similarity
	// to the query. Internal failures (query embedding, store reads) yield
	// an empty result rather than an error.
	Search(ctx context.Context, query string, limit int) ([]SearchResult, error)
}
