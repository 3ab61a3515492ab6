// Package search implements semantic search over stored violations using
// compressed description embeddings.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/mpawlak/a11y"
)

const (
	// DefaultCandidateLimit caps how many embedded violations one search
	// loads for scoring.
	DefaultCandidateLimit = 1000

	// DefaultMinSimilarity filters out weak matches.
	DefaultMinSimilarity = 0.3

	// queryTemplate frames the user query in the same register as the
	// stored violation descriptions, which improves embedding alignment.
	queryTemplate = "Accessibility violation about %s in web development"
)

// Compile-time interface verification.
var _ a11y.SearchService = (*Service)(nil)

// Service implements a11y.SearchService by brute-force cosine scoring of
// stored violation embeddings against the embedded query.
type Service struct {
	store    a11y.AuditStore
	embedder a11y.EmbeddingProvider
	logger   *slog.Logger

	candidateLimit int
	minSimilarity  float64
}

// Option configures a Service.
type Option func(*Service)

// WithCandidateLimit overrides the candidate cap.
func WithCandidateLimit(n int) Option {
	return func(s *Service) { s.candidateLimit = n }
}

// WithMinSimilarity overrides the similarity floor.
func WithMinSimilarity(min float64) Option {
	return func(s *Service) { s.minSimilarity = min }
}

// NewService creates a new search Service.
func NewService(store a11y.AuditStore, embedder a11y.EmbeddingProvider, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store:          store,
		embedder:       embedder,
		logger:         logger,
		candidateLimit: DefaultCandidateLimit,
		minSimilarity:  DefaultMinSimilarity,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search embeds the query, scores it against every stored embedded
// violation, and returns up to limit matches above the similarity floor in
// descending similarity order. Internal failures degrade to an empty
// result; search never takes the caller down with it.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]a11y.SearchResult, error) {
	if query == "" {
		return nil, a11y.Errorf(a11y.EINVALID, "search query required")
	}
	if limit <= 0 {
		limit = 10
	}

	queryVec, err := s.embedder.Embed(ctx, fmt.Sprintf(queryTemplate, query))
	if err != nil {
		s.logger.Warn("query embedding failed, returning empty result",
			"query", query,
			"err", err,
		)
		return []a11y.SearchResult{}, nil
	}

	hasEmbedding := true
	candidates, err := s.store.FindViolations(ctx, a11y.ViolationFilter{
		HasEmbedding: &hasEmbedding,
		Limit:        s.candidateLimit,
	})
	if err != nil {
		s.logger.Warn("candidate load failed, returning empty result", "err", err)
		return []a11y.SearchResult{}, nil
	}

	results := make([]a11y.SearchResult, 0, len(candidates))
	for _, v := range candidates {
		sim := a11y.CosineSimilarity(queryVec, a11y.DecompressEmbedding(v.Embedding))
		if sim > s.minSimilarity {
			results = append(results, a11y.SearchResult{Violation: v, Similarity: sim})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}
