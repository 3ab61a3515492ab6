package search_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/mpawlak/a11y"
	"github.com/mpawlak/a11y/mock"
	"github.com/mpawlak/a11y/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func embeddedViolation(ruleID string, vec []float32) *a11y.Violation {
	return &a11y.Violation{
		ID:          ruleID + "-id",
		RuleID:      ruleID,
		Description: "Description for " + ruleID,
		Severity:    a11y.SeverityCritical,
		Embedding:   a11y.CompressEmbedding(vec),
	}
}

func fixedStore(violations ...*a11y.Violation) *mock.AuditStore {
	return &mock.AuditStore{
		FindViolationsFn: func(_ context.Context, _ a11y.ViolationFilter) ([]*a11y.Violation, error) {
			return violations, nil
		},
	}
}

func TestService_Search(t *testing.T) {
	t.Parallel()

	t.Run("ranks by descending similarity", func(t *testing.T) {
		t.Parallel()

		store := fixedStore(
			embeddedViolation("weak", []float32{0.3, 0.9, 0}),
			embeddedViolation("exact", []float32{1, 0, 0}),
			embeddedViolation("close", []float32{0.9, 0.3, 0}),
		)
		embedder := &mock.EmbeddingProvider{
			EmbedFn: func(_ context.Context, _ string) ([]float32, error) {
				return []float32{1, 0, 0}, nil
			},
		}

		svc := search.NewService(store, embedder, discardLogger())
		results, err := svc.Search(context.Background(), "missing alt text", 10)
		require.NoError(t, err)

		require.Len(t, results, 3)
		assert.Equal(t, "exact", results[0].Violation.RuleID)
		assert.Equal(t, "close", results[1].Violation.RuleID)
		assert.Equal(t, "weak", results[2].Violation.RuleID)
		assert.InDelta(t, 1.0, results[0].Similarity, 0.02)
		assert.Greater(t, results[1].Similarity, results[2].Similarity)
	})

	t.Run("frames the query before embedding", func(t *testing.T) {
		t.Parallel()

		var embedded string
		embedder := &mock.EmbeddingProvider{
			EmbedFn: func(_ context.Context, text string) ([]float32, error) {
				embedded = text
				return []float32{1, 0}, nil
			},
		}

		svc := search.NewService(fixedStore(), embedder, discardLogger())
		_, err := svc.Search(context.Background(), "missing form labels", 10)
		require.NoError(t, err)

		assert.Equal(t, "Accessibility violation about missing form labels in web development", embedded)
	})

	t.Run("drops matches at or below the similarity floor", func(t *testing.T) {
		t.Parallel()

		store := fixedStore(
			embeddedViolation("orthogonal", []float32{0, 1, 0}),
			embeddedViolation("opposite", []float32{-1, 0, 0}),
			embeddedViolation("match", []float32{1, 0, 0}),
		)
		embedder := &mock.EmbeddingProvider{
			EmbedFn: func(_ context.Context, _ string) ([]float32, error) {
				return []float32{1, 0, 0}, nil
			},
		}

		svc := search.NewService(store, embedder, discardLogger())
		results, err := svc.Search(context.Background(), "contrast", 10)
		require.NoError(t, err)

		require.Len(t, results, 1)
		assert.Equal(t, "match", results[0].Violation.RuleID)
	})

	t.Run("truncates to limit", func(t *testing.T) {
		t.Parallel()

		store := fixedStore(
			embeddedViolation("a", []float32{1, 0}),
			embeddedViolation("b", []float32{0.99, 0.1}),
			embeddedViolation("c", []float32{0.95, 0.2}),
		)
		embedder := &mock.EmbeddingProvider{
			EmbedFn: func(_ context.Context, _ string) ([]float32, error) {
				return []float32{1, 0}, nil
			},
		}

		svc := search.NewService(store, embedder, discardLogger())
		results, err := svc.Search(context.Background(), "alt", 2)
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})

	t.Run("requests only embedded candidates up to the cap", func(t *testing.T) {
		t.Parallel()

		var got a11y.ViolationFilter
		store := &mock.AuditStore{
			FindViolationsFn: func(_ context.Context, filter a11y.ViolationFilter) ([]*a11y.Violation, error) {
				got = filter
				return nil, nil
			},
		}
		embedder := &mock.EmbeddingProvider{
			EmbedFn: func(_ context.Context, _ string) ([]float32, error) {
				return []float32{1, 0}, nil
			},
		}

		svc := search.NewService(store, embedder, discardLogger())
		_, err := svc.Search(context.Background(), "alt", 10)
		require.NoError(t, err)

		require.NotNil(t, got.HasEmbedding)
		assert.True(t, *got.HasEmbedding)
		assert.Equal(t, search.DefaultCandidateLimit, got.Limit)
	})

	t.Run("embedding failure yields empty result, not error", func(t *testing.T) {
		t.Parallel()

		embedder := &mock.EmbeddingProvider{
			EmbedFn: func(_ context.Context, _ string) ([]float32, error) {
				return nil, a11y.Errorf(a11y.EUNAVAILABLE, "embedding service unavailable")
			},
		}

		svc := search.NewService(fixedStore(), embedder, discardLogger())
		results, err := svc.Search(context.Background(), "alt", 10)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("store failure yields empty result, not error", func(t *testing.T) {
		t.Parallel()

		store := &mock.AuditStore{
			FindViolationsFn: func(_ context.Context, _ a11y.ViolationFilter) ([]*a11y.Violation, error) {
				return nil, a11y.Errorf(a11y.EINTERNAL, "query failed")
			},
		}
		embedder := &mock.EmbeddingProvider{
			EmbedFn: func(_ context.Context, _ string) ([]float32, error) {
				return []float32{1, 0}, nil
			},
		}

		svc := search.NewService(store, embedder, discardLogger())
		results, err := svc.Search(context.Background(), "alt", 10)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("returns error for empty query", func(t *testing.T) {
		t.Parallel()

		svc := search.NewService(fixedStore(), &mock.EmbeddingProvider{}, discardLogger())
		_, err := svc.Search(context.Background(), "", 10)
		require.Error(t, err)
		assert.Equal(t, a11y.EINVALID, a11y.ErrorCode(err))
		assert.True(t, strings.Contains(a11y.ErrorMessage(err), "query"))
	})
}
