package mock

import (
	"context"

	"github.com/mpawlak/a11y"
)

var _ a11y.SuggestionProvider = (*SuggestionProvider)(nil)

// SuggestionProvider is a mock implementation of a11y.SuggestionProvider.
type SuggestionProvider struct {
	CompleteFn func(ctx context.Context, prompt string) (string, error)
	ModelFn    func() string
}

func (p *SuggestionProvider) Complete(ctx context.Context, prompt string) (string, error) {
	return p.CompleteFn(ctx, prompt)
}

func (p *SuggestionProvider) Model() string {
	if p.ModelFn == nil {
		return "test-model"
	}
	return p.ModelFn()
}

var _ a11y.EmbeddingProvider = (*EmbeddingProvider)(nil)

// EmbeddingProvider is a mock implementation of a11y.EmbeddingProvider.
type EmbeddingProvider struct {
	EmbedFn func(ctx context.Context, text string) ([]float32, error)
}

func (p *EmbeddingProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	return p.EmbedFn(ctx, text)
}
