package gemini

import (
	"context"
	"time"

	"github.com/mpawlak/a11y"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

const (
	embeddingModel = "gemini-embedding-001"

	// Embedding calls get a tighter deadline and no retry; a failed
	// embedding degrades to a violation without one.
	embeddingTimeout = 20 * time.Second
)

// Ensure EmbeddingProvider implements a11y.EmbeddingProvider at compile time.
var _ a11y.EmbeddingProvider = (*EmbeddingProvider)(nil)

// EmbeddingProvider implements a11y.EmbeddingProvider using Google Gemini.
type EmbeddingProvider struct {
	client  *genai.Client
	limiter *rate.Limiter
}

// NewEmbeddingProvider creates a new EmbeddingProvider. The limiter may be
// shared with other providers; nil disables pacing.
func NewEmbeddingProvider(client *genai.Client, limiter *rate.Limiter) *EmbeddingProvider {
	return &EmbeddingProvider{client: client, limiter: limiter}
}

// Embed converts text into an embedding vector.
func (p *EmbeddingProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, a11y.Errorf(a11y.EINVALID, "embedding text required")
	}

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, embeddingTimeout)
	defer cancel()

	result, err := p.client.Models.EmbedContent(ctx, embeddingModel,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: text}},
		}},
		nil,
	)
	if err != nil {
		return nil, mapError(err)
	}
	if result == nil || len(result.Embeddings) == 0 || len(result.Embeddings[0].Values) == 0 {
		return nil, a11y.Errorf(a11y.EUNAVAILABLE, "gemini returned no embedding")
	}

	return result.Embeddings[0].Values, nil
}
