package a11y

import (
	"context"
	"time"
)

// Suggestion is an AI-generated fix suggestion for a violation. When
// generation failed, Error is non-empty, Text carries a fallback message,
// and HelpURL points at the rule's reference documentation.
type Suggestion struct {
	RuleID      string    `json:"ruleId"`
	Text        string    `json:"text"`
	Model       string    `json:"model,omitempty"`
	GeneratedAt time.Time `json:"generatedAt"`
	Cached      bool      `json:"cached"`
	Error       string    `json:"error,omitempty"`
	HelpURL     string    `json:"helpUrl,omitempty"`
}

// SuggestionProvider generates fix-suggestion text from a prompt.
type SuggestionProvider interface {
	// Complete returns the model's reply to the prompt. Retries for
	// transient failures happen at this layer; callers see the final error.
	Complete(ctx context.Context, prompt string) (string, error)

	// Model returns the identifier of the underlying model.
	Model() string
}

// EmbeddingProvider converts text into a fixed-length embedding vector
// with components in [-1, 1].
type EmbeddingProvider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
