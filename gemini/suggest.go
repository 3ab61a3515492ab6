// Package gemini implements the AI provider interfaces using Google Gemini.
// A shared rate limiter paces all outgoing requests.
package gemini

import (
	"context"
	"errors"
	"time"

	"github.com/mpawlak/a11y"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

const (
	suggestionModel = "gemini-2.5-flash"

	// Per-attempt deadline for a suggestion completion.
	suggestionTimeout = 25 * time.Second

	// Transient failures get one retry after a fixed delay.
	suggestionAttempts = 2
	retryDelay         = 2 * time.Second
)

// NewLimiter returns the request pacer shared by the Gemini providers:
// a steady 2 requests per second with small bursts allowed.
func NewLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Every(500*time.Millisecond), 5)
}

// Ensure SuggestionProvider implements a11y.SuggestionProvider at compile time.
var _ a11y.SuggestionProvider = (*SuggestionProvider)(nil)

// SuggestionProvider implements a11y.SuggestionProvider using Google Gemini.
type SuggestionProvider struct {
	client  *genai.Client
	limiter *rate.Limiter
}

// NewSuggestionProvider creates a new SuggestionProvider. The limiter may
// be shared with other providers; nil disables pacing.
func NewSuggestionProvider(client *genai.Client, limiter *rate.Limiter) *SuggestionProvider {
	return &SuggestionProvider{client: client, limiter: limiter}
}

// Model returns the identifier of the underlying model.
func (p *SuggestionProvider) Model() string {
	return suggestionModel
}

// Complete returns the model's reply to the prompt, retrying once on
// transient failure. Callers see the error of the final attempt.
func (p *SuggestionProvider) Complete(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", a11y.Errorf(a11y.EINVALID, "prompt required")
	}

	var lastErr error
	for attempt := 1; attempt <= suggestionAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(retryDelay):
			case <-ctx.Done():
				return "", mapError(ctx.Err())
			}
		}

		text, err := p.complete(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err
	}
	return "", mapError(lastErr)
}

func (p *SuggestionProvider) complete(ctx context.Context, prompt string) (string, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, suggestionTimeout)
	defer cancel()

	result, err := p.client.Models.GenerateContent(ctx, suggestionModel,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		BuildConfig(),
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", a11y.Errorf(a11y.EINTERNAL, "gemini returned nil result")
	}
	return result.Text(), nil
}

// BuildConfig returns the GenerateContentConfig for suggestion completions.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.4)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You are a web accessibility expert. Given an accessibility violation, explain the problem and show how to fix the affected HTML. Be specific and concise, and follow the requested response structure exactly.",
			}},
		},
		Temperature: &temp,
	}
}

// mapError translates transport failures into application error codes:
// deadline expiry becomes ETIMEOUT, everything else EUNAVAILABLE.
// Application errors pass through untouched.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if a11y.ErrorCode(err) != a11y.EINTERNAL {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return a11y.Errorf(a11y.ETIMEOUT, "gemini request timed out")
	}
	return a11y.Errorf(a11y.EUNAVAILABLE, "gemini request failed: %v", err)
}
