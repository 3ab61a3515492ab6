package scan

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/mpawlak/a11y"
)

// SuggestionCache memoizes AI fix suggestions by content fingerprint.
// Identical rule+element+impact+help-link combinations on different pages
// share one entry. The cache is unbounded, in-memory, and process-lifetime:
// it is created at pipeline start and owned by its creator, never a package
// singleton. Failed generations are not cached, so the next occurrence of
// the same violation retries.
//
// SuggestionCache is safe for concurrent use by multiple goroutines.
// Concurrent misses on the same key may generate twice; the external call
// carries no exactly-once guarantee anyway, and the last write wins.
type SuggestionCache struct {
	provider a11y.SuggestionProvider
	logger   *slog.Logger

	mu      sync.Mutex
	entries map[uint64]*a11y.Suggestion
}

// NewSuggestionCache creates a SuggestionCache backed by the given provider.
func NewSuggestionCache(provider a11y.SuggestionProvider, logger *slog.Logger) *SuggestionCache {
	return &SuggestionCache{
		provider: provider,
		logger:   logger,
		entries:  make(map[uint64]*a11y.Suggestion),
	}
}

// Len returns the number of cached suggestions.
func (c *SuggestionCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Reset discards all cached suggestions.
func (c *SuggestionCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[uint64]*a11y.Suggestion)
}

// GetOrGenerate returns the cached suggestion for the violation's
// fingerprint, generating it on a miss. On external failure it returns a
// fallback payload referencing the violation's help URL; it never returns
// an error. A structurally malformed reply is logged and kept as-is.
func (c *SuggestionCache) GetOrGenerate(ctx context.Context, rv a11y.RawViolation) *a11y.Suggestion {
	key := Fingerprint(rv)

	c.mu.Lock()
	if s, ok := c.entries[key]; ok {
		c.mu.Unlock()
		hit := *s
		hit.Cached = true
		return &hit
	}
	c.mu.Unlock()

	text, err := c.provider.Complete(ctx, BuildPrompt(rv))
	if err != nil {
		c.logger.Warn("suggestion generation failed",
			"rule", rv.RuleID,
			"err", err,
		)
		return &a11y.Suggestion{
			RuleID:      rv.RuleID,
			Text:        fallbackText(rv),
			GeneratedAt: time.Now().UTC(),
			Error:       a11y.ErrorMessage(err),
			HelpURL:     rv.HelpURL,
		}
	}

	if err := ValidateSuggestion(text); err != nil {
		c.logger.Warn("suggestion reply missing required sections",
			"rule", rv.RuleID,
			"err", err,
		)
	}

	s := &a11y.Suggestion{
		RuleID:      rv.RuleID,
		Text:        text,
		Model:       c.provider.Model(),
		GeneratedAt: time.Now().UTC(),
	}

	c.mu.Lock()
	c.entries[key] = s
	c.mu.Unlock()

	result := *s
	return &result
}

// Fingerprint derives the deterministic cache key for a violation from its
// rule ID, the whitespace-normalized HTML of the first affected node, the
// impact, and the help URL.
func Fingerprint(rv a11y.RawViolation) uint64 {
	var firstHTML string
	if len(rv.Nodes) > 0 {
		firstHTML = normalizeWhitespace(rv.Nodes[0].HTML)
	}
	return xxhash.Sum64String(rv.RuleID + "\x1f" + firstHTML + "\x1f" + rv.Impact + "\x1f" + rv.HelpURL)
}

// normalizeWhitespace collapses runs of whitespace to single spaces so that
// formatting-only differences in markup do not split cache entries.
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func fallbackText(rv a11y.RawViolation) string {
	if rv.HelpURL == "" {
		return fmt.Sprintf("Automated suggestion unavailable for rule %q.", rv.RuleID)
	}
	return fmt.Sprintf("Automated suggestion unavailable for rule %q. Refer to %s for remediation guidance.", rv.RuleID, rv.HelpURL)
}
