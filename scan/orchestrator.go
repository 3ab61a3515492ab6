// Package scan orchestrates per-page accessibility scans: it fetches the
// rendered page, runs the rule engine, enhances the raw violations with
// severities and AI fix suggestions, and computes page-level metrics.
package scan

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/mpawlak/a11y"
	"golang.org/x/sync/errgroup"
)

const (
	// maxSnippetLen bounds the stored HTML of each affected node.
	maxSnippetLen = 500

	// DefaultBatchSize is the number of suggestion generations that may run
	// concurrently within one batch. Batches execute strictly in sequence.
	DefaultBatchSize = 5
)

// Orchestrator scans and enhances a single page.
type Orchestrator struct {
	Fetcher     a11y.PageFetcher
	Engine      a11y.AccessibilityEngine
	Suggestions *SuggestionCache
	Logger      *slog.Logger

	// BatchSize overrides DefaultBatchSize when positive.
	BatchSize int
}

// ScanAndEnhance fetches the page at pageURL, scans it, and returns the
// enhanced result. A suggestion-generation failure degrades that violation
// to a fallback payload; it never fails the page scan. Fetch and engine
// failures surface as page-level errors.
func (o *Orchestrator) ScanAndEnhance(ctx context.Context, pageURL string) (*a11y.ScanResult, error) {
	page, err := o.Fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	report, err := o.Engine.Scan(ctx, page)
	if err != nil {
		return nil, err
	}

	violations := o.enhance(ctx, report.Violations)

	return &a11y.ScanResult{
		URL:        pageURL,
		Title:      page.Title,
		Violations: violations,
		Metrics: a11y.ScanMetrics{
			RiskScore:       a11y.RiskScore(violations),
			SeverityCounts:  a11y.CountBySeverity(violations),
			TotalViolations: len(violations),
		},
		ScannedAt:          time.Now().UTC(),
		KeyboardIssues:     report.KeyboardIssues,
		ScreenReaderIssues: report.ScreenReaderIssues,
	}, nil
}

// enhance maps raw violations to domain violations in fixed batches:
// within a batch suggestion generation runs concurrently, batches run
// sequentially, bounding outstanding external calls without serializing
// the whole page.
func (o *Orchestrator) enhance(ctx context.Context, raw []a11y.RawViolation) []*a11y.Violation {
	batchSize := o.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	out := make([]*a11y.Violation, len(raw))
	for start := 0; start < len(raw); start += batchSize {
		end := min(start+batchSize, len(raw))

		g, gctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			g.Go(func() error {
				out[i] = o.enhanceOne(gctx, raw[i])
				return nil
			})
		}
		// Workers never return errors; failures degrade per violation.
		_ = g.Wait()
	}
	return out
}

func (o *Orchestrator) enhanceOne(ctx context.Context, rv a11y.RawViolation) *a11y.Violation {
	v := &a11y.Violation{
		RuleID:      rv.RuleID,
		Description: rv.Description,
		Severity:    a11y.SeverityFromImpact(rv.Impact),
		HelpURL:     rv.HelpURL,
	}
	if len(rv.Nodes) > 0 {
		v.HTMLSnippet = truncate(rv.Nodes[0].HTML, maxSnippetLen)
		v.Selector = strings.Join(rv.Nodes[0].Target, " > ")
	}

	sug := o.Suggestions.GetOrGenerate(ctx, rv)
	v.Suggestion = sug.Text
	if sug.Error != "" {
		o.Logger.Warn("suggestion degraded to fallback",
			"rule", rv.RuleID,
			"err", sug.Error,
		)
	}
	return v
}

// truncate cuts s to at most n characters on a rune boundary, so
// multi-byte HTML never truncates to invalid UTF-8.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
