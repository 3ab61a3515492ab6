// Package index runs the full audit pipeline for one website: page
// discovery, per-page scan and enhancement, embedding, persistence, and
// the final compliance aggregate.
package index

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/mpawlak/a11y"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultMaxDepth bounds the BFS crawl when no depth is configured.
	DefaultMaxDepth = 2

	// DefaultBatchSize is how many pages one batch processes concurrently.
	// Batches execute strictly in sequence.
	DefaultBatchSize = 5
)

// Crawler discovers the pages of a site.
type Crawler interface {
	Crawl(ctx context.Context, startURL string, maxDepth int) ([]a11y.CrawledPage, error)
}

// Scanner produces the enhanced scan result for one page.
type Scanner interface {
	ScanAndEnhance(ctx context.Context, pageURL string) (*a11y.ScanResult, error)
}

// Pipeline indexes a website end to end. Sitemaps is optional; when set,
// sitemap discovery seeds the page list and the crawler is the fallback.
type Pipeline struct {
	Crawler  Crawler
	Scanner  Scanner
	Store    a11y.AuditStore
	Embedder a11y.EmbeddingProvider
	Sitemaps a11y.SitemapService
	Logger   *slog.Logger

	// MaxDepth and BatchSize override the defaults when positive.
	MaxDepth  int
	BatchSize int
}

// NormalizeTarget turns a bare domain or URL into a crawlable https URL.
func NormalizeTarget(target string) (string, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return "", a11y.Errorf(a11y.EINVALID, "index target required")
	}
	if !strings.Contains(target, "://") {
		target = "https://" + target
	}
	u, err := url.Parse(target)
	if err != nil || u.Hostname() == "" {
		return "", a11y.Errorf(a11y.EINVALID, "invalid index target %q", target)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", a11y.Errorf(a11y.EINVALID, "index target must be http(s), got %q", u.Scheme)
	}
	return u.String(), nil
}

// IndexWebsite discovers, scans, and persists every reachable page of the
// target site, then writes the website-level compliance aggregate. A page
// failure is logged and excluded from the aggregate; only discovery
// failures and an unusable target abort the run.
func (p *Pipeline) IndexWebsite(ctx context.Context, target string) (*a11y.IndexResult, error) {
	startURL, err := NormalizeTarget(target)
	if err != nil {
		return nil, err
	}
	domain, err := url.Parse(startURL)
	if err != nil {
		return nil, a11y.Errorf(a11y.EINVALID, "invalid index target %q", target)
	}

	urls, err := p.discover(ctx, startURL)
	if err != nil {
		return nil, err
	}

	riskScores := p.processPages(ctx, domain.Hostname(), urls)

	var meanRisk float64
	for _, r := range riskScores {
		meanRisk += r
	}
	if len(riskScores) > 0 {
		meanRisk /= float64(len(riskScores))
	}
	compliance := a11y.ComplianceScore(meanRisk)

	if _, err := p.Store.UpsertWebsiteScore(ctx, domain.Hostname(), compliance); err != nil {
		return nil, err
	}

	return &a11y.IndexResult{
		Domain:          domain.Hostname(),
		PagesIndexed:    len(riskScores),
		ComplianceScore: compliance,
	}, nil
}

// discover returns the page URLs to audit. With a sitemap service
// configured it tries the sitemap first and falls back to crawling when
// the sitemap yields nothing.
func (p *Pipeline) discover(ctx context.Context, startURL string) ([]string, error) {
	if p.Sitemaps != nil {
		urls, err := p.Sitemaps.DiscoverURLs(ctx, startURL)
		if err != nil {
			p.Logger.Warn("sitemap discovery failed, falling back to crawl",
				"url", startURL,
				"err", err,
			)
		} else if len(urls) > 0 {
			p.Logger.Info("seeded pages from sitemap", "url", startURL, "pages", len(urls))
			return urls, nil
		}
	}

	maxDepth := p.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	pages, err := p.Crawler.Crawl(ctx, startURL, maxDepth)
	if err != nil {
		return nil, err
	}
	urls := make([]string, len(pages))
	for i, page := range pages {
		urls[i] = page.URL
	}
	return urls, nil
}

// processPages audits pages in fixed batches: within a batch each page is
// scanned, embedded, and persisted concurrently; batches run sequentially.
// It returns the risk scores of the pages that made it all the way to the
// store.
func (p *Pipeline) processPages(ctx context.Context, domain string, urls []string) []float64 {
	batchSize := p.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	var mu sync.Mutex
	var riskScores []float64

	for start := 0; start < len(urls); start += batchSize {
		end := min(start+batchSize, len(urls))

		g, gctx := errgroup.WithContext(ctx)
		for _, pageURL := range urls[start:end] {
			g.Go(func() error {
				risk, err := p.processPage(gctx, domain, pageURL)
				if err != nil {
					p.Logger.Warn("page excluded from aggregate",
						"url", pageURL,
						"err", err,
					)
					return nil
				}
				mu.Lock()
				riskScores = append(riskScores, risk)
				mu.Unlock()
				return nil
			})
		}
		// Workers never return errors; failures exclude the page only.
		_ = g.Wait()
	}

	return riskScores
}

func (p *Pipeline) processPage(ctx context.Context, domain, pageURL string) (float64, error) {
	result, err := p.Scanner.ScanAndEnhance(ctx, pageURL)
	if err != nil {
		return 0, err
	}

	for _, v := range result.Violations {
		v.Embedding = p.embedViolation(ctx, v)
	}

	scanData, err := json.Marshal(result)
	if err != nil {
		return 0, err
	}

	_, err = p.Store.SavePageAudit(ctx, &a11y.PageAudit{
		Domain:     domain,
		URL:        pageURL,
		Title:      result.Title,
		RiskScore:  result.Metrics.RiskScore,
		ScanData:   scanData,
		Violations: result.Violations,
	})
	if err != nil {
		return 0, err
	}

	return result.Metrics.RiskScore, nil
}

// embedViolation embeds and compresses the violation description. A
// provider failure yields a nil embedding; the violation stays findable by
// exact match but drops out of semantic search.
func (p *Pipeline) embedViolation(ctx context.Context, v *a11y.Violation) []byte {
	if v.Description == "" {
		return nil
	}
	vec, err := p.Embedder.Embed(ctx, v.Description)
	if err != nil {
		p.Logger.Warn("embedding failed, storing violation without one",
			"rule", v.RuleID,
			"err", err,
		)
		return nil
	}
	return a11y.CompressEmbedding(vec)
}
