package main_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/mpawlak/a11y"
	main "github.com/mpawlak/a11y/cmd/a11y"
	"github.com/mpawlak/a11y/index"
	"github.com/mpawlak/a11y/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCrawler struct {
	pages []a11y.CrawledPage
}

func (c *stubCrawler) Crawl(_ context.Context, _ string, _ int) ([]a11y.CrawledPage, error) {
	return c.pages, nil
}

type stubScanner struct {
	result *a11y.ScanResult
}

func (s *stubScanner) ScanAndEnhance(_ context.Context, pageURL string) (*a11y.ScanResult, error) {
	r := *s.result
	r.URL = pageURL
	return &r, nil
}

type stubEmbedder struct{}

func (e *stubEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return []float32{0.1, 0.2, 0.3}, nil
}

func TestIndexCmd_Run(t *testing.T) {
	t.Parallel()

	store := &mock.AuditStore{
		SavePageAuditFn: func(_ context.Context, audit *a11y.PageAudit) (*a11y.Page, error) {
			return &a11y.Page{ID: "page-1", URL: audit.URL}, nil
		},
		UpsertWebsiteScoreFn: func(_ context.Context, domain string, score float64) (*a11y.Website, error) {
			return &a11y.Website{ID: "site-1", Domain: domain, ComplianceScore: score}, nil
		},
	}

	pipeline := &index.Pipeline{
		Crawler: &stubCrawler{pages: []a11y.CrawledPage{
			{URL: "https://example.com/", Title: "Home"},
		}},
		Scanner: &stubScanner{result: &a11y.ScanResult{
			Title:     "Home",
			ScannedAt: time.Now(),
			Metrics:   a11y.ScanMetrics{RiskScore: 20},
		}},
		Store:    store,
		Embedder: &stubEmbedder{},
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	stdout := &bytes.Buffer{}

	deps := &main.Dependencies{
		Ctx:     context.Background(),
		Stdout:  stdout,
		Stderr:  &bytes.Buffer{},
		Store:   store,
		Indexer: pipeline,
	}

	cmd := &main.IndexCmd{Target: "example.com", Depth: 2, Concurrency: 5}

	err := cmd.Run(deps)

	require.NoError(t, err)
	output := stdout.String()
	assert.Contains(t, output, "Auditing example.com")
	assert.Contains(t, output, "Indexed 1 pages for example.com")
	assert.Contains(t, output, "Compliance score: 80.0/100")
}
