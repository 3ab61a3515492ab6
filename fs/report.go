// Package fs writes audit reports as markdown files.
package fs

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/mpawlak/a11y"
)

// URLToPath converts a page URL to a relative report file path.
// Example: https://example.com/shop/cart → shop/cart.md
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	path := u.Path

	// Handle root or trailing slash → index.md
	if path == "" || path == "/" {
		return "index.md", nil
	}

	// Remove leading slash
	path = strings.TrimPrefix(path, "/")

	// Trailing slash becomes index.md in that directory
	if strings.HasSuffix(path, "/") {
		return path + "index.md", nil
	}

	// Otherwise append .md
	return path + ".md", nil
}

// ReportStore writes per-page audit reports with atomic update semantics.
// Reports are saved to a temporary directory, then moved into place on
// Commit, so an interrupted export never leaves a partial report tree.
type ReportStore struct {
	baseDir string
	name    string
}

// NewReportStore creates a new ReportStore.
// baseDir is the parent directory, name is the output directory name.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewReportStore(baseDir, name string) *ReportStore {
	return &ReportStore{
		baseDir: baseDir,
		name:    name,
	}
}

func (s *ReportStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *ReportStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// Save writes one page's audit report. The scan result may be nil when a
// stored page carries no scan data; the report then holds the frontmatter
// only.
func (s *ReportStore) Save(ctx context.Context, page *a11y.Page, result *a11y.ScanResult) error {
	relPath, err := URLToPath(page.URL)
	if err != nil {
		return err
	}

	fullPath := filepath.Join(s.tempDir(), relPath)

	// Create parent directories
	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	content := FormatPageReport(page, result)
	return os.WriteFile(fullPath, []byte(content), 0644)
}

// SaveSummary writes the site-level summary report to _summary.md.
func (s *ReportStore) SaveSummary(ctx context.Context, website *a11y.Website, pages []*a11y.Page) error {
	if err := os.MkdirAll(s.tempDir(), 0755); err != nil {
		return err
	}

	content := FormatSummary(website, pages)
	return os.WriteFile(filepath.Join(s.tempDir(), "_summary.md"), []byte(content), 0644)
}

// Commit atomically replaces the final report directory with the staged one.
func (s *ReportStore) Commit() error {
	// Remove existing final directory if present
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}

	// Atomically rename temp to final
	if err := os.Rename(s.tempDir(), s.finalDir()); err != nil {
		return err
	}

	return nil
}

// Abort discards the staged report directory.
func (s *ReportStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}

// FormatPageReport formats a page audit as markdown with YAML frontmatter.
func FormatPageReport(page *a11y.Page, result *a11y.ScanResult) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("source: ")
	b.WriteString(page.URL)
	b.WriteString("\ntitle: ")
	b.WriteString(page.Title)
	fmt.Fprintf(&b, "\nrisk: %.0f", page.RiskScore)
	b.WriteString("\nscanned: ")
	b.WriteString(page.LastScanned.Format("2006-01-02"))
	b.WriteString("\n---\n")

	if result == nil || len(result.Violations) == 0 {
		b.WriteString("\nNo violations recorded.\n")
		return b.String()
	}

	for _, v := range result.Violations {
		fmt.Fprintf(&b, "\n## [%s] %s\n\n", v.Severity, v.RuleID)
		b.WriteString(v.Description)
		b.WriteString("\n")
		if v.Selector != "" {
			fmt.Fprintf(&b, "\nSelector: `%s`\n", v.Selector)
		}
		if v.HTMLSnippet != "" {
			fmt.Fprintf(&b, "\n```html\n%s\n```\n", v.HTMLSnippet)
		}
		if v.Suggestion != "" {
			b.WriteString("\n")
			b.WriteString(v.Suggestion)
			b.WriteString("\n")
		}
	}

	return b.String()
}

// FormatSummary formats the site-level summary as markdown.
func FormatSummary(website *a11y.Website, pages []*a11y.Page) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Accessibility audit: %s\n\n", website.Domain)
	fmt.Fprintf(&b, "Compliance score: %.1f/100\n\n", website.ComplianceScore)
	fmt.Fprintf(&b, "Pages audited: %d\n", len(pages))

	for _, p := range pages {
		title := p.Title
		if title == "" {
			title = p.URL
		}
		fmt.Fprintf(&b, "\n- %s (risk %.0f)\n  %s", title, p.RiskScore, p.URL)
	}
	b.WriteString("\n")

	return b.String()
}
