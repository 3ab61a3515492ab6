package a11y

import (
	"context"
	"time"
)

// Website represents an audited domain. ComplianceScore is a 0-100 metric
// where higher is better, derived from the mean page risk score.
type Website struct {
	ID              string    `json:"id"`
	Domain          string    `json:"domain"`
	ComplianceScore float64   `json:"complianceScore"`
	LastScanned     time.Time `json:"lastScanned"`
}

// Page represents a single audited page of a website. RiskScore is a 0-100
// metric where higher is worse. ScanData holds the full enhanced scan
// result as JSON.
type Page struct {
	ID          string    `json:"id"`
	WebsiteID   string    `json:"websiteId"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	RiskScore   float64   `json:"riskScore"`
	ScanData    []byte    `json:"scanData,omitempty"`
	LastScanned time.Time `json:"lastScanned"`
}

// Severity classifies how serious a violation is.
type Severity string

// Severity levels, from worst to least severe.
const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityUnknown  Severity = "unknown"
)

// SeverityFromImpact maps an engine-reported impact level to a Severity.
// Unrecognized impacts map to SeverityUnknown.
func SeverityFromImpact(impact string) Severity {
	switch impact {
	case "serious", "critical":
		return SeverityCritical
	case "moderate":
		return SeverityHigh
	case "minor":
		return SeverityMedium
	case "cosmetic":
		return SeverityLow
	default:
		return SeverityUnknown
	}
}

// Violation represents a single detected accessibility rule failure on a
// page. Embedding holds the quantized embedding of the description; it is
// nil when embedding generation failed, in which case the violation is
// still queryable by exact match but excluded from semantic search.
type Violation struct {
	ID          string   `json:"id"`
	PageID      string   `json:"pageId"`
	RuleID      string   `json:"ruleId"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
	HTMLSnippet string   `json:"htmlSnippet,omitempty"`
	Selector    string   `json:"selector,omitempty"`
	HelpURL     string   `json:"helpUrl,omitempty"`
	Suggestion  string   `json:"suggestion,omitempty"`
	Embedding   []byte   `json:"-"`
}

// Validate returns an error if the violation contains invalid fields.
func (v *Violation) Validate() error {
	if v.RuleID == "" {
		return Errorf(EINVALID, "violation rule ID required")
	}
	if v.Severity == "" {
		return Errorf(EINVALID, "violation severity required")
	}
	return nil
}

// PageAudit is the outcome of scanning one page, ready to persist.
// Saving an audit upserts the website and page rows and atomically
// replaces the page's violation set.
type PageAudit struct {
	Domain     string
	URL        string
	Title      string
	RiskScore  float64
	ScanData   []byte
	Violations []*Violation
}

// Validate returns an error if the audit contains invalid fields.
func (a *PageAudit) Validate() error {
	if a.Domain == "" {
		return Errorf(EINVALID, "audit domain required")
	}
	if a.URL == "" {
		return Errorf(EINVALID, "audit page URL required")
	}
	for _, v := range a.Violations {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// IndexResult summarizes a completed indexing run over a domain.
type IndexResult struct {
	Domain          string  `json:"domain"`
	PagesIndexed    int     `json:"pagesIndexed"`
	ComplianceScore float64 `json:"complianceScore"`
}

// WebsiteFilter represents a filter for FindWebsites.
type WebsiteFilter struct {
	Domain *string `json:"domain"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// PageFilter represents a filter for FindPages.
type PageFilter struct {
	WebsiteID *string `json:"websiteId"`
	URL       *string `json:"url"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// ViolationFilter represents a filter for FindViolations.
// RuleID matches exactly, Severity matches case-insensitively, and Domain
// matches as a substring of the owning website's domain.
type ViolationFilter struct {
	RuleID       *string `json:"ruleId"`
	Severity     *string `json:"severity"`
	Domain       *string `json:"domain"`
	HasEmbedding *bool   `json:"hasEmbedding"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// AuditStore persists the website/page/violation hierarchy.
type AuditStore interface {
	// SavePageAudit persists one page's scan outcome inside a single
	// transaction: website upsert (keyed by domain), page upsert (keyed by
	// URL), then delete-and-insert of the page's violations. Any failure
	// rolls the whole sequence back; a reader never observes a partially
	// replaced violation set.
	SavePageAudit(ctx context.Context, audit *PageAudit) (*Page, error)

	// UpsertWebsiteScore writes the aggregate compliance score for a domain,
	// creating the website row if it does not exist.
	UpsertWebsiteScore(ctx context.Context, domain string, complianceScore float64) (*Website, error)

	// FindWebsiteByDomain retrieves a website by its exact domain.
	// Returns ENOTFOUND if the website does not exist.
	FindWebsiteByDomain(ctx context.Context, domain string) (*Website, error)

	// FindWebsites retrieves websites matching the filter.
	FindWebsites(ctx context.Context, filter WebsiteFilter) ([]*Website, error)

	// DeleteWebsite permanently removes a website and, by cascade, all of
	// its pages and violations. Returns ENOTFOUND if the website does not
	// exist.
	DeleteWebsite(ctx context.Context, id string) error

	// FindPages retrieves pages matching the filter.
	FindPages(ctx context.Context, filter PageFilter) ([]*Page, error)

	// FindViolations retrieves violations matching the filter.
	FindViolations(ctx context.Context, filter ViolationFilter) ([]*Violation, error)
}
