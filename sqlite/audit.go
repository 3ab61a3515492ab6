package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mpawlak/a11y"
)

// Compile-time interface verification.
var _ a11y.AuditStore = (*AuditService)(nil)

// AuditService implements a11y.AuditStore using SQLite.
type AuditService struct {
	db *DB
}

// NewAuditService creates a new AuditService.
func NewAuditService(db *DB) *AuditService {
	return &AuditService{db: db}
}

// SavePageAudit persists one page's scan outcome in a single transaction:
// the website row is upserted by domain, the page row by URL, and the
// page's violations are deleted and re-inserted. Any failure rolls the
// whole sequence back.
func (s *AuditService) SavePageAudit(ctx context.Context, audit *a11y.PageAudit) (*a11y.Page, error) {
	if err := audit.Validate(); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	now := time.Now().UTC()

	var websiteID string
	err = tx.QueryRowContext(ctx, `
		INSERT INTO websites (id, domain, compliance_score, last_scanned)
		VALUES (?, ?, 0, ?)
		ON CONFLICT(domain) DO UPDATE SET last_scanned = excluded.last_scanned
		RETURNING id
	`, uuid.New().String(), audit.Domain, now.Format(time.RFC3339)).Scan(&websiteID)
	if err != nil {
		return nil, err
	}

	page := &a11y.Page{
		WebsiteID:   websiteID,
		URL:         audit.URL,
		Title:       audit.Title,
		RiskScore:   audit.RiskScore,
		ScanData:    audit.ScanData,
		LastScanned: now,
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO pages (id, website_id, url, title, risk_score, scan_data, last_scanned)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			website_id = excluded.website_id,
			title = excluded.title,
			risk_score = excluded.risk_score,
			scan_data = excluded.scan_data,
			last_scanned = excluded.last_scanned
		RETURNING id
	`, uuid.New().String(), websiteID, page.URL, page.Title, page.RiskScore,
		page.ScanData, now.Format(time.RFC3339)).Scan(&page.ID)
	if err != nil {
		return nil, err
	}

	// Replace the page's violation set wholesale; a re-scan must not leave
	// stale rows from the previous run.
	if _, err := tx.ExecContext(ctx, "DELETE FROM violations WHERE page_id = ?", page.ID); err != nil {
		return nil, err
	}

	// IDs go into locals first; the caller's violations are only mutated
	// after commit, so a rolled-back save has no observable side effect.
	violationIDs := make([]string, len(audit.Violations))
	for i, v := range audit.Violations {
		violationIDs[i] = uuid.New().String()
		_, err := tx.ExecContext(ctx, `
			INSERT INTO violations (id, page_id, rule_id, description, severity, html_snippet, selector, help_url, suggestion, embedding)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, violationIDs[i], page.ID, v.RuleID, v.Description, string(v.Severity),
			v.HTMLSnippet, v.Selector, v.HelpURL, v.Suggestion, v.Embedding)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	for i, v := range audit.Violations {
		v.ID = violationIDs[i]
		v.PageID = page.ID
	}

	return page, nil
}

// UpsertWebsiteScore writes the aggregate compliance score for a domain,
// creating the website row if it does not exist.
func (s *AuditService) UpsertWebsiteScore(ctx context.Context, domain string, complianceScore float64) (*a11y.Website, error) {
	if domain == "" {
		return nil, a11y.Errorf(a11y.EINVALID, "website domain required")
	}

	now := time.Now().UTC()
	website := &a11y.Website{
		Domain:          domain,
		ComplianceScore: complianceScore,
		LastScanned:     now,
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO websites (id, domain, compliance_score, last_scanned)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(domain) DO UPDATE SET
			compliance_score = excluded.compliance_score,
			last_scanned = excluded.last_scanned
		RETURNING id
	`, uuid.New().String(), domain, complianceScore, now.Format(time.RFC3339)).Scan(&website.ID)
	if err != nil {
		return nil, err
	}

	return website, nil
}

// FindWebsiteByDomain retrieves a website by its exact domain.
func (s *AuditService) FindWebsiteByDomain(ctx context.Context, domain string) (*a11y.Website, error) {
	var website a11y.Website
	var lastScanned string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, domain, compliance_score, last_scanned
		FROM websites
		WHERE domain = ?
	`, domain).Scan(&website.ID, &website.Domain, &website.ComplianceScore, &lastScanned)

	if err == sql.ErrNoRows {
		return nil, a11y.Errorf(a11y.ENOTFOUND, "website not found")
	}
	if err != nil {
		return nil, err
	}

	website.LastScanned, err = parseRFC3339(lastScanned, "last_scanned")
	if err != nil {
		return nil, err
	}

	return &website, nil
}

// FindWebsites retrieves websites matching the filter.
func (s *AuditService) FindWebsites(ctx context.Context, filter a11y.WebsiteFilter) ([]*a11y.Website, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, domain, compliance_score, last_scanned FROM websites WHERE 1=1")

	if filter.Domain != nil {
		query.WriteString(" AND domain = ?")
		args = append(args, *filter.Domain)
	}

	query.WriteString(" ORDER BY domain ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var websites []*a11y.Website
	for rows.Next() {
		var website a11y.Website
		var lastScanned string

		if err := rows.Scan(&website.ID, &website.Domain, &website.ComplianceScore, &lastScanned); err != nil {
			return nil, err
		}

		website.LastScanned, err = parseRFC3339(lastScanned, "last_scanned")
		if err != nil {
			return nil, err
		}

		websites = append(websites, &website)
	}

	return websites, rows.Err()
}

// DeleteWebsite permanently removes a website. Pages and violations go
// with it via foreign key cascade.
func (s *AuditService) DeleteWebsite(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM websites WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return a11y.Errorf(a11y.ENOTFOUND, "website not found")
	}

	return nil
}

// FindPages retrieves pages matching the filter.
func (s *AuditService) FindPages(ctx context.Context, filter a11y.PageFilter) ([]*a11y.Page, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, website_id, url, title, risk_score, scan_data, last_scanned FROM pages WHERE 1=1")

	if filter.WebsiteID != nil {
		query.WriteString(" AND website_id = ?")
		args = append(args, *filter.WebsiteID)
	}
	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}

	query.WriteString(" ORDER BY url ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []*a11y.Page
	for rows.Next() {
		var page a11y.Page
		var lastScanned string

		if err := rows.Scan(&page.ID, &page.WebsiteID, &page.URL, &page.Title,
			&page.RiskScore, &page.ScanData, &lastScanned); err != nil {
			return nil, err
		}

		page.LastScanned, err = parseRFC3339(lastScanned, "last_scanned")
		if err != nil {
			return nil, err
		}

		pages = append(pages, &page)
	}

	return pages, rows.Err()
}

// FindViolations retrieves violations matching the filter. RuleID matches
// exactly, Severity case-insensitively, and Domain as a substring of the
// owning website's domain. Results come back in insertion order.
func (s *AuditService) FindViolations(ctx context.Context, filter a11y.ViolationFilter) ([]*a11y.Violation, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`
		SELECT v.id, v.page_id, v.rule_id, v.description, v.severity, v.html_snippet, v.selector, v.help_url, v.suggestion, v.embedding
		FROM violations v
		JOIN pages p ON p.id = v.page_id
		JOIN websites w ON w.id = p.website_id
		WHERE 1=1`)

	if filter.RuleID != nil {
		query.WriteString(" AND v.rule_id = ?")
		args = append(args, *filter.RuleID)
	}
	if filter.Severity != nil {
		query.WriteString(" AND v.severity = LOWER(?)")
		args = append(args, *filter.Severity)
	}
	if filter.Domain != nil {
		query.WriteString(" AND INSTR(w.domain, ?) > 0")
		args = append(args, *filter.Domain)
	}
	if filter.HasEmbedding != nil {
		if *filter.HasEmbedding {
			query.WriteString(" AND v.embedding IS NOT NULL")
		} else {
			query.WriteString(" AND v.embedding IS NULL")
		}
	}

	query.WriteString(" ORDER BY v.rowid ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var violations []*a11y.Violation
	for rows.Next() {
		var v a11y.Violation
		var severity string

		if err := rows.Scan(&v.ID, &v.PageID, &v.RuleID, &v.Description, &severity,
			&v.HTMLSnippet, &v.Selector, &v.HelpURL, &v.Suggestion, &v.Embedding); err != nil {
			return nil, err
		}
		v.Severity = a11y.Severity(severity)

		violations = append(violations, &v)
	}

	return violations, rows.Err()
}
