package mock

import (
	"context"

	"github.com/mpawlak/a11y"
)

var _ a11y.AuditStore = (*AuditStore)(nil)

// AuditStore is a mock implementation of a11y.AuditStore.
type AuditStore struct {
	SavePageAuditFn       func(ctx context.Context, audit *a11y.PageAudit) (*a11y.Page, error)
	UpsertWebsiteScoreFn  func(ctx context.Context, domain string, complianceScore float64) (*a11y.Website, error)
	FindWebsiteByDomainFn func(ctx context.Context, domain string) (*a11y.Website, error)
	FindWebsitesFn        func(ctx context.Context, filter a11y.WebsiteFilter) ([]*a11y.Website, error)
	DeleteWebsiteFn       func(ctx context.Context, id string) error
	FindPagesFn           func(ctx context.Context, filter a11y.PageFilter) ([]*a11y.Page, error)
	FindViolationsFn      func(ctx context.Context, filter a11y.ViolationFilter) ([]*a11y.Violation, error)
}

func (s *AuditStore) SavePageAudit(ctx context.Context, audit *a11y.PageAudit) (*a11y.Page, error) {
	return s.SavePageAuditFn(ctx, audit)
}

func (s *AuditStore) UpsertWebsiteScore(ctx context.Context, domain string, complianceScore float64) (*a11y.Website, error) {
	return s.UpsertWebsiteScoreFn(ctx, domain, complianceScore)
}

func (s *AuditStore) FindWebsiteByDomain(ctx context.Context, domain string) (*a11y.Website, error) {
	return s.FindWebsiteByDomainFn(ctx, domain)
}

func (s *AuditStore) FindWebsites(ctx context.Context, filter a11y.WebsiteFilter) ([]*a11y.Website, error) {
	return s.FindWebsitesFn(ctx, filter)
}

func (s *AuditStore) DeleteWebsite(ctx context.Context, id string) error {
	return s.DeleteWebsiteFn(ctx, id)
}

func (s *AuditStore) FindPages(ctx context.Context, filter a11y.PageFilter) ([]*a11y.Page, error) {
	return s.FindPagesFn(ctx, filter)
}

func (s *AuditStore) FindViolations(ctx context.Context, filter a11y.ViolationFilter) ([]*a11y.Violation, error) {
	return s.FindViolationsFn(ctx, filter)
}
