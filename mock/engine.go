package mock

import (
	"context"

	"github.com/mpawlak/a11y"
)

var _ a11y.AccessibilityEngine = (*AccessibilityEngine)(nil)

// AccessibilityEngine is a mock implementation of a11y.AccessibilityEngine.
type AccessibilityEngine struct {
	ScanFn func(ctx context.Context, page *a11y.RenderedPage) (*a11y.ScanReport, error)
}

func (e *AccessibilityEngine) Scan(ctx context.Context, page *a11y.RenderedPage) (*a11y.ScanReport, error) {
	return e.ScanFn(ctx, page)
}
