package a11y

import (
	"context"
	"time"
)

// ViolationNode identifies one affected element within a violation.
// Target holds the selector segments locating the element; nested frame
// segments are joined with " > " during enhancement.
type ViolationNode struct {
	HTML   string   `json:"html"`
	Target []string `json:"target"`
}

// RawViolation is a rule failure as reported by an AccessibilityEngine,
// before enhancement.
type RawViolation struct {
	RuleID      string          `json:"id"`
	Impact      string          `json:"impact"`
	Description string          `json:"description"`
	HelpURL     string          `json:"helpUrl"`
	Tags        []string        `json:"tags,omitempty"`
	Nodes       []ViolationNode `json:"nodes"`
}

// ProbeIssue is a finding from a supplementary keyboard or screen-reader
// probe. Probes are bounded heuristic walks; their findings are carried
// through the pipeline opaquely and do not contribute to the risk score.
type ProbeIssue struct {
	Kind     string `json:"kind"`
	Selector string `json:"selector,omitempty"`
	Message  string `json:"message"`
}

// ScanReport is the raw output of an accessibility engine scan.
type ScanReport struct {
	Violations         []RawViolation `json:"violations"`
	Incomplete         []RawViolation `json:"incomplete,omitempty"`
	Inapplicable       []string       `json:"inapplicable,omitempty"`
	KeyboardIssues     []ProbeIssue   `json:"keyboardIssues,omitempty"`
	ScreenReaderIssues []ProbeIssue   `json:"screenReaderIssues,omitempty"`
}

// AccessibilityEngine scans a rendered page for rule violations.
// Implementations are pluggable capability providers selected by
// configuration; the pipeline core never branches on engine type.
type AccessibilityEngine interface {
	Scan(ctx context.Context, page *RenderedPage) (*ScanReport, error)
}

// ScanMetrics aggregates the enhanced violation set of one page.
type ScanMetrics struct {
	RiskScore       float64          `json:"riskScore"`
	SeverityCounts  map[Severity]int `json:"severityCounts"`
	TotalViolations int              `json:"totalViolations"`
}

// ScanResult is the enhanced outcome of scanning one page.
type ScanResult struct {
	URL                string       `json:"url"`
	Title              string       `json:"title"`
	Violations         []*Violation `json:"violations"`
	Metrics            ScanMetrics  `json:"metrics"`
	ScannedAt          time.Time    `json:"scannedAt"`
	KeyboardIssues     []ProbeIssue `json:"keyboardIssues,omitempty"`
	ScreenReaderIssues []ProbeIssue `json:"screenReaderIssues,omitempty"`
}
