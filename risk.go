package a11y

import "math"

// severityWeights drive the page risk score. The critical weight doubles as
// the normalizer so that an all-critical violation set scores exactly 100.
var severityWeights = map[Severity]int{
	SeverityCritical: 10,
	SeverityHigh:     6,
	SeverityMedium:   3,
	SeverityLow:      1,
	SeverityUnknown:  1,
}

// SeverityWeight returns the risk weight for a severity level.
// Unrecognized severities weigh the same as SeverityUnknown.
func SeverityWeight(s Severity) int {
	if w, ok := severityWeights[s]; ok {
		return w
	}
	return severityWeights[SeverityUnknown]
}

// RiskScore computes the 0-100 severity-weighted risk score of a violation
// set. An empty set scores 0; an all-critical set scores 100. The score is
// monotonic non-decreasing as violations are added.
func RiskScore(violations []*Violation) float64 {
	if len(violations) == 0 {
		return 0
	}
	var raw int
	for _, v := range violations {
		raw += SeverityWeight(v.Severity)
	}
	normalizer := float64(len(violations) * severityWeights[SeverityCritical])
	score := math.Round(float64(raw) / normalizer * 100)
	return math.Min(score, 100)
}

// ComplianceScore derives the 0-100 website metric from the mean page risk
// score. Higher is better. A mean of 0 (including the zero-pages case)
// yields 100: no evidence of issues, which is not the same as verified
// clean.
func ComplianceScore(meanPageRisk float64) float64 {
	return 100 - math.Min(meanPageRisk, 100)
}

// CountBySeverity buckets a violation set by severity level.
func CountBySeverity(violations []*Violation) map[Severity]int {
	counts := make(map[Severity]int)
	for _, v := range violations {
		counts[v.Severity]++
	}
	return counts
}
