// Package a11y audits websites for accessibility problems at scale.
// It crawls a site, scans each page for rule violations, enriches
// violations with AI-generated fix suggestions, persists the results as a
// website/page/violation hierarchy, and supports both exact-match and
// semantic retrieval plus a per-domain compliance score.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency or concern (e.g., sqlite/, gemini/,
// crawl/, goquery/).
package a11y
