package scan

import (
	"fmt"
	"strings"

	"github.com/mpawlak/a11y"
)

// Required section headers of a well-formed suggestion reply.
var requiredSections = []string{
	"Explanation:",
	"Fixed HTML:",
	"Steps:",
	"WCAG Reference:",
}

// ruleGuidance carries rule-specific context prepended to the prompt for
// known rule IDs. Unknown rules fall back to the generic prompt alone.
var ruleGuidance = map[string]string{
	"image-alt":      "The image lacks a text alternative. Propose concise, descriptive alt text, or alt=\"\" with role=\"presentation\" if the image is decorative.",
	"label":          "The form control has no accessible name. Associate a visible <label> via the for attribute, or use aria-label/aria-labelledby where a visible label is not feasible.",
	"link-name":      "The link has no discernible text. Add link text that describes the destination; icon-only links need an aria-label.",
	"button-name":    "The button has no accessible name. Add visible text content or an aria-label.",
	"color-contrast": "The text contrast ratio is below the WCAG AA minimum (4.5:1 for normal text, 3:1 for large text). Suggest compliant foreground/background colors close to the original design.",
	"html-has-lang":  "The document is missing a lang attribute on <html>. Determine the primary language of the page content and declare it.",
	"document-title": "The document has no title. Propose a short, unique title describing the page's purpose.",
	"frame-title":    "The frame has no title attribute. Give it a title describing the embedded content.",
	"heading-order":  "Heading levels skip. Restructure the headings so levels increase by at most one.",
	"meta-viewport":  "The viewport meta tag disables zooming. Remove user-scalable=no and any maximum-scale below 2.",
	"tabindex":       "A positive tabindex overrides the natural tab order. Remove it or replace it with tabindex=\"0\" and fix the DOM order instead.",
}

// BuildPrompt constructs the suggestion prompt for a violation: templated
// for known rule IDs, generic otherwise.
func BuildPrompt(rv a11y.RawViolation) string {
	var sb strings.Builder

	sb.WriteString("You are a web accessibility expert. A page failed the following accessibility rule.\n\n")
	fmt.Fprintf(&sb, "Rule: %s\n", rv.RuleID)
	if rv.Impact != "" {
		fmt.Fprintf(&sb, "Impact: %s\n", rv.Impact)
	}
	if rv.Description != "" {
		fmt.Fprintf(&sb, "Description: %s\n", rv.Description)
	}
	if rv.HelpURL != "" {
		fmt.Fprintf(&sb, "Reference: %s\n", rv.HelpURL)
	}
	if len(rv.Nodes) > 0 && rv.Nodes[0].HTML != "" {
		fmt.Fprintf(&sb, "\nAffected element:\n```html\n%s\n```\n", truncate(rv.Nodes[0].HTML, maxSnippetLen))
	}
	if guidance, ok := ruleGuidance[rv.RuleID]; ok {
		fmt.Fprintf(&sb, "\nContext: %s\n", guidance)
	}

	sb.WriteString("\nProvide a fix suggestion with exactly these four sections:\n")
	for _, section := range requiredSections {
		fmt.Fprintf(&sb, "%s ...\n", section)
	}
	sb.WriteString("\nKeep the fixed HTML minimal: change only what the fix requires.")

	return sb.String()
}

// ValidateSuggestion checks that a suggestion reply contains all four
// required sections. Callers treat a mismatch as log-only; the text is
// still used.
func ValidateSuggestion(text string) error {
	lower := strings.ToLower(text)
	var missing []string
	for _, section := range requiredSections {
		if !strings.Contains(lower, strings.ToLower(section)) {
			missing = append(missing, strings.TrimSuffix(section, ":"))
		}
	}
	if len(missing) > 0 {
		return a11y.Errorf(a11y.EINVALID, "suggestion reply missing sections: %s", strings.Join(missing, ", "))
	}
	return nil
}
