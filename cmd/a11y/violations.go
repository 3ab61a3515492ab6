package main

import (
	"fmt"

	"github.com/mpawlak/a11y"
)

// Run executes the violations command.
func (c *ViolationsCmd) Run(deps *Dependencies) error {
	filter := a11y.ViolationFilter{Limit: c.Limit}
	if c.Rule != "" {
		filter.RuleID = &c.Rule
	}
	if c.Severity != "" {
		filter.Severity = &c.Severity
	}
	if c.Domain != "" {
		filter.Domain = &c.Domain
	}

	violations, err := deps.Store.FindViolations(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", a11y.ErrorMessage(err))
		return err
	}

	if len(violations) == 0 {
		fmt.Fprintln(deps.Stdout, "No violations found. Use 'a11y index' to audit a website.")
		return nil
	}

	for _, v := range violations {
		fmt.Fprintf(deps.Stdout, "[%s] %s  %s\n", v.Severity, v.RuleID, v.Description)
		if v.Selector != "" {
			fmt.Fprintf(deps.Stdout, "   at %s\n", v.Selector)
		}
		if v.Suggestion != "" {
			fmt.Fprintf(deps.Stdout, "   suggestion: %s\n", firstLine(v.Suggestion))
		}
	}

	return nil
}

// firstLine truncates a multi-line suggestion to its first line for listing.
func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
