package main

import (
	"fmt"

	"github.com/mpawlak/a11y"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	results, err := deps.Search.Search(deps.Ctx, c.Query, c.Limit)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", a11y.ErrorMessage(err))
		return err
	}

	if len(results) == 0 {
		fmt.Fprintln(deps.Stdout, "No matching violations found.")
		return nil
	}

	for i, r := range results {
		v := r.Violation
		fmt.Fprintf(deps.Stdout, "%d. [%s] %s (similarity %.2f)\n", i+1, v.Severity, v.RuleID, r.Similarity)
		fmt.Fprintf(deps.Stdout, "   %s\n", v.Description)
		if v.Selector != "" {
			fmt.Fprintf(deps.Stdout, "   at %s\n", v.Selector)
		}
	}

	return nil
}
