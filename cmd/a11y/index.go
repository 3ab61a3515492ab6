package main

import (
	"fmt"

	"github.com/mpawlak/a11y"
)

// Run executes the index command.
func (c *IndexCmd) Run(deps *Dependencies) error {
	fmt.Fprintf(deps.Stdout, "Auditing %s\n", c.Target)

	result, err := deps.Indexer.IndexWebsite(deps.Ctx, c.Target)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", a11y.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Indexed %d pages for %s\n", result.PagesIndexed, result.Domain)
	fmt.Fprintf(deps.Stdout, "Compliance score: %.1f/100\n", result.ComplianceScore)
	return nil
}
