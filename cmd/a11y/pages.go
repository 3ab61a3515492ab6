package main

import (
	"fmt"

	"github.com/mpawlak/a11y"
)

// Run executes the pages command.
func (c *PagesCmd) Run(deps *Dependencies) error {
	website, err := deps.Store.FindWebsiteByDomain(deps.Ctx, c.Domain)
	if err != nil {
		if a11y.ErrorCode(err) == a11y.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: website %q not found. Use 'a11y list' to see audited websites.\n", c.Domain)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", a11y.ErrorMessage(err))
		}
		return err
	}

	pages, err := deps.Store.FindPages(deps.Ctx, a11y.PageFilter{WebsiteID: &website.ID})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", a11y.ErrorMessage(err))
		return err
	}

	if len(pages) == 0 {
		fmt.Fprintf(deps.Stdout, "No pages recorded for %s.\n", c.Domain)
		return nil
	}

	fmt.Fprintf(deps.Stdout, "Pages for %s (%d total):\n\n", c.Domain, len(pages))
	for i, p := range pages {
		title := p.Title
		if title == "" {
			title = p.URL
		}
		fmt.Fprintf(deps.Stdout, "  %d. %s (risk %.0f)\n     %s\n", i+1, title, p.RiskScore, p.URL)
	}

	return nil
}
