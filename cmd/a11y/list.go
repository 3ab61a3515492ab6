package main

import (
	"fmt"

	"github.com/mpawlak/a11y"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	websites, err := deps.Store.FindWebsites(deps.Ctx, a11y.WebsiteFilter{})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", a11y.ErrorMessage(err))
		return err
	}

	if len(websites) == 0 {
		fmt.Fprintln(deps.Stdout, "No websites found. Use 'a11y index' to audit one.")
		return nil
	}

	for _, w := range websites {
		fmt.Fprintf(deps.Stdout, "%s  %s  score=%.1f  scanned=%s\n",
			w.ID, w.Domain, w.ComplianceScore, w.LastScanned.Format("2006-01-02 15:04"))
	}

	return nil
}
