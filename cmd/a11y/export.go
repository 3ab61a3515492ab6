package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/mpawlak/a11y"
	"github.com/mpawlak/a11y/fs"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
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
		fmt.Fprintf(deps.Stderr, "error: website %q has no audited pages. Run 'a11y index %s' first.\n", c.Domain, c.Domain)
		return a11y.Errorf(a11y.ENOTFOUND, "website %q has no audited pages", c.Domain)
	}

	store := fs.NewReportStore(c.Out, website.Domain)

	for _, p := range pages {
		var result *a11y.ScanResult
		if len(p.ScanData) > 0 {
			var r a11y.ScanResult
			if err := json.Unmarshal(p.ScanData, &r); err == nil {
				result = &r
			}
		}
		if err := store.Save(deps.Ctx, p, result); err != nil {
			_ = store.Abort()
			fmt.Fprintf(deps.Stderr, "error writing report for %s: %v\n", p.URL, err)
			return err
		}
	}

	if err := store.SaveSummary(deps.Ctx, website, pages); err != nil {
		_ = store.Abort()
		fmt.Fprintf(deps.Stderr, "error writing summary: %v\n", err)
		return err
	}

	if err := store.Commit(); err != nil {
		_ = store.Abort()
		fmt.Fprintf(deps.Stderr, "error finalizing report: %v\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Exported %d page reports to %s\n", len(pages), filepath.Join(c.Out, website.Domain))
	return nil
}
