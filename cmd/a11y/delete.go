package main

import (
	"fmt"

	"github.com/mpawlak/a11y"
)

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return a11y.Errorf(a11y.EINVALID, "use --force to confirm deletion")
	}

	website, err := deps.Store.FindWebsiteByDomain(deps.Ctx, c.Domain)
	if err != nil {
		if a11y.ErrorCode(err) == a11y.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: website %q not found. Use 'a11y list' to see audited websites.\n", c.Domain)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", a11y.ErrorMessage(err))
		}
		return err
	}

	if err := deps.Store.DeleteWebsite(deps.Ctx, website.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", a11y.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted website %q and its audit data\n", website.Domain)
	return nil
}
