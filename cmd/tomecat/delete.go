package main

import (
	"fmt"

	"github.com/tomecat/tomecat"
)

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return tomecat.Errorf(tomecat.EINVALID, "use --force to confirm deletion")
	}

	item, err := deps.Catalog.FindItemByID(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s. Use 'tomecat list' to see item IDs.\n", tomecat.ErrorMessage(err))
		return err
	}

	if err := deps.Catalog.DeleteItem(deps.Ctx, item.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tomecat.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted %q\n", item.Title)
	return nil
}
