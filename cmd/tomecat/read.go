package main

import (
	"fmt"

	"github.com/tomecat/tomecat"
)

// Run executes the read command.
func (c *ReadCmd) Run(deps *Dependencies) error {
	if err := deps.Catalog.ToggleRead(deps.Ctx, c.Series, c.Unit); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tomecat.ErrorMessage(err))
		return err
	}

	read, err := deps.Catalog.IsRead(deps.Ctx, c.Series, c.Unit)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tomecat.ErrorMessage(err))
		return err
	}

	state := "unread"
	if read {
		state = "read"
	}
	if c.Unit != "" {
		fmt.Fprintf(deps.Stdout, "%s/%s is now %s\n", c.Series, c.Unit, state)
		return nil
	}
	fmt.Fprintf(deps.Stdout, "%s is now %s\n", c.Series, state)
	return nil
}
