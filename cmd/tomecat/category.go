package main

import (
	"fmt"
	"strings"

	"github.com/tomecat/tomecat"
)

// Run executes the "category add" command.
func (c *CategoryAddCmd) Run(deps *Dependencies) error {
	if err := deps.Catalog.AddCategory(deps.Ctx, c.Name); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tomecat.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Added category %q\n", c.Name)
	return nil
}

// Run executes the "category rename" command.
func (c *CategoryRenameCmd) Run(deps *Dependencies) error {
	if err := deps.Catalog.RenameCategory(deps.Ctx, c.OldName, c.NewName); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tomecat.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Renamed category %q to %q\n", c.OldName, c.NewName)
	return nil
}

// Run executes the "category delete" command.
func (c *CategoryDeleteCmd) Run(deps *Dependencies) error {
	if err := deps.Catalog.DeleteCategory(deps.Ctx, c.Name); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tomecat.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Deleted category %q; its items moved to %s\n", c.Name, tomecat.CategoryUnlisted)
	return nil
}

// Run executes the "category move" command.
func (c *CategoryMoveCmd) Run(deps *Dependencies) error {
	if err := deps.Catalog.MoveCategory(deps.Ctx, c.Name, c.Delta); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tomecat.ErrorMessage(err))
		return err
	}

	names, err := deps.Catalog.Categories(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tomecat.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Categories: %s\n", strings.Join(names, ", "))
	return nil
}
