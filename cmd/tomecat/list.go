package main

import (
	"fmt"

	"github.com/tomecat/tomecat"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	if c.Kind != "" {
		kind := tomecat.Kind(c.Kind)
		items, err := deps.Catalog.FindItems(deps.Ctx, tomecat.ItemFilter{Kind: &kind})
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", tomecat.ErrorMessage(err))
			return err
		}
		for _, item := range items {
			printItem(deps, item)
		}
		return nil
	}

	groups, err := deps.Catalog.ItemsByCategory(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tomecat.ErrorMessage(err))
		return err
	}

	empty := true
	for _, group := range groups {
		if len(group.Items) == 0 {
			continue
		}
		empty = false
		fmt.Fprintf(deps.Stdout, "%s\n", group.Name)
		for _, item := range group.Items {
			printItem(deps, item)
		}
	}
	if empty {
		fmt.Fprintln(deps.Stdout, "Catalog is empty. Use 'tomecat upload' or 'tomecat remote' to add items.")
	}
	return nil
}

func printItem(deps *Dependencies, item *tomecat.Item) {
	status := " "
	switch {
	case item.Downloading:
		status = fmt.Sprintf("%d%%", item.DownloadProgress)
	case item.Downloaded:
		status = "✓"
	}
	fmt.Fprintf(deps.Stdout, "  %s  [%s]  %s (%s)\n", item.ID, status, item.Title, item.Kind)
}
