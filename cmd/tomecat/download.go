package main

import (
	"fmt"

	"github.com/tomecat/tomecat"
)

// Run executes the download command.
func (c *DownloadCmd) Run(deps *Dependencies) error {
	item, err := deps.Catalog.FindItemByID(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s. Use 'tomecat list' to see item IDs.\n", tomecat.ErrorMessage(err))
		return err
	}

	// Progress updates arrive through catalog notifications.
	unsubscribe := deps.Catalog.Subscribe(func(change tomecat.Change) {
		if change.Op != tomecat.ChangeItemUpserted || change.ItemID != item.ID {
			return
		}
		updated, err := deps.Catalog.FindItemByID(deps.Ctx, item.ID)
		if err != nil {
			return
		}
		if updated.Downloading {
			fmt.Fprintf(deps.Stdout, "\r%s: %d%%", updated.Title, updated.DownloadProgress)
		}
	})
	defer unsubscribe()

	if err := deps.Acquirer.Acquire(deps.Ctx, item, c.Unit); err != nil {
		fmt.Fprintf(deps.Stdout, "\n")
		fmt.Fprintf(deps.Stderr, "error: %s\n", tomecat.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "\rDownloaded %q\n", item.Title)
	return nil
}
