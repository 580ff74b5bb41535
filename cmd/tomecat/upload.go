package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tomecat/tomecat"
)

// Run executes the upload command. Conflicts are resolved head-first with
// the strategy given by --resolve.
func (c *UploadCmd) Run(deps *Dependencies) error {
	var files []tomecat.IncomingFile
	for _, path := range c.Paths {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: reading %s: %s\n", path, err)
			return err
		}
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		files = append(files, tomecat.IncomingFile{
			Name:    filepath.Base(path),
			Data:    data,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	inserted, conflicts, err := deps.Resolver.StageUploads(deps.Ctx, files, c.Category)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tomecat.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Added %d items, %d conflicts\n", inserted, conflicts)

	decision := tomecat.DecisionSkip
	switch c.Resolve {
	case "replace":
		decision = tomecat.DecisionReplace
	case "keep-both":
		decision = tomecat.DecisionKeepBoth
	}

	for _, record := range deps.Resolver.Pending() {
		fmt.Fprintf(deps.Stdout, "Conflict: %q vs existing %q -> %s\n",
			record.Incoming.Name, record.Existing.Title, c.Resolve)
		if err := deps.Resolver.Resolve(deps.Ctx, decision); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", tomecat.ErrorMessage(err))
			return err
		}
	}
	return nil
}
