package main

import (
	"fmt"

	"github.com/tomecat/tomecat"
)

// Run executes the remote command.
func (c *RemoteCmd) Run(deps *Dependencies) error {
	if len(c.OPDS) == 0 && len(c.Scrape) == 0 {
		fmt.Fprintf(deps.Stderr, "error: configure at least one source with --opds or --scrape\n")
		return tomecat.Errorf(tomecat.EINVALID, "no remote sources configured")
	}

	records, err := deps.Remote.Search(deps.Ctx, c.Query)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tomecat.ErrorMessage(err))
		return err
	}

	if len(records) == 0 {
		fmt.Fprintln(deps.Stdout, "No results.")
		return nil
	}

	for _, record := range records {
		author := record.Author
		if author == "" {
			author = "unknown"
		}
		fmt.Fprintf(deps.Stdout, "%s  %s by %s  %s\n", record.Source, record.Title, author, record.URL)
	}
	return nil
}
