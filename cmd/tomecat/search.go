package main

import (
	"fmt"

	"github.com/tomecat/tomecat"
)

// Run executes the search command, streaming results as they arrive.
func (c *SearchCmd) Run(deps *Dependencies) error {
	total := 0
	err := deps.Searcher.SearchAll(deps.Ctx, c.Query, func(event tomecat.SearchEvent) {
		switch event.Type {
		case tomecat.SearchStarted:
			fmt.Fprintf(deps.Stdout, "Searching for %q...\n", c.Query)
		case tomecat.SearchMatches:
			for _, match := range event.Matches {
				total++
				if match.Context == tomecat.ContextWholeDocument {
					fmt.Fprintf(deps.Stdout, "%s: title match\n", match.ItemTitle)
					continue
				}
				fmt.Fprintf(deps.Stdout, "%s p.%d: %s\n", match.ItemTitle, match.Page, match.Context)
			}
		case tomecat.SearchFileCompleted:
			if event.MatchCount > 0 {
				fmt.Fprintf(deps.Stdout, "-- %s: %d matches\n", event.File, event.MatchCount)
			}
		case tomecat.SearchCompleted:
			fmt.Fprintf(deps.Stdout, "Done: %d matches\n", total)
		}
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tomecat.ErrorMessage(err))
		return err
	}
	return nil
}
