package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/tomecat/tomecat"
	"github.com/tomecat/tomecat/conflict"
	"github.com/tomecat/tomecat/goquery"
	"github.com/tomecat/tomecat/opds"
	"github.com/tomecat/tomecat/remote"
	tomecatslog "github.com/tomecat/tomecat/slog"
	"github.com/tomecat/tomecat/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	DB       *sqlite.DB
	Blobs    tomecat.BlobStore
	Catalog  tomecat.CatalogService
	Searcher tomecat.Searcher
	Acquirer tomecat.Acquirer
	Resolver *conflict.Resolver
	Remote   tomecat.RemoteSource
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	List     ListCmd     `cmd:"" help:"List catalog items grouped by category"`
	Category CategoryCmd `cmd:"" help:"Manage categories"`
	Download DownloadCmd `cmd:"" help:"Download an item's content"`
	Search   SearchCmd   `cmd:"" help:"Search titles and full text across the catalog"`
	Remote   RemoteCmd   `cmd:"" help:"Search configured remote sources"`
	Upload   UploadCmd   `cmd:"" help:"Add local files to the catalog"`
	Read     ReadCmd     `cmd:"" help:"Toggle the read marker for an item or chapter"`
	Delete   DeleteCmd   `cmd:"" help:"Delete a catalog item"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Kind string `short:"k" help:"Filter by kind (document, comic, audio, web)"`
}

// CategoryCmd groups the category management subcommands.
type CategoryCmd struct {
	Add    CategoryAddCmd    `cmd:"" help:"Add a category"`
	Rename CategoryRenameCmd `cmd:"" help:"Rename a category"`
	Delete CategoryDeleteCmd `cmd:"" help:"Delete a category (items are kept)"`
	Move   CategoryMoveCmd   `cmd:"" help:"Move a category up or down the list"`
}

// CategoryAddCmd is the "category add" subcommand.
type CategoryAddCmd struct {
	Name string `arg:"" help:"Category name"`
}

// CategoryRenameCmd is the "category rename" subcommand.
type CategoryRenameCmd struct {
	OldName string `arg:"" help:"Current name"`
	NewName string `arg:"" help:"New name"`
}

// CategoryDeleteCmd is the "category delete" subcommand.
type CategoryDeleteCmd struct {
	Name string `arg:"" help:"Category name"`
}

// CategoryMoveCmd is the "category move" subcommand.
type CategoryMoveCmd struct {
	Name  string `arg:"" help:"Category name"`
	Delta int    `arg:"" help:"Positions to move (negative is up)"`
}

// DownloadCmd is the "download" subcommand.
type DownloadCmd struct {
	ID          string   `arg:"" help:"Item ID"`
	Unit        string   `short:"u" help:"Sub-unit (e.g. chapter) ID"`
	Proxy       []string `short:"p" help:"Proxy URL prefix for the fallback chain (repeatable)"`
	Concurrency int      `short:"c" default:"3" help:"Concurrent fetch limit per host"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query string `arg:"" help:"Search query"`
}

// RemoteCmd is the "remote" subcommand.
type RemoteCmd struct {
	Query  string   `arg:"" help:"Search query"`
	OPDS   []string `help:"OPDS catalog base URL (repeatable)"`
	Scrape []string `help:"HTML catalog base URL to scrape (repeatable)"`
}

// UploadCmd is the "upload" subcommand.
type UploadCmd struct {
	Paths    []string `arg:"" type:"existingfile" help:"Files to add"`
	Category string   `short:"C" help:"Target category"`
	Resolve  string   `default:"skip" enum:"skip,replace,keep-both" help:"How to resolve title conflicts"`
}

// ReadCmd is the "read" subcommand.
type ReadCmd struct {
	Series string `arg:"" help:"Item ID"`
	Unit   string `arg:"" optional:"" help:"Sub-unit (e.g. chapter) ID"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	ID    string `arg:"" help:"Item ID"`
	Force bool   `help:"Confirm deletion"`
}

// buildAggregator wires one remote source per configured endpoint, each
// wrapped with logging.
func buildAggregator(cmd RemoteCmd, logger *slog.Logger) *remote.Aggregator {
	var sources []tomecat.RemoteSource
	for _, baseURL := range cmd.OPDS {
		sources = append(sources, tomecatslog.NewLoggingRemoteSource(opds.NewSource(nil, baseURL), logger))
	}
	for _, baseURL := range cmd.Scrape {
		sources = append(sources, tomecatslog.NewLoggingRemoteSource(goquery.NewSource(nil, baseURL, goquery.Selectors{}), logger))
	}
	return &remote.Aggregator{Sources: sources, Logger: logger}
}
