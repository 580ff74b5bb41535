package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/tomecat/tomecat"
	"github.com/tomecat/tomecat/acquire"
	"github.com/tomecat/tomecat/catalog"
	"github.com/tomecat/tomecat/conflict"
	"github.com/tomecat/tomecat/fs"
	"github.com/tomecat/tomecat/htmltomarkdown"
	tomecathttp "github.com/tomecat/tomecat/http"
	"github.com/tomecat/tomecat/pdf"
	"github.com/tomecat/tomecat/search"
	tomecatslog "github.com/tomecat/tomecat/slog"
	"github.com/tomecat/tomecat/sqlite"
	"github.com/tomecat/tomecat/throttle"
	"github.com/tomecat/tomecat/trafilatura"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database and asset paths. Set before calling Run().
	DBPath  string
	DataDir string

	// SQLite database backing the key-value store.
	DB *sqlite.DB

	// Services for end-to-end testing.
	Catalog tomecat.CatalogService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath:  defaultDBPath(),
		DataDir: defaultDataDir(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Logger: slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelWarn})),
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("tomecat"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'tomecat --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set TOMECAT_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	blobs := fs.NewBlobStore(m.DataDir)
	cat := catalog.New(sqlite.NewKV(m.DB), blobs)
	m.Catalog = cat

	deps.DB = m.DB
	deps.Blobs = blobs
	deps.Catalog = cat
	deps.Resolver = &conflict.Resolver{Catalog: cat, Blobs: blobs}
	deps.Searcher = &search.Coordinator{
		Catalog:   cat,
		Blobs:     blobs,
		Extractor: pdf.NewExtractor(),
		Logger:    deps.Logger,
	}

	// The download path carries the full network stack; other commands
	// stay offline.
	if cmd == "download" {
		fetcher := tomecatslog.NewLoggingFetcher(tomecathttp.NewFetcher(), deps.Logger)
		defer fetcher.Close()

		deps.Acquirer = &acquire.Orchestrator{
			Catalog:       cat,
			Blobs:         blobs,
			Fetcher:       fetcher,
			HTMLExtractor: trafilatura.NewExtractor(),
			Converter:     htmltomarkdown.NewConverter(),
			Throttle:      throttle.New(cli.Download.Concurrency),
			Hosts:         acquire.NewHostLimiter(1.0),
			Proxies:       cli.Download.Proxy,
			Logger:        deps.Logger,
		}
	}

	if cmd == "remote" {
		deps.Remote = buildAggregator(cli.Remote, deps.Logger)
	}

	return kongCtx.Run(deps)
}

func defaultDBPath() string {
	if path := os.Getenv("TOMECAT_DB"); path != "" {
		return path
	}
	return filepath.Join(baseDir(), "tomecat.db")
}

func defaultDataDir() string {
	if path := os.Getenv("TOMECAT_DATA"); path != "" {
		return path
	}
	return filepath.Join(baseDir(), "assets")
}

func baseDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	dir := filepath.Join(home, ".tomecat")
	_ = os.MkdirAll(dir, 0755)
	return dir
}
