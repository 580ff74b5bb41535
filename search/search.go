// Package search implements streaming full-text search over the catalog.
//
// A search runs in two passes. The title pass scans item titles
// synchronously and reports whole-document matches before any file is
// opened. The deep pass extracts text from stored documents with a bounded
// worker pool and streams per-page matches as they are found; web items are
// scanned over their inline text. Starting a
// new search supersedes any search still in flight: the superseded search
// stops emitting events and winds down on its own.
package search

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"unicode"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/tomecat/tomecat"
)

// deepWorkers bounds concurrent document extractions.
const deepWorkers = 2

// Coordinator streams search results over every item in the catalog.
type Coordinator struct {
	Catalog   tomecat.CatalogService
	Blobs     tomecat.BlobStore
	Extractor tomecat.TextExtractor

	Logger *slog.Logger

	generation atomic.Int64

	mu     sync.Mutex
	cancel context.CancelFunc
}

// Compile-time interface verification.
var _ tomecat.Searcher = (*Coordinator)(nil)

// SearchAll runs a catalog-wide search for query, reporting progress and
// matches through onEvent. It supersedes any search previously started on
// this coordinator; the superseded search emits no further events.
func (c *Coordinator) SearchAll(ctx context.Context, query string, onEvent tomecat.SearchEventFunc) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return tomecat.Errorf(tomecat.EINVALID, "search query required")
	}

	// The generation claim and the cancel swap happen under one lock so
	// an older call can never cancel a newer search's context.
	c.mu.Lock()
	gen := c.generation.Add(1)
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mu.Unlock()
	defer cancel()

	// Events from a superseded search are dropped, not delivered late.
	emit := func(event tomecat.SearchEvent) {
		if c.generation.Load() != gen {
			return
		}
		if onEvent != nil {
			onEvent(event)
		}
	}

	emit(tomecat.SearchEvent{Type: tomecat.SearchStarted})

	items, err := c.Catalog.FindItems(ctx, tomecat.ItemFilter{})
	if err != nil {
		return err
	}

	var total atomic.Int64

	// Title pass: cheap, synchronous, always delivered before any
	// per-file event.
	if titleMatches := matchTitles(items, query); len(titleMatches) > 0 {
		total.Add(int64(len(titleMatches)))
		emit(tomecat.SearchEvent{Type: tomecat.SearchMatches, Matches: titleMatches})
	}

	if utf8.RuneCountInString(query) < tomecat.MinQueryLength {
		emit(tomecat.SearchEvent{Type: tomecat.SearchCompleted})
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(deepWorkers)
	for _, item := range items {
		switch {
		case item.Kind == tomecat.KindWeb && item.Content != "":
			g.Go(func() error {
				if ctx.Err() != nil || c.generation.Load() != gen || total.Load() >= tomecat.MaxTotalMatches {
					return nil
				}
				c.searchInline(item, query, &total, emit)
				return nil
			})
		case item.Kind == tomecat.KindDocument && item.Downloaded && item.ContentRef != "":
			g.Go(func() error {
				if ctx.Err() != nil || c.generation.Load() != gen || total.Load() >= tomecat.MaxTotalMatches {
					return nil
				}
				c.searchFile(ctx, item, query, gen, &total, emit)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return err
	}

	emit(tomecat.SearchEvent{Type: tomecat.SearchCompleted})
	return nil
}

// searchFile extracts one document and streams its matches page by page.
// Extraction failures are reported per file and never abort the search.
func (c *Coordinator) searchFile(ctx context.Context, item *tomecat.Item, query string, gen int64, total *atomic.Int64, emit func(tomecat.SearchEvent)) {
	emit(tomecat.SearchEvent{Type: tomecat.SearchFileStarted, File: item.Title})

	data, err := c.Blobs.AssetBytes(ctx, item.ContentRef)
	if err != nil {
		c.logger().Warn("search: load content failed", "item", item.ID, "error", err)
		emit(tomecat.SearchEvent{Type: tomecat.SearchFileCompleted, File: item.Title})
		return
	}

	doc, err := c.Extractor.Extract(ctx, data)
	if err != nil {
		c.logger().Warn("search: text extraction failed", "item", item.ID, "error", err)
		emit(tomecat.SearchEvent{Type: tomecat.SearchFileCompleted, File: item.Title})
		return
	}

	count := 0
	for pageIdx, page := range doc.Pages {
		if ctx.Err() != nil || c.generation.Load() != gen {
			return
		}
		count += c.emitPageMatches(item, pageIdx+1, matchPage(page.Text(), query), total, emit)
		if total.Load() >= tomecat.MaxTotalMatches {
			break
		}
	}

	emit(tomecat.SearchEvent{Type: tomecat.SearchFileCompleted, File: item.Title, MatchCount: count})
}

// searchInline scans a web item's stored markdown. Inline content counts as
// a single logical page.
func (c *Coordinator) searchInline(item *tomecat.Item, query string, total *atomic.Int64, emit func(tomecat.SearchEvent)) {
	emit(tomecat.SearchEvent{Type: tomecat.SearchFileStarted, File: item.Title})
	count := c.emitPageMatches(item, 1, matchPage(item.Content, query), total, emit)
	emit(tomecat.SearchEvent{Type: tomecat.SearchFileCompleted, File: item.Title, MatchCount: count})
}

// emitPageMatches trims snippets to the remaining match budget and emits
// them as one batch. It returns the number of matches delivered.
func (c *Coordinator) emitPageMatches(item *tomecat.Item, page int, snippets []string, total *atomic.Int64, emit func(tomecat.SearchEvent)) int {
	if len(snippets) == 0 {
		return 0
	}

	remaining := tomecat.MaxTotalMatches - int(total.Load())
	if remaining <= 0 {
		return 0
	}
	if len(snippets) > remaining {
		snippets = snippets[:remaining]
	}
	total.Add(int64(len(snippets)))

	matches := make([]tomecat.Match, len(snippets))
	for i, snippet := range snippets {
		matches[i] = tomecat.Match{
			ItemID:    item.ID,
			ItemTitle: item.Title,
			Page:      page,
			Context:   snippet,
		}
	}
	emit(tomecat.SearchEvent{Type: tomecat.SearchMatches, File: item.Title, Matches: matches})
	return len(matches)
}

// matchTitles returns a whole-document match for each item whose title
// contains query, ignoring case.
func matchTitles(items []*tomecat.Item, query string) []tomecat.Match {
	lowered := strings.ToLower(query)

	var matches []tomecat.Match
	for _, item := range items {
		if !strings.Contains(strings.ToLower(item.Title), lowered) {
			continue
		}
		matches = append(matches, tomecat.Match{
			ItemID:    item.ID,
			ItemTitle: item.Title,
			Page:      1,
			Context:   tomecat.ContextWholeDocument,
		})
	}
	return matches
}

// matchPage finds every case-insensitive occurrence of query in the page
// text and returns a trimmed snippet of surrounding context for each.
func matchPage(text, query string) []string {
	text = normalizeSpace(text)
	if text == "" {
		return nil
	}

	runes := []rune(text)
	lowered := make([]rune, len(runes))
	for i, r := range runes {
		lowered[i] = unicode.ToLower(r)
	}
	needle := []rune(strings.ToLower(query))
	if len(needle) == 0 || len(needle) > len(runes) {
		return nil
	}

	var snippets []string
	for i := 0; i+len(needle) <= len(runes); i++ {
		if !runesEqual(lowered[i:i+len(needle)], needle) {
			continue
		}

		start := i - tomecat.SnippetRadius
		if start < 0 {
			start = 0
		}
		end := i + len(needle) + tomecat.SnippetRadius
		if end > len(runes) {
			end = len(runes)
		}
		snippets = append(snippets, strings.TrimSpace(string(runes[start:end])))
	}
	return snippets
}

func runesEqual(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// normalizeSpace collapses runs of whitespace into single spaces.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func (c *Coordinator) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
