package tomecat

import "context"

// Search tuning constants.
const (
	// MinQueryLength is the minimum trimmed query length for a deep
	// full-text scan. Shorter queries only run the title pass.
	MinQueryLength = 2

	// SnippetRadius is the number of characters of context kept on each
	// side of a hit.
	SnippetRadius = 100

	// MaxTotalMatches caps matches recorded for a single search to bound
	// memory on very large catalogs.
	MaxTotalMatches = 2000
)

// ContextWholeDocument is the snippet sentinel for title-pass hits meaning
// "the whole document matched", not a text excerpt.
const ContextWholeDocument = "Full Document View"

// Match is one full-text search hit. Matches are produced by the search
// coordinator and never persisted.
type Match struct {
	ItemID    string `json:"itemId"`
	ItemTitle string `json:"itemTitle"`
	Page      int    `json:"page"` // 1-based
	Context   string `json:"context"`
}

// SearchEventType tags a SearchEvent.
type SearchEventType int

// Search event types, in the order a caller may observe them.
const (
	SearchStarted SearchEventType = iota
	SearchFileStarted
	SearchMatches
	SearchFileCompleted
	SearchCompleted
)

// SearchEvent reports progress during a streaming search.
type SearchEvent struct {
	Type SearchEventType

	// File identifies the item being scanned (FileStarted, FileCompleted).
	File string

	// Matches carries a batch of hits (Matches events).
	Matches []Match

	// MatchCount is the per-file total (FileCompleted).
	MatchCount int
}

// SearchEventFunc receives streamed search events.
type SearchEventFunc func(SearchEvent)

// Searcher streams full-text search results over the catalog.
type Searcher interface {
	// SearchAll runs a title pass and then a bounded-concurrency deep
	// scan over all stored documents, streaming events to onEvent.
	// A newer call supersedes older ones: their remaining events are
	// silently discarded.
	SearchAll(ctx context.Context, query string, onEvent SearchEventFunc) error
}
