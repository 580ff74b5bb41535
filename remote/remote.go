// Package remote aggregates search results from multiple external content
// providers.
package remote

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/tomecat/tomecat"
	"github.com/tomecat/tomecat/bloom"
)

// expectedRecords sizes the dedup filter for one aggregated search.
const expectedRecords = 10000

// Aggregator fans a query out to every configured provider and merges the
// results. Provider failures are isolated: a failing provider contributes
// an empty result set and never blocks or corrupts its siblings.
type Aggregator struct {
	Sources []tomecat.RemoteSource
	Logger  *slog.Logger
}

// Compile-time interface verification.
var _ tomecat.RemoteSource = (*Aggregator)(nil)

func (a *Aggregator) Name() string { return "aggregate" }

// Search queries all providers concurrently. Results are merged in
// provider order with duplicate record IDs dropped.
func (a *Aggregator) Search(ctx context.Context, query string) ([]tomecat.RemoteRecord, error) {
	results := make([][]tomecat.RemoteRecord, len(a.Sources))

	g, ctx := errgroup.WithContext(ctx)
	for i, source := range a.Sources {
		g.Go(func() error {
			records, err := source.Search(ctx, query)
			if err != nil {
				a.logger().Warn("remote search failed",
					"source", source.Name(),
					"query", query,
					"error", err,
				)
				return nil
			}
			results[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := bloom.NewFilter(expectedRecords, 0.001)
	var merged []tomecat.RemoteRecord
	for _, records := range results {
		for _, record := range records {
			if record.Validate() != nil || seen.Test(record.ID) {
				continue
			}
			seen.Add(record.ID)
			merged = append(merged, record)
		}
	}
	return merged, nil
}

func (a *Aggregator) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}
