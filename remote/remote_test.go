package remote_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomecat/tomecat"
	"github.com/tomecat/tomecat/mock"
	"github.com/tomecat/tomecat/remote"
)

func record(id, title string) tomecat.RemoteRecord {
	return tomecat.RemoteRecord{
		ID:     id,
		Title:  title,
		URL:    "https://example.com/" + id,
		Source: tomecat.SourceOPDS,
		Kind:   tomecat.KindDocument,
	}
}

func staticSource(name string, records ...tomecat.RemoteRecord) *mock.RemoteSource {
	return &mock.RemoteSource{
		NameFn: func() string { return name },
		SearchFn: func(ctx context.Context, query string) ([]tomecat.RemoteRecord, error) {
			return records, nil
		},
	}
}

func TestAggregator_Search(t *testing.T) {
	t.Parallel()

	t.Run("merges in provider order", func(t *testing.T) {
		t.Parallel()

		aggregator := &remote.Aggregator{Sources: []tomecat.RemoteSource{
			staticSource("first", record("a", "Alpha"), record("b", "Beta")),
			staticSource("second", record("c", "Gamma")),
		}}

		records, err := aggregator.Search(context.Background(), "anything")
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, "a", records[0].ID)
		assert.Equal(t, "b", records[1].ID)
		assert.Equal(t, "c", records[2].ID)
	})

	t.Run("drops duplicate record IDs", func(t *testing.T) {
		t.Parallel()

		aggregator := &remote.Aggregator{Sources: []tomecat.RemoteSource{
			staticSource("first", record("a", "Alpha")),
			staticSource("second", record("a", "Alpha Mirror"), record("b", "Beta")),
		}}

		records, err := aggregator.Search(context.Background(), "alpha")
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "Alpha", records[0].Title)
		assert.Equal(t, "b", records[1].ID)
	})

	t.Run("a failing provider does not block its siblings", func(t *testing.T) {
		t.Parallel()

		broken := &mock.RemoteSource{
			NameFn: func() string { return "broken" },
			SearchFn: func(ctx context.Context, query string) ([]tomecat.RemoteRecord, error) {
				return nil, tomecat.Errorf(tomecat.ERATELIMIT, "slow down")
			},
		}
		aggregator := &remote.Aggregator{Sources: []tomecat.RemoteSource{
			broken,
			staticSource("healthy", record("a", "Alpha")),
		}}

		records, err := aggregator.Search(context.Background(), "alpha")
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "a", records[0].ID)
	})

	t.Run("invalid records are dropped at the boundary", func(t *testing.T) {
		t.Parallel()

		aggregator := &remote.Aggregator{Sources: []tomecat.RemoteSource{
			staticSource("sloppy", tomecat.RemoteRecord{ID: "x"}, record("a", "Alpha")),
		}}

		records, err := aggregator.Search(context.Background(), "alpha")
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "a", records[0].ID)
	})

	t.Run("no providers yields no records", func(t *testing.T) {
		t.Parallel()

		aggregator := &remote.Aggregator{}
		records, err := aggregator.Search(context.Background(), "alpha")
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}
