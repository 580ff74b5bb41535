package acquire_test

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomecat/tomecat"
	"github.com/tomecat/tomecat/acquire"
	"github.com/tomecat/tomecat/catalog"
	"github.com/tomecat/tomecat/fs"
	"github.com/tomecat/tomecat/mock"
	"github.com/tomecat/tomecat/sqlite"
)

func newTestCatalog(t *testing.T) (*catalog.Catalog, *fs.BlobStore) {
	t.Helper()

	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })

	blobs := fs.NewBlobStore(t.TempDir())
	return catalog.New(sqlite.NewKV(db), blobs), blobs
}

func seedItem(t *testing.T, cat *catalog.Catalog, item *tomecat.Item) *tomecat.Item {
	t.Helper()
	require.NoError(t, cat.UpsertItem(context.Background(), item))
	return item
}

func noRetries() []time.Duration { return []time.Duration{} }

func TestOrchestrator_Acquire(t *testing.T) {
	t.Parallel()

	t.Run("success marks item downloaded with content ref", func(t *testing.T) {
		t.Parallel()

		cat, blobs := newTestCatalog(t)
		item := seedItem(t, cat, &tomecat.Item{
			Title:     "Field Manual",
			Kind:      tomecat.KindDocument,
			RemoteURL: "https://books.example.com/fm.pdf",
		})

		o := &acquire.Orchestrator{
			Catalog: cat,
			Blobs:   blobs,
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (*tomecat.Payload, error) {
					return &tomecat.Payload{Data: []byte("%PDF-1.7"), ContentType: "application/pdf"}, nil
				},
			},
			RetryDelays: noRetries(),
		}

		require.NoError(t, o.Acquire(context.Background(), item, ""))

		got, err := cat.FindItemByID(context.Background(), item.ID)
		require.NoError(t, err)
		assert.True(t, got.Downloaded)
		assert.Equal(t, 100, got.DownloadProgress)
		assert.False(t, got.Downloading)
		require.NotEmpty(t, got.ContentRef)

		data, err := blobs.AssetBytes(context.Background(), got.ContentRef)
		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF-1.7"), data)
	})

	t.Run("failure reverts pre-existing item to retryable state", func(t *testing.T) {
		t.Parallel()

		cat, blobs := newTestCatalog(t)
		item := seedItem(t, cat, &tomecat.Item{
			Title:     "Unreachable",
			Kind:      tomecat.KindDocument,
			RemoteURL: "https://books.example.com/gone.pdf",
		})

		o := &acquire.Orchestrator{
			Catalog: cat,
			Blobs:   blobs,
			Fetcher: &mock.Fetcher{
				FetchFn: func(context.Context, string) (*tomecat.Payload, error) {
					return nil, tomecat.Errorf(tomecat.EUNAVAILABLE, "connection refused")
				},
			},
			RetryDelays: noRetries(),
		}

		err := o.Acquire(context.Background(), item, "")
		require.Error(t, err)

		got, err := cat.FindItemByID(context.Background(), item.ID)
		require.NoError(t, err)
		assert.False(t, got.Downloaded)
		assert.Equal(t, 0, got.DownloadProgress)
		assert.False(t, got.Downloading)
		assert.Empty(t, got.ContentRef)
	})

	t.Run("failure removes placeholder created for the download", func(t *testing.T) {
		t.Parallel()

		cat, blobs := newTestCatalog(t)

		o := &acquire.Orchestrator{
			Catalog: cat,
			Blobs:   blobs,
			Fetcher: &mock.Fetcher{
				FetchFn: func(context.Context, string) (*tomecat.Payload, error) {
					return nil, tomecat.Errorf(tomecat.EUNAVAILABLE, "connection refused")
				},
			},
			RetryDelays: noRetries(),
		}

		item := &tomecat.Item{
			ID:        "ephemeral-1",
			Title:     "Never Arrived",
			Kind:      tomecat.KindDocument,
			RemoteURL: "https://books.example.com/x.pdf",
		}
		err := o.Acquire(context.Background(), item, "")
		require.Error(t, err)

		_, err = cat.FindItemByID(context.Background(), "ephemeral-1")
		assert.Equal(t, tomecat.ENOTFOUND, tomecat.ErrorCode(err))
	})

	t.Run("already downloaded item is a no-op", func(t *testing.T) {
		t.Parallel()

		cat, blobs := newTestCatalog(t)
		item := seedItem(t, cat, &tomecat.Item{
			Title:            "Done",
			Kind:             tomecat.KindDocument,
			RemoteURL:        "https://books.example.com/done.pdf",
			Downloaded:       true,
			DownloadProgress: 100,
			ContentRef:       "ref-done",
		})

		var fetches atomic.Int64
		o := &acquire.Orchestrator{
			Catalog: cat,
			Blobs:   blobs,
			Fetcher: &mock.Fetcher{
				FetchFn: func(context.Context, string) (*tomecat.Payload, error) {
					fetches.Add(1)
					return &tomecat.Payload{Data: []byte("x")}, nil
				},
			},
			RetryDelays: noRetries(),
		}

		require.NoError(t, o.Acquire(context.Background(), item, ""))
		assert.Zero(t, fetches.Load())
	})

	t.Run("fallback chain tries proxy after direct URL fails", func(t *testing.T) {
		t.Parallel()

		cat, blobs := newTestCatalog(t)
		item := seedItem(t, cat, &tomecat.Item{
			Title:     "Proxied",
			Kind:      tomecat.KindDocument,
			RemoteURL: "https://books.example.com/p.pdf",
		})

		var urls []string
		var mu sync.Mutex
		o := &acquire.Orchestrator{
			Catalog: cat,
			Blobs:   blobs,
			Proxies: []string{"https://proxy.example.net/get?url="},
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (*tomecat.Payload, error) {
					mu.Lock()
					urls = append(urls, url)
					mu.Unlock()
					if url == "https://books.example.com/p.pdf" {
						return nil, tomecat.Errorf(tomecat.EUNAVAILABLE, "blocked")
					}
					return &tomecat.Payload{Data: []byte("ok"), ContentType: "application/pdf"}, nil
				},
			},
			RetryDelays: noRetries(),
		}

		require.NoError(t, o.Acquire(context.Background(), item, ""))

		require.Len(t, urls, 2)
		assert.Equal(t, "https://books.example.com/p.pdf", urls[0])
		assert.Equal(t, "https://proxy.example.net/get?url=https%3A%2F%2Fbooks.example.com%2Fp.pdf", urls[1])

		got, err := cat.FindItemByID(context.Background(), item.ID)
		require.NoError(t, err)
		assert.True(t, got.Downloaded)
	})

	t.Run("content type upgrades the item kind", func(t *testing.T) {
		t.Parallel()

		cat, blobs := newTestCatalog(t)
		item := seedItem(t, cat, &tomecat.Item{
			Title:     "Guessed Wrong",
			Kind:      tomecat.KindAudio,
			RemoteURL: "https://books.example.com/actually.pdf",
		})

		o := &acquire.Orchestrator{
			Catalog: cat,
			Blobs:   blobs,
			Fetcher: &mock.Fetcher{
				FetchFn: func(context.Context, string) (*tomecat.Payload, error) {
					return &tomecat.Payload{Data: []byte("%PDF"), ContentType: "application/pdf"}, nil
				},
			},
			RetryDelays: noRetries(),
		}

		require.NoError(t, o.Acquire(context.Background(), item, ""))

		got, err := cat.FindItemByID(context.Background(), item.ID)
		require.NoError(t, err)
		assert.Equal(t, tomecat.KindDocument, got.Kind)
	})
}

func TestOrchestrator_Dedup(t *testing.T) {
	t.Parallel()

	cat, blobs := newTestCatalog(t)
	item := seedItem(t, cat, &tomecat.Item{
		Title:     "Contested",
		Kind:      tomecat.KindDocument,
		RemoteURL: "https://books.example.com/c.pdf",
	})

	var fetches atomic.Int64
	firstInFlight := make(chan struct{})
	release := make(chan struct{})

	o := &acquire.Orchestrator{
		Catalog: cat,
		Blobs:   blobs,
		Fetcher: &mock.Fetcher{
			FetchFn: func(context.Context, string) (*tomecat.Payload, error) {
				if fetches.Add(1) == 1 {
					close(firstInFlight)
				}
				<-release
				return &tomecat.Payload{Data: []byte("ok")}, nil
			},
		},
		RetryDelays: noRetries(),
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = o.Acquire(context.Background(), item, "")
	}()
	<-firstInFlight

	assert.True(t, o.Active(item.ID, ""))

	// Concurrent requests for the same key are no-ops.
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, o.Acquire(context.Background(), item, ""))
		}()
	}

	close(release)
	wg.Wait()

	assert.Equal(t, int64(1), fetches.Load())
	assert.False(t, o.Active(item.ID, ""))
}

func TestOrchestrator_AcquirePages(t *testing.T) {
	t.Parallel()

	cat, blobs := newTestCatalog(t)
	item := seedItem(t, cat, &tomecat.Item{
		Title: "Strips Vol. 1",
		Kind:  tomecat.KindComic,
		Metadata: map[string]string{
			"pages/ch1": "https://img.example.com/1.png\nhttps://img.example.com/2.png\nhttps://img.example.com/3.png\nhttps://img.example.com/4.png",
		},
	})

	var progress []int
	var mu sync.Mutex
	unsubscribe := cat.Subscribe(func(change tomecat.Change) {
		if change.Op != tomecat.ChangeItemUpserted {
			return
		}
		got, err := cat.FindItemByID(context.Background(), item.ID)
		if err != nil {
			return
		}
		mu.Lock()
		progress = append(progress, got.DownloadProgress)
		mu.Unlock()
	})
	defer unsubscribe()

	o := &acquire.Orchestrator{
		Catalog: cat,
		Blobs:   blobs,
		Fetcher: &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (*tomecat.Payload, error) {
				return &tomecat.Payload{Data: []byte("img:" + url), ContentType: "image/png"}, nil
			},
		},
		RetryDelays: noRetries(),
	}

	require.NoError(t, o.Acquire(context.Background(), item, "ch1"))

	got, err := cat.FindItemByID(context.Background(), item.ID)
	require.NoError(t, err)
	assert.True(t, got.Downloaded)
	require.NotEmpty(t, got.ContentRef)

	// Page-by-page progress, then the terminal write.
	assert.Subset(t, progress, []int{25, 50, 75, 100})

	data, err := blobs.AssetBytes(context.Background(), got.ContentRef+"/p0001")
	require.NoError(t, err)
	assert.Equal(t, []byte("img:https://img.example.com/1.png"), data)
}

func TestOrchestrator_AcquirePagesFailureRemovesPartialAssets(t *testing.T) {
	t.Parallel()

	cat, blobs := newTestCatalog(t)
	item := seedItem(t, cat, &tomecat.Item{
		Title: "Strips Vol. 2",
		Kind:  tomecat.KindComic,
		Metadata: map[string]string{
			"pages": "https://img.example.com/1.png\nhttps://img.example.com/2.png\nhttps://img.example.com/3.png",
		},
	})

	var saved, deleted []string
	store := &mock.BlobStore{
		SaveAssetFn: func(ctx context.Context, id string, data []byte) error {
			saved = append(saved, id)
			return blobs.SaveAsset(ctx, id, data)
		},
		AssetBytesFn: blobs.AssetBytes,
		DeleteAssetFn: func(ctx context.Context, id string) error {
			deleted = append(deleted, id)
			return blobs.DeleteAsset(ctx, id)
		},
	}

	o := &acquire.Orchestrator{
		Catalog: cat,
		Blobs:   store,
		Fetcher: &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (*tomecat.Payload, error) {
				if strings.HasSuffix(url, "3.png") {
					return nil, tomecat.Errorf(tomecat.EUNAVAILABLE, "mirror down")
				}
				return &tomecat.Payload{Data: []byte("img"), ContentType: "image/png"}, nil
			},
		},
		RetryDelays: noRetries(),
	}

	require.Error(t, o.Acquire(context.Background(), item, ""))

	// The two pages stored before the failure are removed again.
	require.Len(t, saved, 2)
	assert.ElementsMatch(t, saved, deleted)
	for _, id := range saved {
		_, err := blobs.AssetBytes(context.Background(), id)
		assert.Equal(t, tomecat.ENOTFOUND, tomecat.ErrorCode(err))
	}

	got, err := cat.FindItemByID(context.Background(), item.ID)
	require.NoError(t, err)
	assert.False(t, got.Downloaded)
	assert.Empty(t, got.ContentRef)
}

func TestOrchestrator_AcquireWeb(t *testing.T) {
	t.Parallel()

	cat, blobs := newTestCatalog(t)
	item := seedItem(t, cat, &tomecat.Item{
		Title:     "Essay",
		Kind:      tomecat.KindWeb,
		RemoteURL: "https://blog.example.com/essay",
	})

	o := &acquire.Orchestrator{
		Catalog: cat,
		Blobs:   blobs,
		Fetcher: &mock.Fetcher{
			FetchFn: func(context.Context, string) (*tomecat.Payload, error) {
				return &tomecat.Payload{Data: []byte("<html><article>hello</article></html>"), ContentType: "text/html"}, nil
			},
		},
		HTMLExtractor: &mock.HTMLExtractor{
			ExtractFn: func(html string) (*tomecat.ExtractResult, error) {
				return &tomecat.ExtractResult{Title: "Essay", ContentHTML: "<article>hello</article>"}, nil
			},
		},
		Converter: &mock.Converter{
			ConvertFn: func(html string) (string, error) {
				return "hello", nil
			},
		},
		RetryDelays: noRetries(),
	}

	require.NoError(t, o.Acquire(context.Background(), item, ""))

	got, err := cat.FindItemByID(context.Background(), item.ID)
	require.NoError(t, err)
	assert.True(t, got.Downloaded)
	assert.Equal(t, "hello", got.Content)
	assert.True(t, got.HasContent())
}

func TestFetchWithRetryDelays(t *testing.T) {
	t.Parallel()

	t.Run("retries until success", func(t *testing.T) {
		t.Parallel()

		var calls int
		fetch := func(context.Context, string) (*tomecat.Payload, error) {
			calls++
			if calls < 3 {
				return nil, tomecat.Errorf(tomecat.EUNAVAILABLE, "try again")
			}
			return &tomecat.Payload{Data: []byte("ok")}, nil
		}

		payload, err := acquire.FetchWithRetryDelays(context.Background(), "u", fetch, []time.Duration{0, 0, 0})
		require.NoError(t, err)
		assert.Equal(t, []byte("ok"), payload.Data)
		assert.Equal(t, 3, calls)
	})

	t.Run("returns last error when attempts exhausted", func(t *testing.T) {
		t.Parallel()

		fetch := func(context.Context, string) (*tomecat.Payload, error) {
			return nil, tomecat.Errorf(tomecat.ERATELIMIT, "slow down")
		}

		_, err := acquire.FetchWithRetryDelays(context.Background(), "u", fetch, []time.Duration{0})
		assert.Equal(t, tomecat.ERATELIMIT, tomecat.ErrorCode(err))
	})
}
