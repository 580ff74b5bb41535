// Package acquire drives the download of remote content into local durable
// storage. It owns the per-key acquisition state machine, deduplicates
// concurrent requests, and persists progress and terminal state through the
// catalog.
package acquire

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/tomecat/tomecat"
	"github.com/tomecat/tomecat/throttle"
)

// Progress milestone for single-binary downloads. Byte-level progress is
// not tracked, so binary acquisitions jump from the start milestone to 100.
const binaryStartProgress = 10

// Orchestrator implements tomecat.Acquirer.
type Orchestrator struct {
	Catalog tomecat.CatalogService
	Blobs   tomecat.BlobStore
	Fetcher tomecat.Fetcher

	// HTMLExtractor and Converter handle web-kind acquisitions. Both must
	// be set for KindWeb items.
	HTMLExtractor tomecat.HTMLExtractor
	Converter     tomecat.Converter

	// Throttle, when set, bounds concurrent fetches per host for
	// rate-limited upstreams.
	Throttle *throttle.Throttle

	// Hosts, when set, applies per-host politeness rate limiting before
	// each network attempt.
	Hosts *HostLimiter

	// Proxies are URL prefixes used to build the fallback chain for
	// binary downloads. Each entry is tried in order after the direct URL,
	// with the target URL query-escaped and appended.
	Proxies []string

	// RetryDelays configures per-URL retry backoff. Nil uses DefaultRetryDelays.
	RetryDelays []time.Duration

	Logger *slog.Logger

	mu     sync.Mutex
	active map[string]struct{}
}

// Compile-time interface verification.
var _ tomecat.Acquirer = (*Orchestrator)(nil)

// Active reports whether an acquisition for the key is in flight.
func (o *Orchestrator) Active(itemID, unitID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := o.active[tomecat.AcquisitionKey(itemID, unitID)]
	return ok
}

// claim atomically inserts the key into the active set.
// Returns false if the key is already claimed.
func (o *Orchestrator) claim(key string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.active == nil {
		o.active = make(map[string]struct{})
	}
	if _, ok := o.active[key]; ok {
		return false
	}
	o.active[key] = struct{}{}
	return true
}

func (o *Orchestrator) release(key string) {
	o.mu.Lock()
	delete(o.active, key)
	o.mu.Unlock()
}

// Acquire downloads the item's content. Calls for a key already in flight,
// or for content already downloaded, are no-ops. On failure the catalog
// entry is left retryable: pre-existing entries revert to a clean
// not-downloaded state, placeholders created by this call are removed.
func (o *Orchestrator) Acquire(ctx context.Context, item *tomecat.Item, unitID string) error {
	key := tomecat.AcquisitionKey(item.ID, unitID)
	if !o.claim(key) {
		return nil
	}
	defer o.release(key)

	item, placeholder, err := o.prepare(ctx, item)
	if err != nil || item == nil {
		return err
	}

	switch item.Kind {
	case tomecat.KindComic:
		err = o.acquirePages(ctx, item, unitID)
	case tomecat.KindWeb:
		err = o.acquireWeb(ctx, item)
	default:
		err = o.acquireBinary(ctx, item, key)
	}

	if err != nil {
		o.logger().Warn("acquisition failed", "key", key, "err", err)
		if placeholder {
			if delErr := o.Catalog.DeleteItem(ctx, item.ID); delErr != nil {
				return fmt.Errorf("remove placeholder after failure: %w", delErr)
			}
			return err
		}
		item.Downloading = false
		item.DownloadProgress = 0
		if revErr := o.Catalog.UpsertItem(ctx, item); revErr != nil {
			return fmt.Errorf("revert item after failure: %w", revErr)
		}
		return err
	}

	item.Downloaded = true
	item.Downloading = false
	item.DownloadProgress = 100
	return o.Catalog.UpsertItem(ctx, item)
}

// prepare resolves the catalog entry for the acquisition and marks it
// downloading. A nil item with nil error means the call is a no-op because
// the content is already present.
func (o *Orchestrator) prepare(ctx context.Context, item *tomecat.Item) (_ *tomecat.Item, placeholder bool, _ error) {
	existing, err := o.Catalog.FindItemByID(ctx, item.ID)
	switch {
	case err == nil:
		if existing.Downloaded {
			return nil, false, nil
		}
		item = existing
	case tomecat.ErrorCode(err) == tomecat.ENOTFOUND:
		placeholder = true
	default:
		return nil, false, err
	}

	item.Downloading = true
	item.DownloadProgress = 0
	if err := o.Catalog.UpsertItem(ctx, item); err != nil {
		return nil, false, err
	}
	return item, placeholder, nil
}

// fetch performs one network request with per-host rate limiting,
// throttling, and retry.
func (o *Orchestrator) fetch(ctx context.Context, rawURL string) (*tomecat.Payload, error) {
	host := hostOf(rawURL)

	if o.Hosts != nil {
		if err := o.Hosts.Wait(ctx, host); err != nil {
			return nil, err
		}
	}

	do := func(ctx context.Context) (*tomecat.Payload, error) {
		return FetchWithRetryDelays(ctx, rawURL, o.Fetcher.Fetch, o.retryDelays())
	}
	if o.Throttle != nil {
		return throttle.DoValue(ctx, o.Throttle, host, do)
	}
	return do(ctx)
}

func (o *Orchestrator) retryDelays() []time.Duration {
	if o.RetryDelays != nil {
		return o.RetryDelays
	}
	return DefaultRetryDelays()
}

func (o *Orchestrator) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host
}

// assetRef derives a blob store reference from an acquisition key.
func assetRef(key string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(key))
}

// kindForContentType upgrades an item kind when the payload's content type
// implies a more specific one than initially guessed.
func kindForContentType(contentType string, current tomecat.Kind) tomecat.Kind {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "application/pdf"), strings.Contains(ct, "application/epub"):
		return tomecat.KindDocument
	case strings.HasPrefix(ct, "audio/"):
		return tomecat.KindAudio
	}
	return current
}
