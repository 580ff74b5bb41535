package acquire

import (
	"context"
	"fmt"
	"strings"

	"github.com/tomecat/tomecat"
)

// pageURLs returns the ordered page URLs for a comic acquisition. They are
// stored newline-joined in item metadata, per sub-unit when unitID is set.
func pageURLs(item *tomecat.Item, unitID string) []string {
	key := "pages"
	if unitID != "" {
		key = "pages/" + unitID
	}

	raw := item.Metadata[key]
	if raw == "" {
		return nil
	}

	var urls []string
	for _, u := range strings.Split(raw, "\n") {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// acquirePages downloads an image series page by page, updating progress
// after each completed page. Pages within one acquisition are fetched
// strictly in order.
func (o *Orchestrator) acquirePages(ctx context.Context, item *tomecat.Item, unitID string) error {
	urls := pageURLs(item, unitID)
	if len(urls) == 0 {
		return tomecat.Errorf(tomecat.EINVALID, "item %q has no page URLs", item.ID)
	}

	key := tomecat.AcquisitionKey(item.ID, unitID)
	ref := assetRef(key)

	saved := 0
	for i, pageURL := range urls {
		payload, err := o.fetch(ctx, pageURL)
		if err != nil {
			o.removePages(ctx, ref, saved)
			return fmt.Errorf("page %d of %d: %w", i+1, len(urls), err)
		}

		if err := o.Blobs.SaveAsset(ctx, pageAssetID(ref, i+1), payload.Data); err != nil {
			o.removePages(ctx, ref, saved)
			return err
		}
		saved++

		item.DownloadProgress = (i + 1) * 100 / len(urls)
		if err := o.Catalog.UpsertItem(ctx, item); err != nil {
			o.removePages(ctx, ref, saved)
			return err
		}
	}

	item.ContentRef = ref
	return nil
}

func pageAssetID(ref string, page int) string {
	return fmt.Sprintf("%s/p%04d", ref, page)
}

// removePages deletes the page assets saved before a failed acquisition so
// the blob store holds no orphans for an item left retryable or removed.
func (o *Orchestrator) removePages(ctx context.Context, ref string, n int) {
	for i := 1; i <= n; i++ {
		if err := o.Blobs.DeleteAsset(ctx, pageAssetID(ref, i)); err != nil {
			o.logger().Warn("remove partial page failed", "ref", ref, "page", i, "err", err)
		}
	}
}
