package acquire

import (
	"context"
	"net/url"

	"github.com/tomecat/tomecat"
)

// acquireBinary downloads a single-binary item (PDF/EPUB-like) through an
// ordered fallback chain of URL variants, stopping at the first usable
// payload.
func (o *Orchestrator) acquireBinary(ctx context.Context, item *tomecat.Item, key string) error {
	if item.RemoteURL == "" {
		return tomecat.Errorf(tomecat.EINVALID, "item %q has no remote URL", item.ID)
	}

	item.DownloadProgress = binaryStartProgress
	if err := o.Catalog.UpsertItem(ctx, item); err != nil {
		return err
	}

	var lastErr error
	for _, candidate := range o.urlVariants(item.RemoteURL) {
		payload, err := o.fetch(ctx, candidate)
		if err != nil {
			lastErr = err
			continue
		}
		if len(payload.Data) == 0 {
			lastErr = tomecat.Errorf(tomecat.EUNAVAILABLE, "empty payload from %q", candidate)
			continue
		}

		ref := assetRef(key)
		if err := o.Blobs.SaveAsset(ctx, ref, payload.Data); err != nil {
			return err
		}

		item.ContentRef = ref
		item.Kind = kindForContentType(payload.ContentType, item.Kind)
		return nil
	}

	if lastErr == nil {
		lastErr = tomecat.Errorf(tomecat.EUNAVAILABLE, "no download candidates for item %q", item.ID)
	}
	return lastErr
}

// urlVariants builds the fallback chain: the direct URL first, then each
// configured proxy wrapping it.
func (o *Orchestrator) urlVariants(rawURL string) []string {
	variants := make([]string, 0, len(o.Proxies)+1)
	variants = append(variants, rawURL)
	for _, proxy := range o.Proxies {
		variants = append(variants, proxy+url.QueryEscape(rawURL))
	}
	return variants
}
