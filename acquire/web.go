package acquire

import (
	"context"

	"github.com/tomecat/tomecat"
)

// acquireWeb fetches a web page, extracts the main content, and stores it
// as inline markdown on the item.
func (o *Orchestrator) acquireWeb(ctx context.Context, item *tomecat.Item) error {
	if item.RemoteURL == "" {
		return tomecat.Errorf(tomecat.EINVALID, "item %q has no remote URL", item.ID)
	}
	if o.HTMLExtractor == nil || o.Converter == nil {
		return tomecat.Errorf(tomecat.EINTERNAL, "web acquisition is not configured")
	}

	payload, err := o.fetch(ctx, item.RemoteURL)
	if err != nil {
		return err
	}

	extracted, err := o.HTMLExtractor.Extract(string(payload.Data))
	if err != nil {
		return err
	}

	markdown, err := o.Converter.Convert(extracted.ContentHTML)
	if err != nil {
		return err
	}

	item.Content = markdown
	if item.Title == "" && extracted.Title != "" {
		item.Title = extracted.Title
	}
	return nil
}
