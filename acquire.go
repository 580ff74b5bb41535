package tomecat

import "context"

// Payload is the result of fetching a remote resource.
type Payload struct {
	Data        []byte
	ContentType string
}

// Fetcher retrieves remote resources.
type Fetcher interface {
	// Fetch downloads the resource at url.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (*Payload, error)

	// Close releases any underlying resources.
	Close() error
}

// Acquirer drives the acquisition of remote content into local storage.
type Acquirer interface {
	// Acquire downloads the item's content, persisting progress and the
	// final state through the catalog. unitID selects a sub-unit (e.g. a
	// chapter) and may be empty. Calls for a key already in flight, or
	// for content already downloaded, are no-ops.
	Acquire(ctx context.Context, item *Item, unitID string) error

	// Active reports whether an acquisition for the key is in flight.
	Active(itemID, unitID string) bool
}

// AcquisitionKey derives the dedup key for an item and optional sub-unit.
func AcquisitionKey(itemID, unitID string) string {
	if unitID == "" {
		return itemID
	}
	return itemID + "/" + unitID
}
