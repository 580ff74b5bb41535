package tomecat

import "context"

// RemoteRecord is the normalized shape of an external search result.
// Adapter-specific response formats are converted into this type at the
// adapter boundary.
type RemoteRecord struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Author   string `json:"author,omitempty"`
	CoverURL string `json:"coverUrl,omitempty"`
	URL      string `json:"url"`
	Source   Source `json:"source"`
	Kind     Kind   `json:"kind"`
}

// Validate returns an error if the record is unusable.
func (r *RemoteRecord) Validate() error {
	if r.ID == "" {
		return Errorf(EINVALID, "remote record ID required")
	}
	if r.Title == "" {
		return Errorf(EINVALID, "remote record title required")
	}
	if r.URL == "" {
		return Errorf(EINVALID, "remote record URL required")
	}
	return nil
}

// RemoteSource is one external content provider. Implementations classify
// upstream failures into application error codes (ERATELIMIT,
// EUNAUTHORIZED, EINVALID, EUNAVAILABLE) at this boundary.
type RemoteSource interface {
	// Name returns the provider's identifier (e.g. "opds", "scraper").
	Name() string

	// Search queries the provider and returns normalized records.
	Search(ctx context.Context, query string) ([]RemoteRecord, error)
}
