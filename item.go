package tomecat

import "time"

// Kind classifies the content shape of a catalog item.
type Kind string

// Content kinds.
const (
	KindDocument Kind = "document" // single-binary paged document (PDF, EPUB)
	KindComic    Kind = "comic"    // image series fetched page by page
	KindAudio    Kind = "audio"    // audiobook or narration
	KindWeb      Kind = "web"      // web page stored as inline markdown
)

// Source identifies the origin adapter an item was acquired from.
type Source string

// Origin adapters. SourceLocal marks manually uploaded items.
const (
	SourceLocal   Source = "local"
	SourceOPDS    Source = "opds"
	SourceScraper Source = "scraper"
)

// CategoryUnlisted is the sentinel category for items without a valid
// category assignment.
const CategoryUnlisted = "Unlisted"

// Item represents one entry in the local content catalog.
type Item struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author,omitempty"`
	Kind   Kind   `json:"kind"`
	Source Source `json:"source"`

	Downloaded       bool `json:"downloaded"`
	DownloadProgress int  `json:"downloadProgress"` // 0..100
	Downloading      bool `json:"downloading"`

	Category string   `json:"category"`
	Tags     []string `json:"tags,omitempty"`

	// ContentRef is an opaque handle into the blob store, set once binary
	// content has been persisted.
	ContentRef string `json:"contentRef,omitempty"`

	// Content holds inline markdown text for web-kind items.
	Content string `json:"content,omitempty"`

	// RemoteURL is the source of truth for re-download.
	RemoteURL string `json:"remoteUrl,omitempty"`

	// Metadata holds adapter-specific fields (e.g. page URLs for comics).
	Metadata map[string]string `json:"metadata,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate returns an error if the item contains invalid fields.
func (i *Item) Validate() error {
	if i.Title == "" {
		return Errorf(EINVALID, "item title required")
	}
	if i.Kind == "" {
		return Errorf(EINVALID, "item kind required")
	}
	if i.DownloadProgress < 0 || i.DownloadProgress > 100 {
		return Errorf(EINVALID, "item download progress must be between 0 and 100")
	}
	return nil
}

// HasContent reports whether the item's content is locally available:
// a blob reference for binary kinds or inline text for web items.
func (i *Item) HasContent() bool {
	if i.Kind == KindWeb {
		return i.Content != ""
	}
	return i.ContentRef != ""
}

// ItemUpdate represents fields that can be updated on an item.
type ItemUpdate struct {
	Title    *string   `json:"title"`
	Author   *string   `json:"author"`
	Category *string   `json:"category"`
	Tags     *[]string `json:"tags"`
}

// ItemFilter represents a filter for FindItems.
type ItemFilter struct {
	ID       *string `json:"id"`
	Kind     *Kind   `json:"kind"`
	Category *string `json:"category"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
