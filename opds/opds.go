// Package opds implements a remote content source backed by an OPDS
// (Atom) catalog feed.
package opds

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"

	"github.com/tomecat/tomecat"
)

const (
	acquisitionRel = "http://opds-spec.org/acquisition"
	imageRel       = "http://opds-spec.org/image"
	thumbnailRel   = "http://opds-spec.org/image/thumbnail"
)

// Ensure Source implements tomecat.RemoteSource.
var _ tomecat.RemoteSource = (*Source)(nil)

// Source searches an OPDS catalog over HTTP.
type Source struct {
	client  *http.Client
	baseURL string
}

// NewSource creates a Source for the catalog rooted at baseURL.
// If client is nil, http.DefaultClient is used.
func NewSource(client *http.Client, baseURL string) *Source {
	if client == nil {
		client = http.DefaultClient
	}
	return &Source{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *Source) Name() string { return "opds" }

// Search queries the catalog's search endpoint and converts the returned
// Atom entries into normalized records.
func (s *Source) Search(ctx context.Context, query string) ([]tomecat.RemoteRecord, error) {
	searchURL := fmt.Sprintf("%s/search?q=%s", s.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/atom+xml")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, tomecat.Errorf(tomecat.EUNAVAILABLE, "opds catalog unreachable: %v", err)
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp.StatusCode); err != nil {
		io.Copy(io.Discard, resp.Body)
		return nil, err
	}

	return parseFeed(resp.Body)
}

// classifyStatus maps upstream HTTP statuses onto application error codes.
func classifyStatus(status int) error {
	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return tomecat.Errorf(tomecat.EUNAUTHORIZED, "opds catalog rejected credentials (HTTP %d)", status)
	case status == http.StatusTooManyRequests:
		return tomecat.Errorf(tomecat.ERATELIMIT, "opds catalog rate limited the request")
	case status >= 500:
		return tomecat.Errorf(tomecat.EUNAVAILABLE, "opds catalog unavailable (HTTP %d)", status)
	default:
		return tomecat.Errorf(tomecat.EINVALID, "opds search failed (HTTP %d)", status)
	}
}

// parseFeed extracts records from an Atom feed. Entries without an
// acquisition link are skipped.
func parseFeed(r io.Reader) ([]tomecat.RemoteRecord, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, tomecat.Errorf(tomecat.EINVALID, "parsing opds feed: %v", err)
	}

	root := doc.Root()
	if root == nil || root.Tag != "feed" {
		return nil, tomecat.Errorf(tomecat.EINVALID, "opds response is not an atom feed")
	}

	var records []tomecat.RemoteRecord
	for _, entry := range root.SelectElements("entry") {
		record := parseEntry(entry)
		if record.Validate() != nil {
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

func parseEntry(entry *etree.Element) tomecat.RemoteRecord {
	record := tomecat.RemoteRecord{
		ID:     elementText(entry, "id"),
		Title:  elementText(entry, "title"),
		Source: tomecat.SourceOPDS,
		Kind:   tomecat.KindDocument,
	}

	if author := entry.SelectElement("author"); author != nil {
		record.Author = elementText(author, "name")
	}

	for _, link := range entry.SelectElements("link") {
		rel := link.SelectAttrValue("rel", "")
		href := strings.TrimSpace(link.SelectAttrValue("href", ""))
		if href == "" {
			continue
		}
		switch {
		case strings.HasPrefix(rel, acquisitionRel):
			record.URL = href
			record.Kind = kindForMediaType(link.SelectAttrValue("type", ""))
		case rel == imageRel || rel == thumbnailRel:
			if record.CoverURL == "" {
				record.CoverURL = href
			}
		}
	}
	return record
}

func kindForMediaType(mediaType string) tomecat.Kind {
	switch {
	case strings.HasPrefix(mediaType, "audio/"):
		return tomecat.KindAudio
	case strings.Contains(mediaType, "comic") || strings.Contains(mediaType, "cbz"):
		return tomecat.KindComic
	default:
		return tomecat.KindDocument
	}
}

func elementText(parent *etree.Element, tag string) string {
	el := parent.SelectElement(tag)
	if el == nil {
		return ""
	}
	return strings.TrimSpace(el.Text())
}
