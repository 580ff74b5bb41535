// Package goquery implements a remote content source that scrapes search
// results from an HTML catalog site using CSS selectors.
package goquery

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/tomecat/tomecat"
)

// Selectors names the CSS selectors used to pull fields out of a search
// results page.
type Selectors struct {
	// Result selects one element per search hit.
	Result string
	// Title, Author and Link are resolved within each result element.
	Title  string
	Author string
	Link   string
	// Cover selects an img element; its src becomes the cover URL.
	Cover string
}

// DefaultSelectors matches the common "list of result cards" layout.
func DefaultSelectors() Selectors {
	return Selectors{
		Result: ".search-result",
		Title:  ".title",
		Author: ".author",
		Link:   "a[href]",
		Cover:  "img",
	}
}

// Ensure Source implements tomecat.RemoteSource.
var _ tomecat.RemoteSource = (*Source)(nil)

// Source scrapes a catalog site's search page.
type Source struct {
	client    *http.Client
	baseURL   string
	selectors Selectors
}

// NewSource creates a Source for the site rooted at baseURL. If client is
// nil, http.DefaultClient is used. Zero-value selectors fall back to
// DefaultSelectors.
func NewSource(client *http.Client, baseURL string, selectors Selectors) *Source {
	if client == nil {
		client = http.DefaultClient
	}
	if selectors == (Selectors{}) {
		selectors = DefaultSelectors()
	}
	return &Source{client: client, baseURL: strings.TrimRight(baseURL, "/"), selectors: selectors}
}

func (s *Source) Name() string { return "scraper" }

// Search fetches the site's search results page and scrapes one record
// per result element. Results without a link are skipped.
func (s *Source) Search(ctx context.Context, query string) ([]tomecat.RemoteRecord, error) {
	searchURL := fmt.Sprintf("%s/search?q=%s", s.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, tomecat.Errorf(tomecat.EUNAVAILABLE, "catalog site unreachable: %v", err)
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp.StatusCode); err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, tomecat.Errorf(tomecat.EINVALID, "parsing search results: %v", err)
	}

	base, err := url.Parse(s.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	var records []tomecat.RemoteRecord
	doc.Find(s.selectors.Result).Each(func(_ int, sel *goquery.Selection) {
		record := s.parseResult(sel, base)
		if record.Validate() != nil {
			return
		}
		records = append(records, record)
	})
	return records, nil
}

func (s *Source) parseResult(sel *goquery.Selection, base *url.URL) tomecat.RemoteRecord {
	record := tomecat.RemoteRecord{
		Title:  strings.TrimSpace(sel.Find(s.selectors.Title).First().Text()),
		Author: strings.TrimSpace(sel.Find(s.selectors.Author).First().Text()),
		Source: tomecat.SourceScraper,
		Kind:   tomecat.KindDocument,
	}

	if href, ok := sel.Find(s.selectors.Link).First().Attr("href"); ok {
		record.URL = resolveURL(base, href)
		record.ID = record.URL
	}
	if src, ok := sel.Find(s.selectors.Cover).First().Attr("src"); ok {
		record.CoverURL = resolveURL(base, src)
	}
	return record
}

// resolveURL makes href absolute against base. Invalid hrefs are returned
// as-is and rejected later by record validation.
func resolveURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	parsed, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(parsed).String()
}

func classifyStatus(status int) error {
	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return tomecat.Errorf(tomecat.EUNAUTHORIZED, "catalog site rejected credentials (HTTP %d)", status)
	case status == http.StatusTooManyRequests:
		return tomecat.Errorf(tomecat.ERATELIMIT, "catalog site rate limited the request")
	case status >= 500:
		return tomecat.Errorf(tomecat.EUNAVAILABLE, "catalog site unavailable (HTTP %d)", status)
	default:
		return tomecat.Errorf(tomecat.EINVALID, "search request failed (HTTP %d)", status)
	}
}
