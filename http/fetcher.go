// Package http provides an HTTP-based implementation of tomecat.Fetcher
// for downloading remote content.
package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/tomecat/tomecat"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 30 * time.Second

// maxBodyBytes caps a single download.
const maxBodyBytes = 512 << 20

// Ensure Fetcher implements tomecat.Fetcher at compile time.
var _ tomecat.Fetcher = (*Fetcher)(nil)

// Fetcher downloads content from URLs using plain HTTP requests.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (30s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithClient sets the underlying HTTP client, overriding the timeout.
func WithClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}

	if f.client == nil {
		f.client = &http.Client{
			Timeout: f.timeout,
		}
	}

	return f
}

// Fetch downloads the resource at url. Upstream throttling and
// authorization failures are classified into application error codes so
// callers can pattern-match on the code instead of the error text.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*tomecat.Payload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, tomecat.Errorf(tomecat.EUNAUTHORIZED, "HTTP %d for %s", resp.StatusCode, url)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, tomecat.Errorf(tomecat.ERATELIMIT, "HTTP %d for %s", resp.StatusCode, url)
	case resp.StatusCode == http.StatusNotFound:
		return nil, tomecat.Errorf(tomecat.ENOTFOUND, "HTTP %d for %s", resp.StatusCode, url)
	case resp.StatusCode >= 500:
		return nil, tomecat.Errorf(tomecat.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, url)
	default:
		return nil, tomecat.Errorf(tomecat.EINVALID, "HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}

	return &tomecat.Payload{
		Data:        body,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

// Close releases resources. For an HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
