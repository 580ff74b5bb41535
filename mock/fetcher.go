package mock

import (
	"context"

	"github.com/tomecat/tomecat"
)

var _ tomecat.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of tomecat.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*tomecat.Payload, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*tomecat.Payload, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}
