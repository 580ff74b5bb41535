package mock

import (
	"context"

	"github.com/tomecat/tomecat"
)

var _ tomecat.RemoteSource = (*RemoteSource)(nil)

// RemoteSource is a mock implementation of tomecat.RemoteSource.
type RemoteSource struct {
	NameFn   func() string
	SearchFn func(ctx context.Context, query string) ([]tomecat.RemoteRecord, error)
}

func (s *RemoteSource) Name() string {
	if s.NameFn == nil {
		return "mock"
	}
	return s.NameFn()
}

func (s *RemoteSource) Search(ctx context.Context, query string) ([]tomecat.RemoteRecord, error) {
	return s.SearchFn(ctx, query)
}
