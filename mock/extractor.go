package mock

import (
	"context"

	"github.com/tomecat/tomecat"
)

var _ tomecat.TextExtractor = (*TextExtractor)(nil)

// TextExtractor is a mock implementation of tomecat.TextExtractor.
type TextExtractor struct {
	ExtractFn func(ctx context.Context, data []byte) (*tomecat.ExtractedDoc, error)
}

func (e *TextExtractor) Extract(ctx context.Context, data []byte) (*tomecat.ExtractedDoc, error) {
	return e.ExtractFn(ctx, data)
}
