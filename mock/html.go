package mock

import "github.com/tomecat/tomecat"

var _ tomecat.HTMLExtractor = (*HTMLExtractor)(nil)

// HTMLExtractor is a mock implementation of tomecat.HTMLExtractor.
type HTMLExtractor struct {
	ExtractFn func(html string) (*tomecat.ExtractResult, error)
}

func (e *HTMLExtractor) Extract(html string) (*tomecat.ExtractResult, error) {
	return e.ExtractFn(html)
}

var _ tomecat.Converter = (*Converter)(nil)

// Converter is a mock implementation of tomecat.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
