package tomecat

import "context"

// Token is a positioned text fragment on a page. Positions are approximate
// and normalized to the page box.
type Token struct {
	Text string  `json:"text"`
	X    float64 `json:"x,omitempty"`
	Y    float64 `json:"y,omitempty"`
}

// ExtractedPage is the token sequence of one page.
type ExtractedPage struct {
	Tokens []Token `json:"tokens"`
}

// Text joins the page's tokens into a single string.
func (p *ExtractedPage) Text() string {
	if len(p.Tokens) == 0 {
		return ""
	}
	n := 0
	for _, t := range p.Tokens {
		n += len(t.Text) + 1
	}
	b := make([]byte, 0, n)
	for i, t := range p.Tokens {
		if i > 0 {
			b = append(b, ' ')
		}
		b = append(b, t.Text...)
	}
	return string(b)
}

// ExtractedDoc is the page-structured text content of a document.
type ExtractedDoc struct {
	Pages []ExtractedPage `json:"pages"`
}

// TextExtractor turns document bytes into page-structured text.
// Unparseable input surfaces as a typed error, never a panic.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte) (*ExtractedDoc, error)
}
