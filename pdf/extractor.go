// Package pdf implements text extraction from PDF documents using pdfcpu.
package pdf

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/tomecat/tomecat"
)

// Ensure Extractor implements tomecat.TextExtractor at compile time.
var _ tomecat.TextExtractor = (*Extractor)(nil)

// Extractor extracts page-structured text from PDF bytes. Page content
// streams are decoded with pdfcpu and their text-showing operators are
// scanned for string tokens.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// pageNumberRE pulls the page number out of pdfcpu's extracted content
// file names.
var pageNumberRE = regexp.MustCompile(`(\d+)\.txt$`)

// Extract parses data as a PDF and returns its per-page text tokens.
// Pages whose content cannot be decoded contribute an empty token list.
func (e *Extractor) Extract(ctx context.Context, data []byte) (*tomecat.ExtractedDoc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pageCount, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return nil, tomecat.Errorf(tomecat.EINVALID, "unreadable PDF: %v", err)
	}

	tmpDir, err := os.MkdirTemp("", "tomecat-pdf-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)

	inFile := filepath.Join(tmpDir, "in.pdf")
	if err := os.WriteFile(inFile, data, 0o600); err != nil {
		return nil, err
	}

	outDir := filepath.Join(tmpDir, "content")
	if err := os.MkdirAll(outDir, 0o700); err != nil {
		return nil, err
	}
	if err := api.ExtractContentFile(inFile, outDir, nil, nil); err != nil {
		return nil, tomecat.Errorf(tomecat.EINVALID, "extracting PDF content: %v", err)
	}

	doc := &tomecat.ExtractedDoc{Pages: make([]tomecat.ExtractedPage, pageCount)}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := pageNumberRE.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		pageNum, err := strconv.Atoi(m[1])
		if err != nil || pageNum < 1 || pageNum > pageCount {
			continue
		}

		content, err := os.ReadFile(filepath.Join(outDir, entry.Name()))
		if err != nil {
			continue
		}
		doc.Pages[pageNum-1].Tokens = parseContent(content)
	}

	return doc, nil
}
