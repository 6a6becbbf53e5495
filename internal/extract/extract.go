// Package extract reads the text layer of a PDF page by page.
//
// It decodes the document with its own parser and never shares decoder
// state with the raster pass in package render.
package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/jackzampolin/docsort/internal/types"
)

// ErrEmptyTextLayer is wrapped by the failure returned when every page of a
// document extracts to whitespace.
var ErrEmptyTextLayer = errors.New("no usable text layer")

// Config configures an Extractor.
type Config struct {
	Logger *slog.Logger
}

// Extractor produces PageRecords from a document's text layer.
type Extractor struct {
	logger *slog.Logger
}

// New creates an Extractor.
func New(cfg Config) *Extractor {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// Extract returns one record per physical page, in document order, with
// Source running 1..N. Pages whose text cannot be read carry "".
//
// If the document cannot be opened, Extract returns a types.Failure of kind
// FailureOpen. If it opens but no page has non-whitespace text, it returns a
// types.Failure of kind FailureEmptyText wrapping ErrEmptyTextLayer. In both
// cases the record slice is nil.
func (e *Extractor) Extract(ctx context.Context, path string) ([]types.PageRecord, error) {
	name := filepath.Base(path)

	f, r, numPages, err := open(path)
	if err != nil {
		e.logger.Warn("failed to open document for text", "file", name, "error", err)
		return nil, types.NewFailure(types.FailureOpen, name, err)
	}
	defer f.Close()

	records := make([]types.PageRecord, 0, numPages)
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := pageText(r, i)
		if err != nil {
			e.logger.Warn("failed to extract page text; using empty page", "file", name, "page", i, "total", numPages, "error", err)
			text = ""
		}
		e.logger.Debug("extracted page text", "file", name, "page", i, "chars", len(text))

		records = append(records, types.PageRecord{
			Source:   i,
			Content:  text,
			FileName: name,
		})
	}

	if !HasText(records) {
		e.logger.Info("document has no usable text layer", "file", name, "pages", numPages)
		return nil, types.NewFailure(types.FailureEmptyText, name, ErrEmptyTextLayer)
	}

	return records, nil
}

// HasText reports whether any record has non-whitespace content.
func HasText(records []types.PageRecord) bool {
	for _, rec := range records {
		if strings.TrimSpace(rec.Content) != "" {
			return true
		}
	}
	return false
}

// open opens the document and reads its page count. The parser panics on
// some malformed inputs; those are returned as errors.
func open(path string) (f *os.File, r *pdf.Reader, numPages int, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if f != nil {
				f.Close()
			}
			f, r, numPages = nil, nil, 0
			err = fmt.Errorf("malformed document: %v", rec)
		}
	}()

	f, r, err = pdf.Open(path)
	if err != nil {
		return nil, nil, 0, err
	}
	return f, r, r.NumPage(), nil
}

// pageText returns the plain text of page i (1-indexed).
func pageText(r *pdf.Reader, i int) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = fmt.Errorf("page %d: %v", i, rec)
		}
	}()

	p := r.Page(i)
	if p.V.IsNull() {
		return "", fmt.Errorf("page %d: missing page object", i)
	}
	return p.GetPlainText(nil)
}
