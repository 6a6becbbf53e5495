// Package render rasterizes PDF pages to PNG using MuPDF.
//
// Rendering opens its own document handle; it shares nothing with the
// text pass in package extract.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"log/slog"
	"path/filepath"

	"github.com/gen2brain/go-fitz"

	"github.com/jackzampolin/docsort/internal/types"
)

// DefaultDPI is the resolution pages are rendered at.
const DefaultDPI = 200

// ErrNoPages is wrapped by the failure returned for documents without pages.
var ErrNoPages = errors.New("document has no pages")

// Config configures a Rasterizer.
type Config struct {
	DPI    float64
	Logger *slog.Logger
}

// Rasterizer renders every page of a document.
type Rasterizer struct {
	dpi     float64
	logger  *slog.Logger
	encoder *png.Encoder
}

// New creates a Rasterizer. A zero DPI selects DefaultDPI.
func New(cfg Config) *Rasterizer {
	if cfg.DPI <= 0 {
		cfg.DPI = DefaultDPI
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Rasterizer{
		dpi:     cfg.DPI,
		logger:  cfg.Logger,
		encoder: &png.Encoder{CompressionLevel: png.DefaultCompression},
	}
}

// DPI returns the configured resolution.
func (r *Rasterizer) DPI() float64 {
	return r.dpi
}

// Rasterize renders all pages in order, Source running 1..N.
//
// Any failure returns a types.Failure of kind FailureRender and no images:
// a partial set would misalign with the text pass when paired by page.
func (r *Rasterizer) Rasterize(ctx context.Context, path string) ([]types.PageImage, error) {
	name := filepath.Base(path)

	images, err := r.rasterize(ctx, path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		r.logger.Warn("failed to render document", "file", name, "error", err)
		return nil, types.NewFailure(types.FailureRender, name, err)
	}
	return images, nil
}

func (r *Rasterizer) rasterize(ctx context.Context, path string) (images []types.PageImage, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			images = nil
			err = fmt.Errorf("renderer panic: %v", rec)
		}
	}()

	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	defer doc.Close()

	pageCount := doc.NumPage()
	if pageCount <= 0 {
		return nil, ErrNoPages
	}

	images = make([]types.PageImage, 0, pageCount)
	for i := 0; i < pageCount; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		img, err := doc.ImageDPI(i, r.dpi)
		if err != nil {
			return nil, fmt.Errorf("failed to render page %d: %w", i+1, err)
		}

		var buf bytes.Buffer
		if err := r.encoder.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("failed to encode page %d: %w", i+1, err)
		}

		bounds := img.Bounds()
		r.logger.Debug("rendered page", "file", filepath.Base(path), "page", i+1, "width", bounds.Dx(), "height", bounds.Dy())

		images = append(images, types.PageImage{
			Source: i + 1,
			Bytes:  buf.Bytes(),
			Width:  bounds.Dx(),
			Height: bounds.Dy(),
		})
	}

	return images, nil
}
