// Package pdfconv adapts MuPDF (via go-fitz) to the analysis pipeline's
// PDF rasterization and native-text contracts.
package pdfconv

import (
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/gen2brain/go-fitz"

	"brokerdocs/internal/port"
)

type converter struct{}

// NewConverter creates the go-fitz backed Rasterizer and PDFTextSource.
func NewConverter() interface {
	port.Rasterizer
	port.PDFTextSource
} {
	return &converter{}
}

// Rasterize renders up to maxPages pages as images.
func (c *converter) Rasterize(ctx context.Context, pdf []byte, maxPages int) ([]image.Image, error) {
	doc, err := fitz.NewFromMemory(pdf)
	if err != nil {
		return nil, fmt.Errorf("pdfconv.Rasterize: %w", err)
	}
	defer doc.Close()

	n := doc.NumPage()
	if maxPages > 0 && n > maxPages {
		n = maxPages
	}

	pages := make([]image.Image, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := doc.Image(i)
		if err != nil {
			return nil, fmt.Errorf("pdfconv.Rasterize page %d: %w", i+1, err)
		}
		pages = append(pages, img)
	}
	return pages, nil
}

// NativeText extracts the embedded text layer of up to maxPages pages.
func (c *converter) NativeText(ctx context.Context, pdf []byte, maxPages int) (string, error) {
	doc, err := fitz.NewFromMemory(pdf)
	if err != nil {
		return "", fmt.Errorf("pdfconv.NativeText: %w", err)
	}
	defer doc.Close()

	n := doc.NumPage()
	if maxPages > 0 && n > maxPages {
		n = maxPages
	}

	var parts []string
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		text, err := doc.Text(i)
		if err != nil {
			return "", fmt.Errorf("pdfconv.NativeText page %d: %w", i+1, err)
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, "\n"), nil
}
