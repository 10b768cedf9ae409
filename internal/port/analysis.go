package port

import (
	"context"
	"image"
)

// TextExtractor abstracts OCR. The input is an encoded image (PNG, JPEG).
type TextExtractor interface {
	ExtractText(ctx context.Context, imageBytes []byte) (string, error)
}

// Rasterizer renders PDF pages to images, up to maxPages.
type Rasterizer interface {
	Rasterize(ctx context.Context, pdf []byte, maxPages int) ([]image.Image, error)
}

// PDFTextSource extracts text embedded natively in a PDF, up to maxPages.
// The pipeline prefers this over OCR when the result passes its quality
// heuristic.
type PDFTextSource interface {
	NativeText(ctx context.Context, pdf []byte, maxPages int) (string, error)
}
