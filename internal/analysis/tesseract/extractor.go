// Package tesseract adapts the Tesseract OCR engine to the analysis
// pipeline's text extraction contract.
package tesseract

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"

	"brokerdocs/internal/port"
)

type extractor struct {
	languages []string
}

// NewExtractor creates a Tesseract-backed TextExtractor. Source
// documents are Spanish-language, so "spa" should lead the language
// list.
func NewExtractor(languages ...string) port.TextExtractor {
	if len(languages) == 0 {
		languages = []string{"spa", "eng"}
	}
	return &extractor{languages: languages}
}

// ExtractText runs OCR on one encoded image. A fresh client per call:
// gosseract clients are not safe for concurrent use.
func (e *extractor) ExtractText(ctx context.Context, imageBytes []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(e.languages...); err != nil {
		return "", fmt.Errorf("tesseract.ExtractText: %w", err)
	}
	if err := client.SetImageFromBytes(imageBytes); err != nil {
		return "", fmt.Errorf("tesseract.ExtractText: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("tesseract.ExtractText: %w", err)
	}
	return text, nil
}
