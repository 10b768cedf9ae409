package analysis

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"strings"

	"github.com/disintegration/imaging"

	"brokerdocs/internal/domain"
	"brokerdocs/internal/port"
)

// Input is one attached file to analyze, with its declared document
// family driving the targeted extraction and confidence stages.
type Input struct {
	FileName    string
	ContentType string
	Data        []byte
	Category    domain.DocumentCategory
}

// Pipeline turns file bytes into legibility, text, extraction and
// confidence signals, and decides whether the document qualifies for
// auto-validation. Only the metadata stage is fatal; every later stage
// degrades to neutral defaults on failure.
type Pipeline struct {
	ocr        port.TextExtractor
	rasterizer port.Rasterizer
	pdfText    port.PDFTextSource
	pageCap    int
}

// NewPipeline creates a Pipeline. pageCap bounds how many PDF pages are
// rasterized and scored.
func NewPipeline(ocr port.TextExtractor, rasterizer port.Rasterizer, pdfText port.PDFTextSource, pageCap int) *Pipeline {
	if pageCap <= 0 {
		pageCap = 5
	}
	return &Pipeline{ocr: ocr, rasterizer: rasterizer, pdfText: pdfText, pageCap: pageCap}
}

// Run executes all six stages. The returned error is non-nil only when
// stage one fails; every other failure is recorded in the result and
// degraded past.
func (p *Pipeline) Run(ctx context.Context, input Input) (*Result, error) {
	// Stage 1: file metadata. The only fatal stage.
	if input.FileName == "" || len(input.Data) == 0 {
		return nil, fmt.Errorf("analysis: file metadata incomplete (name=%q, %d bytes)", input.FileName, len(input.Data))
	}
	if _, ok := domain.AllowedContentTypes[input.ContentType]; !ok {
		return nil, fmt.Errorf("analysis: unsupported content type %q", input.ContentType)
	}

	result := &Result{
		FileName:    input.FileName,
		ContentType: input.ContentType,
		FileSize:    int64(len(input.Data)),
	}

	isPDF := input.ContentType == "application/pdf"

	// Stage 2: legibility.
	var pages []image.Image
	if isPDF {
		rasterized, err := p.rasterizer.Rasterize(ctx, input.Data, p.pageCap)
		if err != nil {
			p.degrade(result, "legibility", err)
		} else {
			pages = rasterized
		}
	} else {
		img, err := imaging.Decode(bytes.NewReader(input.Data))
		if err != nil {
			p.degrade(result, "legibility", err)
		} else {
			pages = []image.Image{img}
		}
	}
	result.Legibility = scorePages(pages)

	// Stage 3: text extraction. Native PDF text wins when it passes the
	// quality heuristic; everything else goes through OCR.
	text, source := p.extractText(ctx, input, pages, result)
	result.Text = text
	result.TextSource = source
	result.TextLength = len(strings.TrimSpace(text))

	// Stage 4: structured metadata.
	result.Extracted = extractMetadata(text, input.Category)

	// Stage 5: confidence against the declared family.
	result.Confidence, result.KeywordsFound, result.KeywordsExpected = scoreConfidence(text, input.Category)
	result.Issues = collectIssues(result.Confidence, result.Extracted, result.KeywordsExpected)

	// Stage 6: auto-validation decision.
	result.AutoValidate = shouldAutoValidate(result.Confidence, result.Issues, result.Legibility.Score)

	return result, nil
}

func (p *Pipeline) extractText(ctx context.Context, input Input, pages []image.Image, result *Result) (string, string) {
	if input.ContentType == "application/pdf" {
		native, err := p.pdfText.NativeText(ctx, input.Data, p.pageCap)
		if err != nil {
			p.degrade(result, "native text", err)
		} else if nativeTextUsable(native) {
			return native, "native"
		}

		var parts []string
		for i, page := range pages {
			encoded, err := encodePNG(page)
			if err != nil {
				p.degrade(result, fmt.Sprintf("page %d encode", i+1), err)
				continue
			}
			text, err := p.ocr.ExtractText(ctx, encoded)
			if err != nil {
				p.degrade(result, fmt.Sprintf("page %d ocr", i+1), err)
				continue
			}
			parts = append(parts, text)
		}
		if len(parts) == 0 {
			return "", ""
		}
		return strings.Join(parts, "\n"), "ocr"
	}

	text, err := p.ocr.ExtractText(ctx, input.Data)
	if err != nil {
		p.degrade(result, "ocr", err)
		return "", ""
	}
	return text, "ocr"
}

// degrade records a non-fatal stage failure and moves on.
func (p *Pipeline) degrade(result *Result, stage string, err error) {
	log.Printf("analysis: %s degraded for %s: %v", stage, result.FileName, err)
	result.StageErrors = append(result.StageErrors, fmt.Sprintf("%s: %v", stage, err))
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
