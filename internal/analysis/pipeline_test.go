package analysis

import (
	"bytes"
	"context"
	"errors"
	"image"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"brokerdocs/internal/domain"
	"brokerdocs/mocks"
)

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}
	return buf.Bytes()
}

func newTestPipeline() (*mocks.MockTextExtractor, *mocks.MockRasterizer, *mocks.MockPDFTextSource, *Pipeline) {
	ocr := new(mocks.MockTextExtractor)
	rasterizer := new(mocks.MockRasterizer)
	pdfText := new(mocks.MockPDFTextSource)
	return ocr, rasterizer, pdfText, NewPipeline(ocr, rasterizer, pdfText, 5)
}

func TestPipeline_Run_MetadataStageIsFatal(t *testing.T) {
	_, _, _, p := newTestPipeline()

	_, err := p.Run(context.Background(), Input{FileName: "", Data: []byte("x"), ContentType: "image/png"})
	assert.Error(t, err)

	_, err = p.Run(context.Background(), Input{FileName: "a.png", Data: nil, ContentType: "image/png"})
	assert.Error(t, err)

	_, err = p.Run(context.Background(), Input{FileName: "a.exe", Data: []byte("x"), ContentType: "application/x-msdownload"})
	assert.Error(t, err)
}

func TestPipeline_Run_ImageThroughOCR(t *testing.T) {
	ocr, _, _, p := newTestPipeline()

	data := pngBytes(t, checkerboard(100, 100))
	ocr.On("ExtractText", mock.Anything, data).
		Return("CREDENCIAL para votar Instituto Nacional Electoral CURP pasaporte vigencia 31/12/2030", nil)

	result, err := p.Run(context.Background(), Input{
		FileName:    "ine.png",
		ContentType: "image/png",
		Data:        data,
		Category:    domain.CategoryIdentity,
	})

	assert.NoError(t, err)
	assert.Equal(t, "ocr", result.TextSource)
	assert.Empty(t, result.StageErrors)
	assert.Greater(t, result.Legibility.Score, 60.0)
	assert.Contains(t, result.Extracted.Dates, "31/12/2030")
	assert.Greater(t, result.Confidence, 70.0)
	assert.Empty(t, result.Issues)
	assert.True(t, result.AutoValidate)
}

func TestPipeline_Run_PDFPrefersNativeText(t *testing.T) {
	ocr, rasterizer, pdfText, p := newTestPipeline()

	pdf := []byte("%PDF-1.4 fixture")
	rasterizer.On("Rasterize", mock.Anything, pdf, 5).
		Return([]image.Image{checkerboard(100, 100)}, nil)
	pdfText.On("NativeText", mock.Anything, pdf, 5).
		Return("Escritura pública número 48,215 registro público de la propiedad folio real notario 15 de marzo de 2019", nil)

	result, err := p.Run(context.Background(), Input{
		FileName:    "escritura.pdf",
		ContentType: "application/pdf",
		Data:        pdf,
		Category:    domain.CategoryProperty,
	})

	assert.NoError(t, err)
	assert.Equal(t, "native", result.TextSource)
	assert.Contains(t, result.Extracted.DeedNumbers, "48,215")
	assert.True(t, result.AutoValidate)
	ocr.AssertNotCalled(t, "ExtractText", mock.Anything, mock.Anything)
}

// A scanned PDF with an unusable text layer falls back to per-page OCR.
func TestPipeline_Run_PDFFallsBackToOCR(t *testing.T) {
	ocr, rasterizer, pdfText, p := newTestPipeline()

	pdf := []byte("%PDF-1.4 fixture")
	rasterizer.On("Rasterize", mock.Anything, pdf, 5).
		Return([]image.Image{checkerboard(100, 100), checkerboard(100, 100)}, nil)
	pdfText.On("NativeText", mock.Anything, pdf, 5).Return("��", nil)
	ocr.On("ExtractText", mock.Anything, mock.Anything).Return("página", nil).Twice()

	result, err := p.Run(context.Background(), Input{
		FileName:    "escaneo.pdf",
		ContentType: "application/pdf",
		Data:        pdf,
		Category:    domain.CategoryOther,
	})

	assert.NoError(t, err)
	assert.Equal(t, "ocr", result.TextSource)
	assert.Equal(t, "página\npágina", result.Text)
	ocr.AssertExpectations(t)
}

// Legibility and text failures degrade to neutral results instead of
// failing the run; the stage errors are kept for the operator.
func TestPipeline_Run_DegradesPastStageFailures(t *testing.T) {
	ocr, rasterizer, pdfText, p := newTestPipeline()

	pdf := []byte("%PDF-1.4 fixture")
	rasterizer.On("Rasterize", mock.Anything, pdf, 5).
		Return(nil, errors.New("corrupt xref table"))
	pdfText.On("NativeText", mock.Anything, pdf, 5).
		Return("", errors.New("corrupt xref table"))

	result, err := p.Run(context.Background(), Input{
		FileName:    "roto.pdf",
		ContentType: "application/pdf",
		Data:        pdf,
		Category:    domain.CategoryLegal,
	})

	assert.NoError(t, err)
	assert.Equal(t, neutralScore, result.Legibility.Score)
	assert.Empty(t, result.Text)
	assert.Zero(t, result.Confidence)
	assert.False(t, result.AutoValidate)
	assert.NotEmpty(t, result.StageErrors)
	ocr.AssertNotCalled(t, "ExtractText", mock.Anything, mock.Anything)
}

// An undecodable image still produces a result with neutral legibility.
func TestPipeline_Run_UndecodableImage(t *testing.T) {
	ocr, _, _, p := newTestPipeline()

	data := []byte("definitely not a png")
	ocr.On("ExtractText", mock.Anything, data).Return("texto", nil)

	result, err := p.Run(context.Background(), Input{
		FileName:    "foto.heic",
		ContentType: "image/heic",
		Data:        data,
		Category:    domain.CategoryOther,
	})

	assert.NoError(t, err)
	assert.Equal(t, neutralScore, result.Legibility.Score)
	assert.Equal(t, "texto", result.Text)
	assert.NotEmpty(t, result.StageErrors)
}
