package mocks

import (
	"context"
	"image"

	"github.com/stretchr/testify/mock"
)

// MockTextExtractor is a mock implementation of port.TextExtractor.
type MockTextExtractor struct {
	mock.Mock
}

func (m *MockTextExtractor) ExtractText(ctx context.Context, imageBytes []byte) (string, error) {
	args := m.Called(ctx, imageBytes)
	return args.String(0), args.Error(1)
}

// MockRasterizer is a mock implementation of port.Rasterizer.
type MockRasterizer struct {
	mock.Mock
}

func (m *MockRasterizer) Rasterize(ctx context.Context, pdf []byte, maxPages int) ([]image.Image, error) {
	args := m.Called(ctx, pdf, maxPages)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]image.Image), args.Error(1)
}

// MockPDFTextSource is a mock implementation of port.PDFTextSource.
type MockPDFTextSource struct {
	mock.Mock
}

func (m *MockPDFTextSource) NativeText(ctx context.Context, pdf []byte, maxPages int) (string, error) {
	args := m.Called(ctx, pdf, maxPages)
	return args.String(0), args.Error(1)
}
