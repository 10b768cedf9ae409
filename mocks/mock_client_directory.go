package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"brokerdocs/internal/domain"
	"brokerdocs/internal/port"
)

// MockClientDirectory is a mock implementation of port.ClientDirectory.
type MockClientDirectory struct {
	mock.Mock
}

func (m *MockClientDirectory) FindOrCreate(ctx context.Context, attrs port.ClientAttrs) (*domain.Client, error) {
	args := m.Called(ctx, attrs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientDirectory) GetByID(ctx context.Context, clientID uuid.UUID) (*domain.Client, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}
