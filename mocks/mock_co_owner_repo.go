package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"brokerdocs/internal/domain"
)

// MockCoOwnerRepo is a mock implementation of port.CoOwnerRepository.
type MockCoOwnerRepo struct {
	mock.Mock
}

func (m *MockCoOwnerRepo) Create(ctx context.Context, co *domain.CoOwner) error {
	args := m.Called(ctx, co)
	return args.Error(0)
}

func (m *MockCoOwnerRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.CoOwner, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CoOwner), args.Error(1)
}

func (m *MockCoOwnerRepo) ListByTransaction(ctx context.Context, transactionID uuid.UUID) ([]domain.CoOwner, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CoOwner), args.Error(1)
}

func (m *MockCoOwnerRepo) ListActiveByTransaction(ctx context.Context, transactionID uuid.UUID) ([]domain.CoOwner, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CoOwner), args.Error(1)
}

func (m *MockCoOwnerRepo) Update(ctx context.Context, co *domain.CoOwner) error {
	args := m.Called(ctx, co)
	return args.Error(0)
}

func (m *MockCoOwnerRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
