package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"brokerdocs/internal/domain"
)

// MockSubmissionRepo is a mock implementation of port.SubmissionRepository.
type MockSubmissionRepo struct {
	mock.Mock
}

func (m *MockSubmissionRepo) Create(ctx context.Context, sub *domain.DocumentSubmission) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *MockSubmissionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.DocumentSubmission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentSubmission), args.Error(1)
}

func (m *MockSubmissionRepo) ListByTransaction(ctx context.Context, transactionID uuid.UUID) ([]domain.DocumentSubmission, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DocumentSubmission), args.Error(1)
}

func (m *MockSubmissionRepo) UpdateLifecycle(ctx context.Context, sub *domain.DocumentSubmission, review *domain.SubmissionReview) error {
	args := m.Called(ctx, sub, review)
	return args.Error(0)
}

func (m *MockSubmissionRepo) UpdateAnalysis(ctx context.Context, sub *domain.DocumentSubmission) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *MockSubmissionRepo) ClaimQueued(ctx context.Context, limit int, staleBefore time.Time) ([]domain.DocumentSubmission, error) {
	args := m.Called(ctx, limit, staleBefore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DocumentSubmission), args.Error(1)
}

func (m *MockSubmissionRepo) ListExpiringBetween(ctx context.Context, from, to time.Time) ([]domain.DocumentSubmission, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DocumentSubmission), args.Error(1)
}
