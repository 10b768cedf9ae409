package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"brokerdocs/internal/domain"
)

// MockReviewRepo is a mock implementation of port.ReviewRepository.
type MockReviewRepo struct {
	mock.Mock
}

func (m *MockReviewRepo) ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]domain.SubmissionReview, error) {
	args := m.Called(ctx, submissionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SubmissionReview), args.Error(1)
}

// MockNoteRepo is a mock implementation of port.NoteRepository.
type MockNoteRepo struct {
	mock.Mock
}

func (m *MockNoteRepo) Create(ctx context.Context, note *domain.SubmissionNote) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *MockNoteRepo) GetByID(ctx context.Context, noteID uuid.UUID) (*domain.SubmissionNote, error) {
	args := m.Called(ctx, noteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SubmissionNote), args.Error(1)
}

func (m *MockNoteRepo) ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]domain.SubmissionNote, error) {
	args := m.Called(ctx, submissionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SubmissionNote), args.Error(1)
}

func (m *MockNoteRepo) GetLatestByAuthor(ctx context.Context, submissionID, authorID uuid.UUID) (*domain.SubmissionNote, error) {
	args := m.Called(ctx, submissionID, authorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SubmissionNote), args.Error(1)
}

func (m *MockNoteRepo) Delete(ctx context.Context, noteID uuid.UUID) error {
	args := m.Called(ctx, noteID)
	return args.Error(0)
}
