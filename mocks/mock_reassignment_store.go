package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"brokerdocs/internal/domain"
	"brokerdocs/internal/port"
)

// MockReassignmentStore is a mock implementation of port.ReassignmentStore.
type MockReassignmentStore struct {
	mock.Mock
}

func (m *MockReassignmentStore) ListCoOwnersForUpdate(ctx context.Context, transactionID uuid.UUID) ([]domain.CoOwner, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CoOwner), args.Error(1)
}

func (m *MockReassignmentStore) SetPrimary(ctx context.Context, coOwnerID uuid.UUID, primary bool) error {
	args := m.Called(ctx, coOwnerID, primary)
	return args.Error(0)
}

func (m *MockReassignmentStore) ListPrincipalOnlySubmissions(ctx context.Context, transactionID, coOwnerID uuid.UUID) ([]domain.DocumentSubmission, error) {
	args := m.Called(ctx, transactionID, coOwnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DocumentSubmission), args.Error(1)
}

func (m *MockReassignmentStore) ListCoveredDocumentTypes(ctx context.Context, transactionID, coOwnerID uuid.UUID) (map[uuid.UUID]bool, error) {
	args := m.Called(ctx, transactionID, coOwnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]bool), args.Error(1)
}

func (m *MockReassignmentStore) ReassignSubmission(ctx context.Context, submissionID, newCoOwnerID uuid.UUID) error {
	args := m.Called(ctx, submissionID, newCoOwnerID)
	return args.Error(0)
}

func (m *MockReassignmentStore) UpdateSubmissionParty(ctx context.Context, submissionID uuid.UUID, party domain.PartyType) error {
	args := m.Called(ctx, submissionID, party)
	return args.Error(0)
}

func (m *MockReassignmentStore) DeleteSubmission(ctx context.Context, submissionID uuid.UUID) error {
	args := m.Called(ctx, submissionID)
	return args.Error(0)
}

// MockTxManager is a mock implementation of port.TxManager. It invokes
// the callback with the provided store so tests can exercise the code
// that runs inside the transaction.
type MockTxManager struct {
	mock.Mock
	Store port.ReassignmentStore
}

func (m *MockTxManager) WithinTx(ctx context.Context, fn func(store port.ReassignmentStore) error) error {
	args := m.Called(ctx, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(m.Store)
}
