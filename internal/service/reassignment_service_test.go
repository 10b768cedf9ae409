package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"brokerdocs/internal/domain"
	"brokerdocs/internal/service"
	"brokerdocs/mocks"
)

// fakeResolver records whether a re-resolve pass ran.
type fakeResolver struct {
	called bool
	result *service.ResolveResult
	err    error
}

func (f *fakeResolver) Resolve(ctx context.Context, transactionID uuid.UUID) (*service.ResolveResult, error) {
	f.called = true
	if f.result == nil {
		return &service.ResolveResult{}, f.err
	}
	return f.result, f.err
}

func reassignmentFixture(store *mocks.MockReassignmentStore) (*mocks.MockTransactionRepo, *mocks.MockTxManager, *fakeResolver, service.ReassignmentService) {
	txnRepo := new(mocks.MockTransactionRepo)
	txManager := &mocks.MockTxManager{Store: store}
	resolver := &fakeResolver{}
	svc := service.NewReassignmentService(txnRepo, txManager, resolver)
	return txnRepo, txManager, resolver, svc
}

// Legal representation moves from co-owner A to co-owner B. A's
// principal-only submissions follow: re-pointed where B lacks the type,
// deleted where B already covers it.
func TestReassignmentService_ReassignPrincipal_Migrates(t *testing.T) {
	store := new(mocks.MockReassignmentStore)
	txnRepo, txManager, resolver, svc := reassignmentFixture(store)

	txnID := uuid.New()
	aID := uuid.New()
	bID := uuid.New()
	coveredTypeID := uuid.New()
	movableTypeID := uuid.New()
	movableSubID := uuid.New()
	redundantSubID := uuid.New()

	txnRepo.On("GetByID", mock.Anything, txnID).Return(&domain.Transaction{
		ID:           txnID,
		LegalRepName: "  Berta   LOPEZ ",
	}, nil)
	txManager.On("WithinTx", mock.Anything, mock.Anything).Return(nil)

	store.On("ListCoOwnersForUpdate", mock.Anything, txnID).Return([]domain.CoOwner{
		{ID: aID, TransactionID: txnID, PersonName: "Ana Torres", Active: true, IsPrimary: true},
		{ID: bID, TransactionID: txnID, PersonName: "Berta Lopez", Active: true},
	}, nil)
	store.On("SetPrimary", mock.Anything, aID, false).Return(nil)
	store.On("SetPrimary", mock.Anything, bID, true).Return(nil)
	store.On("ListCoveredDocumentTypes", mock.Anything, txnID, bID).Return(map[uuid.UUID]bool{
		coveredTypeID: true,
	}, nil)
	store.On("ListPrincipalOnlySubmissions", mock.Anything, txnID, aID).Return([]domain.DocumentSubmission{
		{ID: redundantSubID, DocumentTypeID: coveredTypeID, CoOwnerID: &aID, PartyType: domain.PartyPrincipalCoOwner},
		{ID: movableSubID, DocumentTypeID: movableTypeID, CoOwnerID: &aID, PartyType: domain.PartyPrincipalCoOwner},
	}, nil)
	store.On("DeleteSubmission", mock.Anything, redundantSubID).Return(nil)
	store.On("ReassignSubmission", mock.Anything, movableSubID, bID).Return(nil)

	err := svc.ReassignPrincipal(context.Background(), txnID)

	assert.NoError(t, err)
	assert.True(t, resolver.called, "a change of principal must trigger a re-resolve")
	store.AssertExpectations(t)
	store.AssertNotCalled(t, "UpdateSubmissionParty", mock.Anything, mock.Anything, mock.Anything)
}

// A concurrent writer already created B's row for the type. The old row
// cannot move, so it is downgraded to a plain co-owner submission.
func TestReassignmentService_ReassignPrincipal_DowngradeOnConflict(t *testing.T) {
	store := new(mocks.MockReassignmentStore)
	txnRepo, txManager, _, svc := reassignmentFixture(store)

	txnID := uuid.New()
	aID := uuid.New()
	bID := uuid.New()
	typeID := uuid.New()
	subID := uuid.New()

	txnRepo.On("GetByID", mock.Anything, txnID).Return(&domain.Transaction{
		ID:           txnID,
		LegalRepName: "Berta Lopez",
	}, nil)
	txManager.On("WithinTx", mock.Anything, mock.Anything).Return(nil)

	store.On("ListCoOwnersForUpdate", mock.Anything, txnID).Return([]domain.CoOwner{
		{ID: aID, PersonName: "Ana Torres", Active: true, IsPrimary: true},
		{ID: bID, PersonName: "Berta Lopez", Active: true},
	}, nil)
	store.On("SetPrimary", mock.Anything, aID, false).Return(nil)
	store.On("SetPrimary", mock.Anything, bID, true).Return(nil)
	store.On("ListCoveredDocumentTypes", mock.Anything, txnID, bID).Return(map[uuid.UUID]bool{}, nil)
	store.On("ListPrincipalOnlySubmissions", mock.Anything, txnID, aID).Return([]domain.DocumentSubmission{
		{ID: subID, DocumentTypeID: typeID, CoOwnerID: &aID, PartyType: domain.PartyPrincipalCoOwner},
	}, nil)
	store.On("ReassignSubmission", mock.Anything, subID, bID).Return(domain.ErrSubmissionExists)
	store.On("UpdateSubmissionParty", mock.Anything, subID, domain.PartyCoOwner).Return(nil)

	err := svc.ReassignPrincipal(context.Background(), txnID)

	assert.NoError(t, err)
	store.AssertExpectations(t)
}

// When the declared legal representative already holds the primary
// flag, nothing changes and no re-resolve runs.
func TestReassignmentService_ReassignPrincipal_NoChange(t *testing.T) {
	store := new(mocks.MockReassignmentStore)
	txnRepo, txManager, resolver, svc := reassignmentFixture(store)

	txnID := uuid.New()
	aID := uuid.New()

	txnRepo.On("GetByID", mock.Anything, txnID).Return(&domain.Transaction{
		ID:           txnID,
		LegalRepName: "Ana Torres",
	}, nil)
	txManager.On("WithinTx", mock.Anything, mock.Anything).Return(nil)

	store.On("ListCoOwnersForUpdate", mock.Anything, txnID).Return([]domain.CoOwner{
		{ID: aID, PersonName: "Ana Torres", Active: true, IsPrimary: true},
	}, nil)

	err := svc.ReassignPrincipal(context.Background(), txnID)

	assert.NoError(t, err)
	assert.False(t, resolver.called)
	store.AssertNotCalled(t, "SetPrimary", mock.Anything, mock.Anything, mock.Anything)
}

// No previous primary: the new one is flagged, no submissions move, the
// resolver backfills what the new principal owes.
func TestReassignmentService_ReassignPrincipal_FirstPrimary(t *testing.T) {
	store := new(mocks.MockReassignmentStore)
	txnRepo, txManager, resolver, svc := reassignmentFixture(store)

	txnID := uuid.New()
	aID := uuid.New()

	txnRepo.On("GetByID", mock.Anything, txnID).Return(&domain.Transaction{ID: txnID}, nil)
	txManager.On("WithinTx", mock.Anything, mock.Anything).Return(nil)

	store.On("ListCoOwnersForUpdate", mock.Anything, txnID).Return([]domain.CoOwner{
		{ID: aID, PersonName: "Ana Torres", Active: true},
	}, nil)
	store.On("SetPrimary", mock.Anything, aID, true).Return(nil)

	err := svc.ReassignPrincipal(context.Background(), txnID)

	assert.NoError(t, err)
	assert.True(t, resolver.called)
	store.AssertNotCalled(t, "ListPrincipalOnlySubmissions", mock.Anything, mock.Anything, mock.Anything)
}

// A conflicting flag flip rolls the whole migration back.
func TestReassignmentService_ReassignPrincipal_ConflictAborts(t *testing.T) {
	store := new(mocks.MockReassignmentStore)
	txnRepo, txManager, resolver, svc := reassignmentFixture(store)

	txnID := uuid.New()
	aID := uuid.New()
	bID := uuid.New()

	txnRepo.On("GetByID", mock.Anything, txnID).Return(&domain.Transaction{
		ID:           txnID,
		LegalRepName: "Berta Lopez",
	}, nil)
	txManager.On("WithinTx", mock.Anything, mock.Anything).Return(nil)

	store.On("ListCoOwnersForUpdate", mock.Anything, txnID).Return([]domain.CoOwner{
		{ID: aID, PersonName: "Ana Torres", Active: true, IsPrimary: true},
		{ID: bID, PersonName: "Berta Lopez", Active: true},
	}, nil)
	store.On("SetPrimary", mock.Anything, aID, false).Return(nil)
	store.On("SetPrimary", mock.Anything, bID, true).Return(domain.ErrPrincipalConflict)

	err := svc.ReassignPrincipal(context.Background(), txnID)

	assert.ErrorIs(t, err, domain.ErrPrincipalConflict)
	assert.False(t, resolver.called)
}
