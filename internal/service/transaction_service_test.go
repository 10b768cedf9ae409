package service_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"brokerdocs/internal/domain"
	"brokerdocs/internal/port"
	"brokerdocs/internal/service"
	"brokerdocs/mocks"
)

// fakeReassignment records ReassignPrincipal invocations.
type fakeReassignment struct {
	calls int
	err   error
}

func (f *fakeReassignment) ReassignPrincipal(ctx context.Context, transactionID uuid.UUID) error {
	f.calls++
	return f.err
}

type transactionFixture struct {
	txnRepo      *mocks.MockTransactionRepo
	coOwnerRepo  *mocks.MockCoOwnerRepo
	clientDir    *mocks.MockClientDirectory
	resolver     *fakeResolver
	reassignment *fakeReassignment
	svc          service.TransactionService
}

func newTransactionFixture() *transactionFixture {
	f := &transactionFixture{
		txnRepo:      new(mocks.MockTransactionRepo),
		coOwnerRepo:  new(mocks.MockCoOwnerRepo),
		clientDir:    new(mocks.MockClientDirectory),
		resolver:     &fakeResolver{},
		reassignment: &fakeReassignment{},
	}
	f.svc = service.NewTransactionService(f.txnRepo, f.coOwnerRepo, f.clientDir, f.resolver, f.reassignment)
	return f
}

func TestTransactionService_Create_RunsFullPipeline(t *testing.T) {
	f := newTransactionFixture()
	createdBy := uuid.New()
	scenarioID := uuid.New()
	offererID := uuid.New()

	f.clientDir.On("FindOrCreate", mock.Anything, mock.MatchedBy(func(attrs port.ClientAttrs) bool {
		return attrs.FullName == "Vendedor Uno"
	})).Return(&domain.Client{ID: offererID, FullName: "Vendedor Uno"}, nil)
	f.clientDir.On("FindOrCreate", mock.Anything, mock.MatchedBy(func(attrs port.ClientAttrs) bool {
		return attrs.FullName == "Ana Torres"
	})).Return(&domain.Client{ID: uuid.New(), FullName: "Ana Torres"}, nil)

	f.txnRepo.On("Create", mock.Anything, mock.MatchedBy(func(txn *domain.Transaction) bool {
		return txn.PropertyAddress == "Av. Reforma 123" &&
			txn.OffererClientID != nil && *txn.OffererClientID == offererID
	})).Return(nil)
	f.coOwnerRepo.On("Create", mock.Anything, mock.MatchedBy(func(co *domain.CoOwner) bool {
		return co.PersonName == "Ana Torres" && co.Role == domain.CoOwnerRoleOwner && co.Active && co.ClientID != nil
	})).Return(nil)

	txn, err := f.svc.Create(context.Background(), createdBy, service.CreateTransactionInput{
		PropertyAddress: "Av. Reforma 123",
		ScenarioID:      &scenarioID,
		LegalRepName:    "Ana Torres",
		Offerer:         &service.PartyInput{FullName: "Vendedor Uno", Email: "v@example.com"},
		CoOwners: []service.CoOwnerInput{
			{PersonName: "Ana Torres", Email: "ana@example.com", Percentage: 100},
		},
	})

	assert.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^OP-\d{8}-\d{6}$`), txn.Reference)
	assert.Equal(t, createdBy, txn.CreatedBy)
	assert.True(t, f.resolver.called)
	assert.Equal(t, 1, f.reassignment.calls)
	f.txnRepo.AssertExpectations(t)
	f.coOwnerRepo.AssertExpectations(t)
}

// A pipeline failure is logged, not surfaced: the transaction is saved
// and resolution can be replayed.
func TestTransactionService_Create_PipelineFailureDoesNotFailSave(t *testing.T) {
	f := newTransactionFixture()
	f.resolver.err = errors.New("db timeout")

	f.txnRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	txn, err := f.svc.Create(context.Background(), uuid.New(), service.CreateTransactionInput{
		PropertyAddress: "Av. Reforma 123",
	})

	assert.NoError(t, err)
	assert.NotNil(t, txn)
}

func TestTransactionService_Update_ScenarioChangeReResolves(t *testing.T) {
	f := newTransactionFixture()
	txnID := uuid.New()
	newScenarioID := uuid.New()

	f.txnRepo.On("GetByID", mock.Anything, txnID).Return(&domain.Transaction{ID: txnID}, nil)
	f.txnRepo.On("Update", mock.Anything, mock.MatchedBy(func(txn *domain.Transaction) bool {
		return txn.ScenarioID != nil && *txn.ScenarioID == newScenarioID
	})).Return(nil)

	txn, err := f.svc.Update(context.Background(), txnID, service.UpdateTransactionInput{
		ScenarioID: &newScenarioID,
	})

	assert.NoError(t, err)
	assert.Equal(t, &newScenarioID, txn.ScenarioID)
	assert.True(t, f.resolver.called)
	assert.Equal(t, 1, f.reassignment.calls)
}

func TestTransactionService_RemoveCoOwner_SoftRemoves(t *testing.T) {
	f := newTransactionFixture()
	txnID := uuid.New()
	coOwnerID := uuid.New()

	f.coOwnerRepo.On("GetByID", mock.Anything, coOwnerID).Return(&domain.CoOwner{
		ID: coOwnerID, TransactionID: txnID, Active: true,
	}, nil)
	f.coOwnerRepo.On("Deactivate", mock.Anything, coOwnerID).Return(nil)

	err := f.svc.RemoveCoOwner(context.Background(), txnID, coOwnerID)

	assert.NoError(t, err)
	assert.True(t, f.resolver.called)
	f.coOwnerRepo.AssertExpectations(t)
}

func TestTransactionService_UpdateCoOwner_PartialAndRetriggers(t *testing.T) {
	f := newTransactionFixture()
	txnID := uuid.New()
	coOwnerID := uuid.New()

	f.coOwnerRepo.On("GetByID", mock.Anything, coOwnerID).Return(&domain.CoOwner{
		ID: coOwnerID, TransactionID: txnID,
		PersonName: "Ana Torres", Role: "propietario", Percentage: 50, Active: true,
	}, nil)
	f.coOwnerRepo.On("Update", mock.Anything, mock.MatchedBy(func(co *domain.CoOwner) bool {
		return co.ID == coOwnerID && co.Percentage == 75 && co.Deceased &&
			co.PersonName == "Ana Torres" && co.Role == "propietario"
	})).Return(nil)

	pct := 75.0
	deceased := true
	coOwner, err := f.svc.UpdateCoOwner(context.Background(), txnID, coOwnerID, service.UpdateCoOwnerInput{
		Percentage: &pct,
		Deceased:   &deceased,
	})

	assert.NoError(t, err)
	assert.Equal(t, 75.0, coOwner.Percentage)
	assert.True(t, coOwner.Deceased)
	assert.True(t, f.resolver.called)
	assert.Equal(t, 1, f.reassignment.calls)
	f.coOwnerRepo.AssertExpectations(t)
}

func TestTransactionService_UpdateCoOwner_WrongTransaction(t *testing.T) {
	f := newTransactionFixture()
	coOwnerID := uuid.New()

	f.coOwnerRepo.On("GetByID", mock.Anything, coOwnerID).Return(&domain.CoOwner{
		ID: coOwnerID, TransactionID: uuid.New(),
	}, nil)

	name := "Otra Persona"
	_, err := f.svc.UpdateCoOwner(context.Background(), uuid.New(), coOwnerID, service.UpdateCoOwnerInput{
		PersonName: &name,
	})

	assert.ErrorIs(t, err, domain.ErrCoOwnerNotFound)
	f.coOwnerRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestTransactionService_RemoveCoOwner_WrongTransaction(t *testing.T) {
	f := newTransactionFixture()
	coOwnerID := uuid.New()

	f.coOwnerRepo.On("GetByID", mock.Anything, coOwnerID).Return(&domain.CoOwner{
		ID: coOwnerID, TransactionID: uuid.New(),
	}, nil)

	err := f.svc.RemoveCoOwner(context.Background(), uuid.New(), coOwnerID)

	assert.ErrorIs(t, err, domain.ErrCoOwnerNotFound)
	f.coOwnerRepo.AssertNotCalled(t, "Deactivate", mock.Anything, mock.Anything)
}

// A co-owner given without contact identifiers stays a name-only row:
// no client directory lookup happens.
func TestTransactionService_AddCoOwner_NameOnly(t *testing.T) {
	f := newTransactionFixture()
	txnID := uuid.New()

	f.txnRepo.On("GetByID", mock.Anything, txnID).Return(&domain.Transaction{ID: txnID}, nil)
	f.coOwnerRepo.On("Create", mock.Anything, mock.MatchedBy(func(co *domain.CoOwner) bool {
		return co.PersonName == "Luis Torres" && co.ClientID == nil
	})).Return(nil)

	coOwner, err := f.svc.AddCoOwner(context.Background(), txnID, service.CoOwnerInput{
		PersonName: "Luis Torres",
		Role:       "heredero",
	})

	assert.NoError(t, err)
	assert.Equal(t, "heredero", coOwner.Role)
	f.clientDir.AssertNotCalled(t, "FindOrCreate", mock.Anything, mock.Anything)
}
