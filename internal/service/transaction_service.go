package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"brokerdocs/internal/domain"
	"brokerdocs/internal/port"
)

// CoOwnerInput is the DTO for attaching one co-owner to a transaction.
type CoOwnerInput struct {
	PersonName string  `json:"person_name" binding:"required"`
	Role       string  `json:"role"`
	Percentage float64 `json:"percentage"`
	Email      string  `json:"email"`
	Phone      string  `json:"phone"`
	CURP       string  `json:"curp"`
	RFC        string  `json:"rfc"`
}

// UpdateCoOwnerInput carries partial co-owner changes. Nil fields are
// left untouched.
type UpdateCoOwnerInput struct {
	PersonName *string  `json:"person_name"`
	Role       *string  `json:"role"`
	Percentage *float64 `json:"percentage"`
	Deceased   *bool    `json:"deceased"`
}

// PartyInput identifies the offerer or acquirer client.
type PartyInput struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	CURP     string `json:"curp"`
	RFC      string `json:"rfc"`
}

// CreateTransactionInput is the DTO for opening a transaction.
type CreateTransactionInput struct {
	PropertyAddress string         `json:"property_address" binding:"required"`
	ScenarioID      *uuid.UUID     `json:"scenario_id"`
	Offerer         *PartyInput    `json:"offerer"`
	Acquirer        *PartyInput    `json:"acquirer"`
	LegalRepName    string         `json:"legal_rep_name"`
	CoOwners        []CoOwnerInput `json:"co_owners"`
}

// UpdateTransactionInput is the DTO for mutating a transaction.
type UpdateTransactionInput struct {
	PropertyAddress *string    `json:"property_address"`
	ScenarioID      *uuid.UUID `json:"scenario_id"`
	LegalRepName    *string    `json:"legal_rep_name"`
}

// TransactionService is the entry point of the save pipeline. Every
// write runs the same ordered steps: build the reference, resolve
// client identities, resolve document requirements, reassign the
// principal. Each step is idempotent; the pipeline serializes per
// transaction so concurrent saves cannot interleave.
type TransactionService interface {
	Create(ctx context.Context, createdBy uuid.UUID, input CreateTransactionInput) (*domain.Transaction, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	List(ctx context.Context, offset, limit int) ([]domain.Transaction, int, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateTransactionInput) (*domain.Transaction, error)

	AddCoOwner(ctx context.Context, transactionID uuid.UUID, input CoOwnerInput) (*domain.CoOwner, error)
	ListCoOwners(ctx context.Context, transactionID uuid.UUID) ([]domain.CoOwner, error)
	UpdateCoOwner(ctx context.Context, transactionID, coOwnerID uuid.UUID, input UpdateCoOwnerInput) (*domain.CoOwner, error)
	RemoveCoOwner(ctx context.Context, transactionID, coOwnerID uuid.UUID) error

	// OnCoOwnersChanged and OnLegalRepresentationChanged re-run the
	// requirement and principal steps after an out-of-band change.
	OnCoOwnersChanged(ctx context.Context, transactionID uuid.UUID) error
	OnLegalRepresentationChanged(ctx context.Context, transactionID uuid.UUID) error
}

type transactionService struct {
	txnRepo      port.TransactionRepository
	coOwnerRepo  port.CoOwnerRepository
	clientDir    port.ClientDirectory
	resolver     ResolverService
	reassignment ReassignmentService

	mu    sync.Mutex
	locks map[uuid.UUID]*txnLock
}

// txnLock is a per-transaction mutex with a waiter count so the
// registry entry can be dropped once the last holder releases it.
type txnLock struct {
	mu   sync.Mutex
	refs int
}

// NewTransactionService creates a new TransactionService implementation.
func NewTransactionService(
	txnRepo port.TransactionRepository,
	coOwnerRepo port.CoOwnerRepository,
	clientDir port.ClientDirectory,
	resolver ResolverService,
	reassignment ReassignmentService,
) TransactionService {
	return &transactionService{
		txnRepo:      txnRepo,
		coOwnerRepo:  coOwnerRepo,
		clientDir:    clientDir,
		resolver:     resolver,
		reassignment: reassignment,
		locks:        make(map[uuid.UUID]*txnLock),
	}
}

// lockTransaction blocks until the caller holds the per-transaction
// lock, creating the registry entry on first use.
func (s *transactionService) lockTransaction(transactionID uuid.UUID) *txnLock {
	s.mu.Lock()
	lock, ok := s.locks[transactionID]
	if !ok {
		lock = &txnLock{}
		s.locks[transactionID] = lock
	}
	lock.refs++
	s.mu.Unlock()

	lock.mu.Lock()
	return lock
}

// unlockTransaction releases the lock and removes the registry entry
// when no other caller is waiting on it.
func (s *transactionService) unlockTransaction(transactionID uuid.UUID, lock *txnLock) {
	lock.mu.Unlock()

	s.mu.Lock()
	lock.refs--
	if lock.refs == 0 {
		delete(s.locks, transactionID)
	}
	s.mu.Unlock()
}

func (s *transactionService) Create(ctx context.Context, createdBy uuid.UUID, input CreateTransactionInput) (*domain.Transaction, error) {
	txn := &domain.Transaction{
		ID:              uuid.New(),
		Reference:       buildReference(time.Now()),
		PropertyAddress: input.PropertyAddress,
		ScenarioID:      input.ScenarioID,
		LegalRepName:    input.LegalRepName,
		CreatedBy:       createdBy,
	}

	if input.Offerer != nil {
		client, err := s.resolveParty(ctx, *input.Offerer)
		if err != nil {
			return nil, fmt.Errorf("transaction.Create: %w", err)
		}
		txn.OffererClientID = &client.ID
	}
	if input.Acquirer != nil {
		client, err := s.resolveParty(ctx, *input.Acquirer)
		if err != nil {
			return nil, fmt.Errorf("transaction.Create: %w", err)
		}
		txn.AcquirerClientID = &client.ID
	}

	if err := s.txnRepo.Create(ctx, txn); err != nil {
		return nil, fmt.Errorf("transaction.Create: %w", err)
	}

	for _, co := range input.CoOwners {
		if _, err := s.createCoOwner(ctx, txn.ID, co); err != nil {
			return nil, fmt.Errorf("transaction.Create: %w", err)
		}
	}

	if err := s.runPipeline(ctx, txn.ID); err != nil {
		// The transaction itself is saved; requirement resolution can be
		// replayed from the logged context.
		log.Printf("transaction.Create: pipeline for %s failed: %v", txn.ID, err)
	}
	return txn, nil
}

func (s *transactionService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	return s.txnRepo.GetByID(ctx, id)
}

func (s *transactionService) List(ctx context.Context, offset, limit int) ([]domain.Transaction, int, error) {
	return s.txnRepo.List(ctx, offset, limit)
}

func (s *transactionService) Update(ctx context.Context, id uuid.UUID, input UpdateTransactionInput) (*domain.Transaction, error) {
	txn, err := s.txnRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("transaction.Update: %w", err)
	}

	if input.PropertyAddress != nil {
		txn.PropertyAddress = *input.PropertyAddress
	}
	if input.ScenarioID != nil {
		txn.ScenarioID = input.ScenarioID
	}
	if input.LegalRepName != nil {
		txn.LegalRepName = *input.LegalRepName
	}

	if err := s.txnRepo.Update(ctx, txn); err != nil {
		return nil, fmt.Errorf("transaction.Update: %w", err)
	}

	if err := s.runPipeline(ctx, txn.ID); err != nil {
		log.Printf("transaction.Update: pipeline for %s failed: %v", txn.ID, err)
	}
	return txn, nil
}

func (s *transactionService) AddCoOwner(ctx context.Context, transactionID uuid.UUID, input CoOwnerInput) (*domain.CoOwner, error) {
	if _, err := s.txnRepo.GetByID(ctx, transactionID); err != nil {
		return nil, fmt.Errorf("transaction.AddCoOwner: %w", err)
	}

	coOwner, err := s.createCoOwner(ctx, transactionID, input)
	if err != nil {
		return nil, fmt.Errorf("transaction.AddCoOwner: %w", err)
	}

	if err := s.OnCoOwnersChanged(ctx, transactionID); err != nil {
		log.Printf("transaction.AddCoOwner: pipeline for %s failed: %v", transactionID, err)
	}
	return coOwner, nil
}

func (s *transactionService) ListCoOwners(ctx context.Context, transactionID uuid.UUID) ([]domain.CoOwner, error) {
	return s.coOwnerRepo.ListByTransaction(ctx, transactionID)
}

func (s *transactionService) UpdateCoOwner(ctx context.Context, transactionID, coOwnerID uuid.UUID, input UpdateCoOwnerInput) (*domain.CoOwner, error) {
	coOwner, err := s.coOwnerRepo.GetByID(ctx, coOwnerID)
	if err != nil {
		return nil, fmt.Errorf("transaction.UpdateCoOwner: %w", err)
	}
	if coOwner.TransactionID != transactionID {
		return nil, domain.ErrCoOwnerNotFound
	}

	if input.PersonName != nil {
		coOwner.PersonName = *input.PersonName
	}
	if input.Role != nil {
		coOwner.Role = *input.Role
	}
	if input.Percentage != nil {
		coOwner.Percentage = *input.Percentage
	}
	if input.Deceased != nil {
		coOwner.Deceased = *input.Deceased
	}

	if err := s.coOwnerRepo.Update(ctx, coOwner); err != nil {
		return nil, fmt.Errorf("transaction.UpdateCoOwner: %w", err)
	}

	if err := s.OnCoOwnersChanged(ctx, transactionID); err != nil {
		log.Printf("transaction.UpdateCoOwner: pipeline for %s failed: %v", transactionID, err)
	}
	return coOwner, nil
}

// RemoveCoOwner soft-removes: submissions may still reference the row,
// so it is deactivated, never deleted.
func (s *transactionService) RemoveCoOwner(ctx context.Context, transactionID, coOwnerID uuid.UUID) error {
	coOwner, err := s.coOwnerRepo.GetByID(ctx, coOwnerID)
	if err != nil {
		return fmt.Errorf("transaction.RemoveCoOwner: %w", err)
	}
	if coOwner.TransactionID != transactionID {
		return domain.ErrCoOwnerNotFound
	}

	if err := s.coOwnerRepo.Deactivate(ctx, coOwnerID); err != nil {
		return fmt.Errorf("transaction.RemoveCoOwner: %w", err)
	}

	if err := s.OnCoOwnersChanged(ctx, transactionID); err != nil {
		log.Printf("transaction.RemoveCoOwner: pipeline for %s failed: %v", transactionID, err)
	}
	return nil
}

func (s *transactionService) OnCoOwnersChanged(ctx context.Context, transactionID uuid.UUID) error {
	return s.runPipeline(ctx, transactionID)
}

func (s *transactionService) OnLegalRepresentationChanged(ctx context.Context, transactionID uuid.UUID) error {
	return s.runPipeline(ctx, transactionID)
}

// runPipeline executes the requirement and principal steps under the
// per-transaction lock. Both steps are idempotent, so replaying after a
// failure is always safe.
func (s *transactionService) runPipeline(ctx context.Context, transactionID uuid.UUID) error {
	lock := s.lockTransaction(transactionID)
	defer s.unlockTransaction(transactionID, lock)

	result, err := s.resolver.Resolve(ctx, transactionID)
	if err != nil {
		return fmt.Errorf("resolving requirements: %w", err)
	}
	if result.Created > 0 {
		log.Printf("transaction.runPipeline: transaction %s created %d submissions (%d existing)",
			transactionID, result.Created, result.Existing)
	}

	if err := s.reassignment.ReassignPrincipal(ctx, transactionID); err != nil {
		return fmt.Errorf("reassigning principal: %w", err)
	}
	return nil
}

func (s *transactionService) resolveParty(ctx context.Context, input PartyInput) (*domain.Client, error) {
	return s.clientDir.FindOrCreate(ctx, port.ClientAttrs{
		FullName: input.FullName,
		Email:    input.Email,
		Phone:    input.Phone,
		CURP:     input.CURP,
		RFC:      input.RFC,
	})
}

func (s *transactionService) createCoOwner(ctx context.Context, transactionID uuid.UUID, input CoOwnerInput) (*domain.CoOwner, error) {
	coOwner := &domain.CoOwner{
		ID:            uuid.New(),
		TransactionID: transactionID,
		PersonName:    input.PersonName,
		Role:          input.Role,
		Percentage:    input.Percentage,
		Active:        true,
	}
	if coOwner.Role == "" {
		coOwner.Role = domain.CoOwnerRoleOwner
	}

	if input.Email != "" || input.CURP != "" || input.RFC != "" {
		client, err := s.clientDir.FindOrCreate(ctx, port.ClientAttrs{
			FullName: input.PersonName,
			Email:    input.Email,
			Phone:    input.Phone,
			CURP:     input.CURP,
			RFC:      input.RFC,
		})
		if err != nil {
			return nil, err
		}
		coOwner.ClientID = &client.ID
	}

	if err := s.coOwnerRepo.Create(ctx, coOwner); err != nil {
		return nil, err
	}
	return coOwner, nil
}

// buildReference derives a human-readable folio from the timestamp,
// e.g. OP-20260831-153012.
func buildReference(now time.Time) string {
	return "OP-" + now.Format("20060102-150405")
}
