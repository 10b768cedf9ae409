package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"brokerdocs/internal/domain"
	"brokerdocs/internal/port"
)

// ReassignmentService keeps exactly one co-owner flagged primary,
// consistent with the transaction's declared legal representative, and
// migrates principal-only submissions when that identity changes. The
// whole migration runs in one database transaction: a crash mid-way
// leaves neither duplicate pairs nor orphaned principal submissions.
type ReassignmentService interface {
	ReassignPrincipal(ctx context.Context, transactionID uuid.UUID) error
}

type reassignmentService struct {
	txnRepo   port.TransactionRepository
	txManager port.TxManager
	resolver  ResolverService
}

// NewReassignmentService creates a new ReassignmentService implementation.
func NewReassignmentService(
	txnRepo port.TransactionRepository,
	txManager port.TxManager,
	resolver ResolverService,
) ReassignmentService {
	return &reassignmentService{
		txnRepo:   txnRepo,
		txManager: txManager,
		resolver:  resolver,
	}
}

func (s *reassignmentService) ReassignPrincipal(ctx context.Context, transactionID uuid.UUID) error {
	txn, err := s.txnRepo.GetByID(ctx, transactionID)
	if err != nil {
		return fmt.Errorf("reassignment.ReassignPrincipal: %w", err)
	}

	var changed bool
	err = s.txManager.WithinTx(ctx, func(store port.ReassignmentStore) error {
		migrated, err := s.migrate(ctx, store, txn)
		if err != nil {
			return err
		}
		changed = migrated
		return nil
	})
	if err != nil {
		return fmt.Errorf("reassignment.ReassignPrincipal: %w", err)
	}

	if changed {
		// Backfill principal-only requirements for the new principal.
		// The resolver is idempotent, so a full pass is safe here.
		if _, err := s.resolver.Resolve(ctx, transactionID); err != nil {
			return fmt.Errorf("reassignment.ReassignPrincipal: %w", err)
		}
	}
	return nil
}

// migrate picks the intended principal, flips the primary flags, and
// moves the old principal's principal-only submissions. Returns true
// when the primary actually changed.
func (s *reassignmentService) migrate(ctx context.Context, store port.ReassignmentStore, txn *domain.Transaction) (bool, error) {
	coOwners, err := store.ListCoOwnersForUpdate(ctx, txn.ID)
	if err != nil {
		return false, err
	}

	newPrincipal := pickPrincipal(txn, coOwners)
	if newPrincipal == nil {
		return false, nil
	}

	var oldPrincipal *domain.CoOwner
	for i := range coOwners {
		if coOwners[i].Active && coOwners[i].IsPrimary {
			oldPrincipal = &coOwners[i]
			break
		}
	}

	if oldPrincipal != nil && oldPrincipal.ID == newPrincipal.ID {
		return false, nil
	}

	// Unset before set: the single-primary index would reject a window
	// with two primaries.
	if oldPrincipal != nil {
		if err := store.SetPrimary(ctx, oldPrincipal.ID, false); err != nil {
			return false, err
		}
	}
	if err := store.SetPrimary(ctx, newPrincipal.ID, true); err != nil {
		return false, err
	}

	if oldPrincipal == nil {
		return true, nil
	}

	covered, err := store.ListCoveredDocumentTypes(ctx, txn.ID, newPrincipal.ID)
	if err != nil {
		return false, err
	}

	subs, err := store.ListPrincipalOnlySubmissions(ctx, txn.ID, oldPrincipal.ID)
	if err != nil {
		return false, err
	}
	for _, sub := range subs {
		if covered[sub.DocumentTypeID] {
			// The new principal already owes this type; the old row is
			// redundant.
			if err := store.DeleteSubmission(ctx, sub.ID); err != nil {
				return false, err
			}
			continue
		}

		err := store.ReassignSubmission(ctx, sub.ID, newPrincipal.ID)
		if errors.Is(err, domain.ErrSubmissionExists) {
			// Lost a race with a concurrent writer covering the type.
			// The row is no longer principal-exclusive.
			if err := store.UpdateSubmissionParty(ctx, sub.ID, domain.PartyCoOwner); err != nil {
				return false, err
			}
			continue
		}
		if err != nil {
			return false, err
		}
		covered[sub.DocumentTypeID] = true
	}

	log.Printf("reassignment.migrate: transaction %s principal moved to co-owner %s (%s)",
		txn.ID, newPrincipal.ID, newPrincipal.PersonName)
	return true, nil
}

// pickPrincipal resolves the intended principal: the active co-owner
// matching the transaction's legal representative by name, else the one
// already flagged primary, else the first-created active co-owner.
func pickPrincipal(txn *domain.Transaction, coOwners []domain.CoOwner) *domain.CoOwner {
	if name := normalizeName(txn.LegalRepName); name != "" {
		for i := range coOwners {
			if coOwners[i].Active && normalizeName(coOwners[i].PersonName) == name {
				return &coOwners[i]
			}
		}
	}
	for i := range coOwners {
		if coOwners[i].Active && coOwners[i].IsPrimary {
			return &coOwners[i]
		}
	}
	for i := range coOwners {
		if coOwners[i].Active {
			return &coOwners[i]
		}
	}
	return nil
}

func normalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
