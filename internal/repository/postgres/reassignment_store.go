package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"brokerdocs/internal/domain"
	"brokerdocs/internal/port"
)

type txManager struct {
	db *sqlx.DB
}

// NewTxManager creates a TxManager backed by database transactions.
func NewTxManager(db *sqlx.DB) port.TxManager {
	return &txManager{db: db}
}

// WithinTx runs fn against a transactional ReassignmentStore. The
// transaction commits only when fn returns nil; any error or panic
// rolls everything back, so principal migration is all-or-nothing.
func (m *txManager) WithinTx(ctx context.Context, fn func(store port.ReassignmentStore) error) error {
	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("txManager.WithinTx begin: %w", err)
	}

	store := &reassignmentStore{tx: tx}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(store); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("txManager.WithinTx commit: %w", err)
	}
	return nil
}

type reassignmentStore struct {
	tx *sqlx.Tx
}

func (s *reassignmentStore) ListCoOwnersForUpdate(ctx context.Context, transactionID uuid.UUID) ([]domain.CoOwner, error) {
	var coOwners []domain.CoOwner
	err := s.tx.SelectContext(ctx, &coOwners,
		"SELECT * FROM co_owners WHERE transaction_id = $1 ORDER BY created_at FOR UPDATE", transactionID)
	if err != nil {
		return nil, fmt.Errorf("reassignmentStore.ListCoOwnersForUpdate: %w", err)
	}
	return coOwners, nil
}

func (s *reassignmentStore) SetPrimary(ctx context.Context, coOwnerID uuid.UUID, primary bool) error {
	result, err := s.tx.ExecContext(ctx,
		"UPDATE co_owners SET is_primary = $1, updated_at = $2 WHERE id = $3",
		primary, time.Now().UTC(), coOwnerID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrPrincipalConflict
		}
		return fmt.Errorf("reassignmentStore.SetPrimary: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrCoOwnerNotFound
	}
	return nil
}

func (s *reassignmentStore) ListPrincipalOnlySubmissions(ctx context.Context, transactionID, coOwnerID uuid.UUID) ([]domain.DocumentSubmission, error) {
	var subs []domain.DocumentSubmission
	err := s.tx.SelectContext(ctx, &subs,
		`SELECT * FROM document_submissions
		 WHERE transaction_id = $1 AND co_owner_id = $2 AND party_type = $3
		 ORDER BY created_at`,
		transactionID, coOwnerID, domain.PartyPrincipalCoOwner)
	if err != nil {
		return nil, fmt.Errorf("reassignmentStore.ListPrincipalOnlySubmissions: %w", err)
	}
	return subs, nil
}

func (s *reassignmentStore) ListCoveredDocumentTypes(ctx context.Context, transactionID, coOwnerID uuid.UUID) (map[uuid.UUID]bool, error) {
	var ids []uuid.UUID
	err := s.tx.SelectContext(ctx, &ids,
		"SELECT document_type_id FROM document_submissions WHERE transaction_id = $1 AND co_owner_id = $2",
		transactionID, coOwnerID)
	if err != nil {
		return nil, fmt.Errorf("reassignmentStore.ListCoveredDocumentTypes: %w", err)
	}
	covered := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		covered[id] = true
	}
	return covered, nil
}

func (s *reassignmentStore) ReassignSubmission(ctx context.Context, submissionID, newCoOwnerID uuid.UUID) error {
	result, err := s.tx.ExecContext(ctx,
		"UPDATE document_submissions SET co_owner_id = $1, updated_at = $2 WHERE id = $3",
		newCoOwnerID, time.Now().UTC(), submissionID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSubmissionExists
		}
		return fmt.Errorf("reassignmentStore.ReassignSubmission: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrSubmissionNotFound
	}
	return nil
}

func (s *reassignmentStore) UpdateSubmissionParty(ctx context.Context, submissionID uuid.UUID, party domain.PartyType) error {
	result, err := s.tx.ExecContext(ctx,
		"UPDATE document_submissions SET party_type = $1, updated_at = $2 WHERE id = $3",
		party, time.Now().UTC(), submissionID)
	if err != nil {
		return fmt.Errorf("reassignmentStore.UpdateSubmissionParty: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrSubmissionNotFound
	}
	return nil
}

func (s *reassignmentStore) DeleteSubmission(ctx context.Context, submissionID uuid.UUID) error {
	result, err := s.tx.ExecContext(ctx,
		"DELETE FROM document_submissions WHERE id = $1", submissionID)
	if err != nil {
		return fmt.Errorf("reassignmentStore.DeleteSubmission: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrSubmissionNotFound
	}
	return nil
}
