package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"brokerdocs/internal/domain"
	"brokerdocs/internal/port"
)

type transactionRepo struct {
	db *sqlx.DB
}

// NewTransactionRepo creates a new PostgreSQL-backed TransactionRepository.
func NewTransactionRepo(db *sqlx.DB) port.TransactionRepository {
	return &transactionRepo{db: db}
}

func (r *transactionRepo) Create(ctx context.Context, txn *domain.Transaction) error {
	now := time.Now().UTC()
	txn.CreatedAt = now
	txn.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (
			id, reference, property_address, scenario_id,
			offerer_client_id, acquirer_client_id, legal_rep_name,
			created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		txn.ID, txn.Reference, txn.PropertyAddress, txn.ScenarioID,
		txn.OffererClientID, txn.AcquirerClientID, txn.LegalRepName,
		txn.CreatedBy, txn.CreatedAt, txn.UpdatedAt)
	if err != nil {
		return fmt.Errorf("transactionRepo.Create: %w", err)
	}
	return nil
}

func (r *transactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	var txn domain.Transaction
	err := r.db.GetContext(ctx, &txn, "SELECT * FROM transactions WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("transactionRepo.GetByID: %w", err)
	}
	return &txn, nil
}

func (r *transactionRepo) Update(ctx context.Context, txn *domain.Transaction) error {
	txn.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET
			reference = $1, property_address = $2, scenario_id = $3,
			offerer_client_id = $4, acquirer_client_id = $5, legal_rep_name = $6,
			updated_at = $7
		 WHERE id = $8`,
		txn.Reference, txn.PropertyAddress, txn.ScenarioID,
		txn.OffererClientID, txn.AcquirerClientID, txn.LegalRepName,
		txn.UpdatedAt, txn.ID)
	if err != nil {
		return fmt.Errorf("transactionRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

func (r *transactionRepo) List(ctx context.Context, offset, limit int) ([]domain.Transaction, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM transactions"); err != nil {
		return nil, 0, fmt.Errorf("transactionRepo.List count: %w", err)
	}

	var txns []domain.Transaction
	err := r.db.SelectContext(ctx, &txns,
		"SELECT * FROM transactions ORDER BY created_at DESC LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("transactionRepo.List: %w", err)
	}
	return txns, total, nil
}
