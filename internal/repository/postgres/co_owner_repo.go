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

type coOwnerRepo struct {
	db *sqlx.DB
}

// NewCoOwnerRepo creates a new PostgreSQL-backed CoOwnerRepository.
func NewCoOwnerRepo(db *sqlx.DB) port.CoOwnerRepository {
	return &coOwnerRepo{db: db}
}

func (r *coOwnerRepo) Create(ctx context.Context, co *domain.CoOwner) error {
	now := time.Now().UTC()
	co.CreatedAt = now
	co.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO co_owners (
			id, transaction_id, client_id, person_name, role, percentage,
			active, is_primary, deceased, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		co.ID, co.TransactionID, co.ClientID, co.PersonName, co.Role, co.Percentage,
		co.Active, co.IsPrimary, co.Deceased, co.CreatedAt, co.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrPrincipalConflict
		}
		return fmt.Errorf("coOwnerRepo.Create: %w", err)
	}
	return nil
}

func (r *coOwnerRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.CoOwner, error) {
	var co domain.CoOwner
	err := r.db.GetContext(ctx, &co, "SELECT * FROM co_owners WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCoOwnerNotFound
		}
		return nil, fmt.Errorf("coOwnerRepo.GetByID: %w", err)
	}
	return &co, nil
}

func (r *coOwnerRepo) ListByTransaction(ctx context.Context, transactionID uuid.UUID) ([]domain.CoOwner, error) {
	var coOwners []domain.CoOwner
	err := r.db.SelectContext(ctx, &coOwners,
		"SELECT * FROM co_owners WHERE transaction_id = $1 ORDER BY created_at", transactionID)
	if err != nil {
		return nil, fmt.Errorf("coOwnerRepo.ListByTransaction: %w", err)
	}
	return coOwners, nil
}

func (r *coOwnerRepo) ListActiveByTransaction(ctx context.Context, transactionID uuid.UUID) ([]domain.CoOwner, error) {
	var coOwners []domain.CoOwner
	err := r.db.SelectContext(ctx, &coOwners,
		"SELECT * FROM co_owners WHERE transaction_id = $1 AND active ORDER BY created_at", transactionID)
	if err != nil {
		return nil, fmt.Errorf("coOwnerRepo.ListActiveByTransaction: %w", err)
	}
	return coOwners, nil
}

func (r *coOwnerRepo) Update(ctx context.Context, co *domain.CoOwner) error {
	co.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE co_owners SET
			client_id = $1, person_name = $2, role = $3, percentage = $4,
			active = $5, deceased = $6, updated_at = $7
		 WHERE id = $8`,
		co.ClientID, co.PersonName, co.Role, co.Percentage,
		co.Active, co.Deceased, co.UpdatedAt, co.ID)
	if err != nil {
		return fmt.Errorf("coOwnerRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrCoOwnerNotFound
	}
	return nil
}

// Deactivate soft-removes a co-owner. The row stays while submissions
// reference it. A primary co-owner loses the flag on deactivation so the
// single-primary index never blocks a later reassignment.
func (r *coOwnerRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE co_owners SET active = FALSE, is_primary = FALSE, updated_at = $1 WHERE id = $2",
		time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("coOwnerRepo.Deactivate: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrCoOwnerNotFound
	}
	return nil
}
