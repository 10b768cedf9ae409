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

type documentTypeRepo struct {
	db *sqlx.DB
}

// NewDocumentTypeRepo creates a new PostgreSQL-backed DocumentTypeRepository.
func NewDocumentTypeRepo(db *sqlx.DB) port.DocumentTypeRepository {
	return &documentTypeRepo{db: db}
}

func (r *documentTypeRepo) Create(ctx context.Context, dt *domain.DocumentType) error {
	now := time.Now().UTC()
	dt.CreatedAt = now
	dt.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO document_types (id, name, category, validity_months, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		dt.ID, dt.Name, dt.Category, dt.ValidityMonths, dt.IsActive, dt.CreatedAt, dt.UpdatedAt)
	if err != nil {
		return fmt.Errorf("documentTypeRepo.Create: %w", err)
	}
	return nil
}

func (r *documentTypeRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.DocumentType, error) {
	var dt domain.DocumentType
	err := r.db.GetContext(ctx, &dt, "SELECT * FROM document_types WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDocumentTypeNotFound
		}
		return nil, fmt.Errorf("documentTypeRepo.GetByID: %w", err)
	}
	return &dt, nil
}

func (r *documentTypeRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.DocumentType, error) {
	result := make(map[uuid.UUID]*domain.DocumentType, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query, args, err := sqlx.In("SELECT * FROM document_types WHERE id IN (?)", ids)
	if err != nil {
		return nil, fmt.Errorf("documentTypeRepo.GetByIDs: %w", err)
	}
	query = r.db.Rebind(query)

	var types []domain.DocumentType
	if err := r.db.SelectContext(ctx, &types, query, args...); err != nil {
		return nil, fmt.Errorf("documentTypeRepo.GetByIDs: %w", err)
	}
	for i := range types {
		result[types[i].ID] = &types[i]
	}
	return result, nil
}

func (r *documentTypeRepo) List(ctx context.Context) ([]domain.DocumentType, error) {
	var types []domain.DocumentType
	err := r.db.SelectContext(ctx, &types, "SELECT * FROM document_types ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("documentTypeRepo.List: %w", err)
	}
	return types, nil
}

func (r *documentTypeRepo) Update(ctx context.Context, dt *domain.DocumentType) error {
	dt.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE document_types SET name = $1, category = $2, validity_months = $3,
			is_active = $4, updated_at = $5
		 WHERE id = $6`,
		dt.Name, dt.Category, dt.ValidityMonths, dt.IsActive, dt.UpdatedAt, dt.ID)
	if err != nil {
		return fmt.Errorf("documentTypeRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrDocumentTypeNotFound
	}
	return nil
}
