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

type clientRepo struct {
	db *sqlx.DB
}

// NewClientDirectory creates a new PostgreSQL-backed ClientDirectory.
func NewClientDirectory(db *sqlx.DB) port.ClientDirectory {
	return &clientRepo{db: db}
}

// FindOrCreate resolves a client by CURP, RFC, or email (in that order
// of reliability), creating one when no identifier matches.
func (r *clientRepo) FindOrCreate(ctx context.Context, attrs port.ClientAttrs) (*domain.Client, error) {
	var client domain.Client
	err := r.db.GetContext(ctx, &client,
		`SELECT * FROM clients
		 WHERE (curp <> '' AND curp = $1)
		    OR (rfc <> '' AND rfc = $2)
		    OR (email <> '' AND email = $3)
		 ORDER BY created_at
		 LIMIT 1`,
		attrs.CURP, attrs.RFC, attrs.Email)
	if err == nil {
		return &client, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("clientRepo.FindOrCreate lookup: %w", err)
	}

	now := time.Now().UTC()
	client = domain.Client{
		ID:        uuid.New(),
		FullName:  attrs.FullName,
		Email:     attrs.Email,
		Phone:     attrs.Phone,
		CURP:      attrs.CURP,
		RFC:       attrs.RFC,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO clients (id, full_name, email, phone, curp, rfc, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		client.ID, client.FullName, client.Email, client.Phone,
		client.CURP, client.RFC, client.CreatedAt, client.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("clientRepo.FindOrCreate insert: %w", err)
	}
	return &client, nil
}

func (r *clientRepo) GetByID(ctx context.Context, clientID uuid.UUID) (*domain.Client, error) {
	var client domain.Client
	err := r.db.GetContext(ctx, &client, "SELECT * FROM clients WHERE id = $1", clientID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("clientRepo.GetByID: %w", err)
	}
	return &client, nil
}
