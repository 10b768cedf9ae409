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

type scenarioRepo struct {
	db *sqlx.DB
}

// NewScenarioRepo creates a new PostgreSQL-backed ScenarioRepository.
func NewScenarioRepo(db *sqlx.DB) port.ScenarioRepository {
	return &scenarioRepo{db: db}
}

func (r *scenarioRepo) Create(ctx context.Context, sc *domain.Scenario) error {
	now := time.Now().UTC()
	sc.CreatedAt = now
	sc.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO scenarios (id, name, description, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		sc.ID, sc.Name, sc.Description, sc.IsActive, sc.CreatedAt, sc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("scenarioRepo.Create: %w", err)
	}
	return nil
}

func (r *scenarioRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Scenario, error) {
	var sc domain.Scenario
	err := r.db.GetContext(ctx, &sc, "SELECT * FROM scenarios WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrScenarioNotFound
		}
		return nil, fmt.Errorf("scenarioRepo.GetByID: %w", err)
	}
	return &sc, nil
}

func (r *scenarioRepo) List(ctx context.Context) ([]domain.Scenario, error) {
	var scenarios []domain.Scenario
	err := r.db.SelectContext(ctx, &scenarios, "SELECT * FROM scenarios ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("scenarioRepo.List: %w", err)
	}
	return scenarios, nil
}

func (r *scenarioRepo) AddRule(ctx context.Context, rule *domain.ScenarioRule) error {
	rule.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO scenario_rules (id, scenario_id, document_type_id, party_type, required, principal_only, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rule.ID, rule.ScenarioID, rule.DocumentTypeID, rule.PartyType,
		rule.Required, rule.PrincipalOnly, rule.CreatedAt)
	if err != nil {
		return fmt.Errorf("scenarioRepo.AddRule: %w", err)
	}
	return nil
}

func (r *scenarioRepo) ListRules(ctx context.Context, scenarioID uuid.UUID) ([]domain.ScenarioRule, error) {
	var rules []domain.ScenarioRule
	err := r.db.SelectContext(ctx, &rules,
		"SELECT * FROM scenario_rules WHERE scenario_id = $1 ORDER BY created_at", scenarioID)
	if err != nil {
		return nil, fmt.Errorf("scenarioRepo.ListRules: %w", err)
	}
	return rules, nil
}
