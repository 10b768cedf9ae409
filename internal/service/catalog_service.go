package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"brokerdocs/internal/domain"
	"brokerdocs/internal/port"
)

// DocumentTypeInput is the DTO for catalog entries.
type DocumentTypeInput struct {
	Name           string                  `json:"name" binding:"required"`
	Category       domain.DocumentCategory `json:"category" binding:"required"`
	ValidityMonths *int                    `json:"validity_months"`
}

// ScenarioInput is the DTO for creating a scenario.
type ScenarioInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// ScenarioRuleInput is the DTO for attaching one rule to a scenario.
type ScenarioRuleInput struct {
	DocumentTypeID uuid.UUID        `json:"document_type_id" binding:"required"`
	PartyType      domain.PartyType `json:"party_type" binding:"required"`
	Required       bool             `json:"required"`
	PrincipalOnly  bool             `json:"principal_only"`
}

// CatalogService manages the document type catalog and scenario rule
// sets. Administrator-only reference data.
type CatalogService interface {
	CreateDocumentType(ctx context.Context, input DocumentTypeInput) (*domain.DocumentType, error)
	GetDocumentType(ctx context.Context, id uuid.UUID) (*domain.DocumentType, error)
	ListDocumentTypes(ctx context.Context) ([]domain.DocumentType, error)
	UpdateDocumentType(ctx context.Context, id uuid.UUID, input DocumentTypeInput) (*domain.DocumentType, error)

	CreateScenario(ctx context.Context, input ScenarioInput) (*domain.Scenario, error)
	GetScenario(ctx context.Context, id uuid.UUID) (*domain.Scenario, error)
	ListScenarios(ctx context.Context) ([]domain.Scenario, error)
	AddScenarioRule(ctx context.Context, scenarioID uuid.UUID, input ScenarioRuleInput) (*domain.ScenarioRule, error)
	ListScenarioRules(ctx context.Context, scenarioID uuid.UUID) ([]domain.ScenarioRule, error)
}

type catalogService struct {
	docTypeRepo  port.DocumentTypeRepository
	scenarioRepo port.ScenarioRepository
}

// NewCatalogService creates a new CatalogService implementation.
func NewCatalogService(docTypeRepo port.DocumentTypeRepository, scenarioRepo port.ScenarioRepository) CatalogService {
	return &catalogService{docTypeRepo: docTypeRepo, scenarioRepo: scenarioRepo}
}

func (s *catalogService) CreateDocumentType(ctx context.Context, input DocumentTypeInput) (*domain.DocumentType, error) {
	dt := &domain.DocumentType{
		ID:             uuid.New(),
		Name:           input.Name,
		Category:       input.Category,
		ValidityMonths: input.ValidityMonths,
		IsActive:       true,
	}
	if err := s.docTypeRepo.Create(ctx, dt); err != nil {
		return nil, fmt.Errorf("catalog.CreateDocumentType: %w", err)
	}
	return dt, nil
}

func (s *catalogService) GetDocumentType(ctx context.Context, id uuid.UUID) (*domain.DocumentType, error) {
	return s.docTypeRepo.GetByID(ctx, id)
}

func (s *catalogService) ListDocumentTypes(ctx context.Context) ([]domain.DocumentType, error) {
	return s.docTypeRepo.List(ctx)
}

func (s *catalogService) UpdateDocumentType(ctx context.Context, id uuid.UUID, input DocumentTypeInput) (*domain.DocumentType, error) {
	dt, err := s.docTypeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("catalog.UpdateDocumentType: %w", err)
	}
	dt.Name = input.Name
	dt.Category = input.Category
	dt.ValidityMonths = input.ValidityMonths
	if err := s.docTypeRepo.Update(ctx, dt); err != nil {
		return nil, fmt.Errorf("catalog.UpdateDocumentType: %w", err)
	}
	return dt, nil
}

func (s *catalogService) CreateScenario(ctx context.Context, input ScenarioInput) (*domain.Scenario, error) {
	sc := &domain.Scenario{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: input.Description,
		IsActive:    true,
	}
	if err := s.scenarioRepo.Create(ctx, sc); err != nil {
		return nil, fmt.Errorf("catalog.CreateScenario: %w", err)
	}
	return sc, nil
}

func (s *catalogService) GetScenario(ctx context.Context, id uuid.UUID) (*domain.Scenario, error) {
	return s.scenarioRepo.GetByID(ctx, id)
}

func (s *catalogService) ListScenarios(ctx context.Context) ([]domain.Scenario, error) {
	return s.scenarioRepo.List(ctx)
}

func (s *catalogService) AddScenarioRule(ctx context.Context, scenarioID uuid.UUID, input ScenarioRuleInput) (*domain.ScenarioRule, error) {
	if !input.PartyType.Valid() {
		return nil, domain.ErrInvalidPartyType
	}
	if _, err := s.scenarioRepo.GetByID(ctx, scenarioID); err != nil {
		return nil, fmt.Errorf("catalog.AddScenarioRule: %w", err)
	}
	if _, err := s.docTypeRepo.GetByID(ctx, input.DocumentTypeID); err != nil {
		return nil, fmt.Errorf("catalog.AddScenarioRule: %w", err)
	}

	rule := &domain.ScenarioRule{
		ID:             uuid.New(),
		ScenarioID:     scenarioID,
		DocumentTypeID: input.DocumentTypeID,
		PartyType:      input.PartyType,
		Required:       input.Required,
		PrincipalOnly:  input.PrincipalOnly,
	}
	if err := s.scenarioRepo.AddRule(ctx, rule); err != nil {
		return nil, fmt.Errorf("catalog.AddScenarioRule: %w", err)
	}
	return rule, nil
}

func (s *catalogService) ListScenarioRules(ctx context.Context, scenarioID uuid.UUID) ([]domain.ScenarioRule, error) {
	return s.scenarioRepo.ListRules(ctx, scenarioID)
}
