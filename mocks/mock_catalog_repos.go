package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"brokerdocs/internal/domain"
)

// MockDocumentTypeRepo is a mock implementation of port.DocumentTypeRepository.
type MockDocumentTypeRepo struct {
	mock.Mock
}

func (m *MockDocumentTypeRepo) Create(ctx context.Context, dt *domain.DocumentType) error {
	args := m.Called(ctx, dt)
	return args.Error(0)
}

func (m *MockDocumentTypeRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.DocumentType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentType), args.Error(1)
}

func (m *MockDocumentTypeRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.DocumentType, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]*domain.DocumentType), args.Error(1)
}

func (m *MockDocumentTypeRepo) List(ctx context.Context) ([]domain.DocumentType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DocumentType), args.Error(1)
}

func (m *MockDocumentTypeRepo) Update(ctx context.Context, dt *domain.DocumentType) error {
	args := m.Called(ctx, dt)
	return args.Error(0)
}

// MockScenarioRepo is a mock implementation of port.ScenarioRepository.
type MockScenarioRepo struct {
	mock.Mock
}

func (m *MockScenarioRepo) Create(ctx context.Context, sc *domain.Scenario) error {
	args := m.Called(ctx, sc)
	return args.Error(0)
}

func (m *MockScenarioRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Scenario, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Scenario), args.Error(1)
}

func (m *MockScenarioRepo) List(ctx context.Context) ([]domain.Scenario, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Scenario), args.Error(1)
}

func (m *MockScenarioRepo) AddRule(ctx context.Context, rule *domain.ScenarioRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockScenarioRepo) ListRules(ctx context.Context, scenarioID uuid.UUID) ([]domain.ScenarioRule, error) {
	args := m.Called(ctx, scenarioID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ScenarioRule), args.Error(1)
}
