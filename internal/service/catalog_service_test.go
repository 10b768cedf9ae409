package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"brokerdocs/internal/domain"
	"brokerdocs/internal/service"
	"brokerdocs/mocks"
)

func TestCatalogService_AddScenarioRule(t *testing.T) {
	docTypeRepo := new(mocks.MockDocumentTypeRepo)
	scenarioRepo := new(mocks.MockScenarioRepo)
	svc := service.NewCatalogService(docTypeRepo, scenarioRepo)

	scenarioID := uuid.New()
	docTypeID := uuid.New()

	scenarioRepo.On("GetByID", mock.Anything, scenarioID).Return(&domain.Scenario{ID: scenarioID}, nil)
	docTypeRepo.On("GetByID", mock.Anything, docTypeID).Return(&domain.DocumentType{ID: docTypeID}, nil)
	scenarioRepo.On("AddRule", mock.Anything, mock.MatchedBy(func(rule *domain.ScenarioRule) bool {
		return rule.ScenarioID == scenarioID && rule.PartyType == domain.PartyCoOwner && rule.PrincipalOnly
	})).Return(nil)

	rule, err := svc.AddScenarioRule(context.Background(), scenarioID, service.ScenarioRuleInput{
		DocumentTypeID: docTypeID,
		PartyType:      domain.PartyCoOwner,
		Required:       true,
		PrincipalOnly:  true,
	})

	assert.NoError(t, err)
	assert.True(t, rule.Required)
	scenarioRepo.AssertExpectations(t)
}

func TestCatalogService_AddScenarioRule_InvalidPartyType(t *testing.T) {
	svc := service.NewCatalogService(new(mocks.MockDocumentTypeRepo), new(mocks.MockScenarioRepo))

	rule, err := svc.AddScenarioRule(context.Background(), uuid.New(), service.ScenarioRuleInput{
		DocumentTypeID: uuid.New(),
		PartyType:      domain.PartyType("notary"),
	})

	assert.Nil(t, rule)
	assert.ErrorIs(t, err, domain.ErrInvalidPartyType)
}

func TestCatalogService_AddScenarioRule_UnknownDocumentType(t *testing.T) {
	docTypeRepo := new(mocks.MockDocumentTypeRepo)
	scenarioRepo := new(mocks.MockScenarioRepo)
	svc := service.NewCatalogService(docTypeRepo, scenarioRepo)

	scenarioID := uuid.New()
	docTypeID := uuid.New()

	scenarioRepo.On("GetByID", mock.Anything, scenarioID).Return(&domain.Scenario{ID: scenarioID}, nil)
	docTypeRepo.On("GetByID", mock.Anything, docTypeID).Return(nil, domain.ErrDocumentTypeNotFound)

	rule, err := svc.AddScenarioRule(context.Background(), scenarioID, service.ScenarioRuleInput{
		DocumentTypeID: docTypeID,
		PartyType:      domain.PartyOfferer,
	})

	assert.Nil(t, rule)
	assert.ErrorIs(t, err, domain.ErrDocumentTypeNotFound)
	scenarioRepo.AssertNotCalled(t, "AddRule", mock.Anything, mock.Anything)
}

func TestCatalogService_CreateDocumentType(t *testing.T) {
	docTypeRepo := new(mocks.MockDocumentTypeRepo)
	svc := service.NewCatalogService(docTypeRepo, new(mocks.MockScenarioRepo))

	months := 3
	docTypeRepo.On("Create", mock.Anything, mock.MatchedBy(func(dt *domain.DocumentType) bool {
		return dt.Name == "Comprobante de domicilio" && dt.IsActive && dt.ValidityMonths != nil
	})).Return(nil)

	dt, err := svc.CreateDocumentType(context.Background(), service.DocumentTypeInput{
		Name:           "Comprobante de domicilio",
		Category:       domain.CategoryIdentity,
		ValidityMonths: &months,
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.CategoryIdentity, dt.Category)
	docTypeRepo.AssertExpectations(t)
}
