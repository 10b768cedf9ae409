package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"brokerdocs/internal/service"
)

// CatalogHandler handles document type and scenario endpoints.
type CatalogHandler struct {
	catalogService service.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// CreateDocumentType handles POST /api/v1/document-types
func (h *CatalogHandler) CreateDocumentType(c *gin.Context) {
	var input service.DocumentTypeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	dt, err := h.catalogService.CreateDocumentType(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, dt)
}

// ListDocumentTypes handles GET /api/v1/document-types
func (h *CatalogHandler) ListDocumentTypes(c *gin.Context) {
	types, err := h.catalogService.ListDocumentTypes(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, types)
}

// GetDocumentType handles GET /api/v1/document-types/:id
func (h *CatalogHandler) GetDocumentType(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid document type id")
		return
	}

	dt, err := h.catalogService.GetDocumentType(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, dt)
}

// UpdateDocumentType handles PUT /api/v1/document-types/:id
func (h *CatalogHandler) UpdateDocumentType(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid document type id")
		return
	}

	var input service.DocumentTypeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	dt, err := h.catalogService.UpdateDocumentType(c.Request.Context(), id, input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, dt)
}

// CreateScenario handles POST /api/v1/scenarios
func (h *CatalogHandler) CreateScenario(c *gin.Context) {
	var input service.ScenarioInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	sc, err := h.catalogService.CreateScenario(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, sc)
}

// ListScenarios handles GET /api/v1/scenarios
func (h *CatalogHandler) ListScenarios(c *gin.Context) {
	scenarios, err := h.catalogService.ListScenarios(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, scenarios)
}

// GetScenario handles GET /api/v1/scenarios/:id
func (h *CatalogHandler) GetScenario(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid scenario id")
		return
	}

	sc, err := h.catalogService.GetScenario(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, sc)
}

// AddScenarioRule handles POST /api/v1/scenarios/:id/rules
func (h *CatalogHandler) AddScenarioRule(c *gin.Context) {
	scenarioID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid scenario id")
		return
	}

	var input service.ScenarioRuleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	rule, err := h.catalogService.AddScenarioRule(c.Request.Context(), scenarioID, input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, rule)
}

// ListScenarioRules handles GET /api/v1/scenarios/:id/rules
func (h *CatalogHandler) ListScenarioRules(c *gin.Context) {
	scenarioID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid scenario id")
		return
	}

	rules, err := h.catalogService.ListScenarioRules(c.Request.Context(), scenarioID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, rules)
}
