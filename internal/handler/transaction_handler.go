package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"brokerdocs/internal/service"
)

// TransactionHandler handles transaction and co-owner endpoints.
type TransactionHandler struct {
	txnService       service.TransactionService
	resolver         service.ResolverService
	checklistService service.ChecklistService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(
	txnService service.TransactionService,
	resolver service.ResolverService,
	checklistService service.ChecklistService,
) *TransactionHandler {
	return &TransactionHandler{
		txnService:       txnService,
		resolver:         resolver,
		checklistService: checklistService,
	}
}

// Create handles POST /api/v1/transactions
func (h *TransactionHandler) Create(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var input service.CreateTransactionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	txn, err := h.txnService.Create(c.Request.Context(), userID, input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, txn)
}

// Get handles GET /api/v1/transactions/:id
func (h *TransactionHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid transaction id")
		return
	}

	txn, err := h.txnService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, txn)
}

// List handles GET /api/v1/transactions?offset=&limit=
func (h *TransactionHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)

	txns, total, err := h.txnService.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, txns, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Update handles PUT /api/v1/transactions/:id
func (h *TransactionHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid transaction id")
		return
	}

	var input service.UpdateTransactionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	txn, err := h.txnService.Update(c.Request.Context(), id, input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, txn)
}

// Resolve handles POST /api/v1/transactions/:id/resolve
func (h *TransactionHandler) Resolve(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid transaction id")
		return
	}

	result, err := h.resolver.Resolve(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

// Checklist handles GET /api/v1/transactions/:id/checklist
func (h *TransactionHandler) Checklist(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid transaction id")
		return
	}

	checklist, err := h.checklistService.Build(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, checklist)
}

// AddCoOwner handles POST /api/v1/transactions/:id/co-owners
func (h *TransactionHandler) AddCoOwner(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid transaction id")
		return
	}

	var input service.CoOwnerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	coOwner, err := h.txnService.AddCoOwner(c.Request.Context(), id, input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, coOwner)
}

// ListCoOwners handles GET /api/v1/transactions/:id/co-owners
func (h *TransactionHandler) ListCoOwners(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid transaction id")
		return
	}

	coOwners, err := h.txnService.ListCoOwners(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, coOwners)
}

// UpdateCoOwner handles PUT /api/v1/transactions/:id/co-owners/:coOwnerID
func (h *TransactionHandler) UpdateCoOwner(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid transaction id")
		return
	}
	coOwnerID, err := uuid.Parse(c.Param("coOwnerID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid co-owner id")
		return
	}

	var input service.UpdateCoOwnerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	coOwner, err := h.txnService.UpdateCoOwner(c.Request.Context(), id, coOwnerID, input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, coOwner)
}

// RemoveCoOwner handles DELETE /api/v1/transactions/:id/co-owners/:coOwnerID
func (h *TransactionHandler) RemoveCoOwner(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid transaction id")
		return
	}
	coOwnerID, err := uuid.Parse(c.Param("coOwnerID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid co-owner id")
		return
	}

	if err := h.txnService.RemoveCoOwner(c.Request.Context(), id, coOwnerID); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "co-owner removed"})
}

func parsePagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if offset < 0 {
		offset = 0
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return offset, limit
}
