package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"brokerdocs/internal/domain"
	"brokerdocs/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", "forbidden"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials"
	case errors.Is(err, domain.ErrUserInactive):
		return http.StatusForbidden, "USER_INACTIVE", "user is inactive"
	case errors.Is(err, domain.ErrTransactionNotFound):
		return http.StatusNotFound, "TRANSACTION_NOT_FOUND", "transaction not found"
	case errors.Is(err, domain.ErrScenarioNotFound):
		return http.StatusNotFound, "SCENARIO_NOT_FOUND", "scenario not found"
	case errors.Is(err, domain.ErrDocumentTypeNotFound):
		return http.StatusNotFound, "DOCUMENT_TYPE_NOT_FOUND", "document type not found"
	case errors.Is(err, domain.ErrCoOwnerNotFound):
		return http.StatusNotFound, "CO_OWNER_NOT_FOUND", "co-owner not found"
	case errors.Is(err, domain.ErrSubmissionNotFound):
		return http.StatusNotFound, "SUBMISSION_NOT_FOUND", "document submission not found"
	case errors.Is(err, domain.ErrNoteNotFound):
		return http.StatusNotFound, "NOTE_NOT_FOUND", "note not found"
	case errors.Is(err, domain.ErrSubmissionExists):
		return http.StatusConflict, "SUBMISSION_EXISTS", "submission already exists"
	case errors.Is(err, domain.ErrNoFileAttached):
		return http.StatusBadRequest, "NO_FILE_ATTACHED", "submission has no attached file"
	case errors.Is(err, domain.ErrEmptyRejectReason):
		return http.StatusBadRequest, "EMPTY_REJECT_REASON", "rejection requires a reason"
	case errors.Is(err, domain.ErrEmptyNoteBody):
		return http.StatusBadRequest, "EMPTY_NOTE_BODY", "note body must not be empty"
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, "INVALID_TRANSITION", "submission status does not permit this action"
	case errors.Is(err, domain.ErrNotExpired):
		return http.StatusBadRequest, "NOT_EXPIRED", "submission is not expired"
	case errors.Is(err, domain.ErrNoteNotDeletable):
		return http.StatusForbidden, "NOTE_NOT_DELETABLE", "only the author's most recent note may be deleted"
	case errors.Is(err, domain.ErrInvalidPartyType):
		return http.StatusBadRequest, "INVALID_PARTY_TYPE", "invalid party type"
	case errors.Is(err, domain.ErrPrincipalConflict):
		return http.StatusConflict, "PRINCIPAL_CONFLICT", "could not update requirements"
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type; allowed: pdf, jpg, png, heic"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrUploadFailed):
		return http.StatusInternalServerError, "UPLOAD_FAILED", "file upload to storage failed"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// extractAuthContext extracts the user ID and role from the request
// context. Returns false if the auth context is missing (error response
// already written).
func extractAuthContext(c *gin.Context) (userID uuid.UUID, role domain.UserRole, ok bool) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return uuid.Nil, "", false
	}
	role = domain.UserRole(middleware.GetRole(c))
	return userID, role, true
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get("request_id")
		log.Printf("[%s] internal error: %v", requestID, err)
	}
	RespondError(c, status, code, msg)
}
