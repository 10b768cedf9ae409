package handler_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"brokerdocs/internal/domain"
	"brokerdocs/internal/handler"
)

func TestMapDomainError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{domain.ErrUserInactive, http.StatusForbidden, "USER_INACTIVE"},
		{domain.ErrTransactionNotFound, http.StatusNotFound, "TRANSACTION_NOT_FOUND"},
		{domain.ErrSubmissionNotFound, http.StatusNotFound, "SUBMISSION_NOT_FOUND"},
		{domain.ErrSubmissionExists, http.StatusConflict, "SUBMISSION_EXISTS"},
		{domain.ErrNoFileAttached, http.StatusBadRequest, "NO_FILE_ATTACHED"},
		{domain.ErrEmptyRejectReason, http.StatusBadRequest, "EMPTY_REJECT_REASON"},
		{domain.ErrInvalidTransition, http.StatusConflict, "INVALID_TRANSITION"},
		{domain.ErrNotExpired, http.StatusBadRequest, "NOT_EXPIRED"},
		{domain.ErrNoteNotDeletable, http.StatusForbidden, "NOTE_NOT_DELETABLE"},
		{domain.ErrInvalidPartyType, http.StatusBadRequest, "INVALID_PARTY_TYPE"},
		{domain.ErrPrincipalConflict, http.StatusConflict, "PRINCIPAL_CONFLICT"},
		{domain.ErrUnsupportedFileType, http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE"},
		{domain.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
		{domain.ErrUploadFailed, http.StatusInternalServerError, "UPLOAD_FAILED"},
		{errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range cases {
		status, code, msg := handler.MapDomainError(tc.err)
		assert.Equal(t, tc.status, status, "status for %v", tc.err)
		assert.Equal(t, tc.code, code, "code for %v", tc.err)
		assert.NotEmpty(t, msg)
	}
}

// Wrapped domain errors still map; services wrap with their method name.
func TestMapDomainError_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("submission.Reject: %w", domain.ErrInvalidTransition)

	status, code, _ := handler.MapDomainError(wrapped)

	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INVALID_TRANSITION", code)
}
