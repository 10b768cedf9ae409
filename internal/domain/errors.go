package domain

import "errors"

var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserInactive       = errors.New("user is inactive")

	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrScenarioNotFound     = errors.New("scenario not found")
	ErrDocumentTypeNotFound = errors.New("document type not found")
	ErrCoOwnerNotFound      = errors.New("co-owner not found")
	ErrSubmissionNotFound   = errors.New("document submission not found")
	ErrNoteNotFound         = errors.New("note not found")

	// ErrSubmissionExists signals the storage uniqueness constraint on a
	// submission's idempotency key. Callers treat it as "already exists",
	// never as a failure.
	ErrSubmissionExists = errors.New("submission already exists")

	ErrNoFileAttached    = errors.New("submission has no attached file")
	ErrEmptyRejectReason = errors.New("rejection requires a reason")
	ErrEmptyNoteBody     = errors.New("note body must not be empty")
	ErrInvalidTransition = errors.New("invalid submission status transition")
	ErrNotExpired        = errors.New("submission is not expired")
	ErrNoteNotDeletable  = errors.New("only the author's most recent note may be deleted")
	ErrInvalidPartyType  = errors.New("invalid party type")

	// ErrPrincipalConflict means a reassignment would leave zero or two
	// primary co-owners visible; the whole reassignment rolls back.
	ErrPrincipalConflict = errors.New("inconsistent principal co-owner state")

	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed        = errors.New("file upload to storage failed")
)
