package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"brokerdocs/internal/domain"
)

// SubmissionRepository defines the contract for document submission
// persistence. Create must surface the storage uniqueness constraint on
// the idempotency key as domain.ErrSubmissionExists.
type SubmissionRepository interface {
	Create(ctx context.Context, sub *domain.DocumentSubmission) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.DocumentSubmission, error)
	ListByTransaction(ctx context.Context, transactionID uuid.UUID) ([]domain.DocumentSubmission, error)

	// UpdateLifecycle persists the submission's lifecycle fields and
	// appends the review entry in one database transaction: if the audit
	// write fails, the state change must not persist.
	UpdateLifecycle(ctx context.Context, sub *domain.DocumentSubmission, review *domain.SubmissionReview) error

	UpdateAnalysis(ctx context.Context, sub *domain.DocumentSubmission) error

	// ClaimQueued atomically claims up to limit submissions whose
	// analysis is queued and due, marking them processing. Rows already
	// processing but untouched since staleBefore are reclaimed too, so
	// a crashed or interrupted worker cannot strand them.
	ClaimQueued(ctx context.Context, limit int, staleBefore time.Time) ([]domain.DocumentSubmission, error)

	// ListExpiringBetween returns validated submissions whose expiry date
	// falls in [from, to), for the expiring-soon sweep.
	ListExpiringBetween(ctx context.Context, from, to time.Time) ([]domain.DocumentSubmission, error)
}

// ReviewRepository defines the contract for the append-only review trail.
type ReviewRepository interface {
	ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]domain.SubmissionReview, error)
}

// NoteRepository defines the contract for submission notes.
type NoteRepository interface {
	Create(ctx context.Context, note *domain.SubmissionNote) error
	GetByID(ctx context.Context, noteID uuid.UUID) (*domain.SubmissionNote, error)
	ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]domain.SubmissionNote, error)
	GetLatestByAuthor(ctx context.Context, submissionID, authorID uuid.UUID) (*domain.SubmissionNote, error)
	Delete(ctx context.Context, noteID uuid.UUID) error
}

// ReassignmentStore is the transactional view the principal reassignment
// coordinator operates on. Every method runs inside the same database
// transaction; the co-owner rows are locked for the duration.
type ReassignmentStore interface {
	ListCoOwnersForUpdate(ctx context.Context, transactionID uuid.UUID) ([]domain.CoOwner, error)
	SetPrimary(ctx context.Context, coOwnerID uuid.UUID, primary bool) error
	ListPrincipalOnlySubmissions(ctx context.Context, transactionID, coOwnerID uuid.UUID) ([]domain.DocumentSubmission, error)
	ListCoveredDocumentTypes(ctx context.Context, transactionID, coOwnerID uuid.UUID) (map[uuid.UUID]bool, error)
	ReassignSubmission(ctx context.Context, submissionID, newCoOwnerID uuid.UUID) error
	UpdateSubmissionParty(ctx context.Context, submissionID uuid.UUID, party domain.PartyType) error
	DeleteSubmission(ctx context.Context, submissionID uuid.UUID) error
}

// TxManager runs a function within one database transaction, rolling
// back on error or panic. Partial application of a reassignment is
// treated as total failure.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(store ReassignmentStore) error) error
}
