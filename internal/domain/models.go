package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// User represents a staff member of the brokerage (admin, advisor, reviewer).
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Role         UserRole  `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Client is a person on either side of a transaction, deduplicated by
// the client directory.
type Client struct {
	ID        uuid.UUID `db:"id" json:"id"`
	FullName  string    `db:"full_name" json:"full_name"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	CURP      string    `db:"curp" json:"curp"`
	RFC       string    `db:"rfc" json:"rfc"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// DocumentType is a catalog entry. ValidityMonths, when set, drives the
// expiry date of submissions created for this type.
type DocumentType struct {
	ID             uuid.UUID        `db:"id" json:"id"`
	Name           string           `db:"name" json:"name"`
	Category       DocumentCategory `db:"category" json:"category"`
	ValidityMonths *int             `db:"validity_months" json:"validity_months"`
	IsActive       bool             `db:"is_active" json:"is_active"`
	CreatedAt      time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time        `db:"updated_at" json:"updated_at"`
}

// Scenario is a named legal/operational template (e.g. "sale via
// inheritance") determining which documents a transaction requires.
type Scenario struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// ScenarioRule maps one document type to the parties that owe it within
// a scenario. PrincipalOnly overrides the party fan-out: the rule then
// applies exclusively to the co-owner flagged primary.
type ScenarioRule struct {
	ID             uuid.UUID `db:"id" json:"id"`
	ScenarioID     uuid.UUID `db:"scenario_id" json:"scenario_id"`
	DocumentTypeID uuid.UUID `db:"document_type_id" json:"document_type_id"`
	PartyType      PartyType `db:"party_type" json:"party_type"`
	Required       bool      `db:"required" json:"required"`
	PrincipalOnly  bool      `db:"principal_only" json:"principal_only"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// Transaction is the brokerage operation submissions belong to. Only
// the fields the document engine consumes live here.
type Transaction struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	Reference        string     `db:"reference" json:"reference"`
	PropertyAddress  string     `db:"property_address" json:"property_address"`
	ScenarioID       *uuid.UUID `db:"scenario_id" json:"scenario_id"`
	OffererClientID  *uuid.UUID `db:"offerer_client_id" json:"offerer_client_id"`
	AcquirerClientID *uuid.UUID `db:"acquirer_client_id" json:"acquirer_client_id"`
	LegalRepName     string     `db:"legal_rep_name" json:"legal_rep_name"`
	CreatedBy        uuid.UUID  `db:"created_by" json:"created_by"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// CoOwner is a party attached to a transaction. At most one active
// co-owner per transaction carries IsPrimary. Never hard-deleted while
// submissions reference it; removal sets Active false.
type CoOwner struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	TransactionID uuid.UUID  `db:"transaction_id" json:"transaction_id"`
	ClientID      *uuid.UUID `db:"client_id" json:"client_id"`
	PersonName    string     `db:"person_name" json:"person_name"`
	Role          string     `db:"role" json:"role"`
	Percentage    float64    `db:"percentage" json:"percentage"`
	Active        bool       `db:"active" json:"active"`
	IsPrimary     bool       `db:"is_primary" json:"is_primary"`
	Deceased      bool       `db:"deceased" json:"deceased"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// IsOwner reports whether this co-owner has the privileged owner role.
func (c *CoOwner) IsOwner() bool {
	return c.Role == CoOwnerRoleOwner
}

// DocumentSubmission is the trackable instance of one owed document for
// one transaction, optionally bound to one co-owner. The (transaction,
// documentType, coOwner) and (transaction, documentType, partyType)
// tuples are unique at the storage layer; the resolver relies on that
// constraint, not on application-level checks, for idempotency.
type DocumentSubmission struct {
	ID               uuid.UUID        `db:"id" json:"id"`
	TransactionID    uuid.UUID        `db:"transaction_id" json:"transaction_id"`
	DocumentTypeID   uuid.UUID        `db:"document_type_id" json:"document_type_id"`
	CoOwnerID        *uuid.UUID       `db:"co_owner_id" json:"co_owner_id"`
	PartyType        PartyType        `db:"party_type" json:"party_type"`
	Required         bool             `db:"required" json:"required"`
	Status           SubmissionStatus `db:"status" json:"status"`
	FileID           *uuid.UUID       `db:"file_id" json:"file_id"`
	SubmittedAt      *time.Time       `db:"submitted_at" json:"submitted_at"`
	ExpiryDate       *time.Time       `db:"expiry_date" json:"expiry_date"`
	ValidatedAt      *time.Time       `db:"validated_at" json:"validated_at"`
	ValidatedBy      *uuid.UUID       `db:"validated_by" json:"validated_by"`
	AutoValidated    bool             `db:"auto_validated" json:"auto_validated"`
	AnalysisStatus   AnalysisStatus   `db:"analysis_status" json:"analysis_status"`
	AnalysisResult   json.RawMessage  `db:"analysis_result" json:"analysis_result"`
	AnalysisError    string           `db:"analysis_error" json:"analysis_error"`
	AnalysisAttempts int              `db:"analysis_attempts" json:"analysis_attempts"`
	RetryAfter       *time.Time       `db:"retry_after" json:"retry_after"`
	LegibilityScore  *float64         `db:"legibility_score" json:"legibility_score"`
	OCRText          string           `db:"ocr_text" json:"ocr_text"`
	CreatedAt        time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updated_at"`
}

// expiringSoonWindow is the lead time within which a submission with a
// validity period counts as expiring soon.
const expiringSoonWindow = 30 * 24 * time.Hour

// Expired reports whether the submission's validity period has lapsed.
// Derived at read time; never stored as a status transition.
func (s *DocumentSubmission) Expired(now time.Time) bool {
	return s.ExpiryDate != nil && s.ExpiryDate.Before(now)
}

// ExpiringSoon reports whether the submission expires within the next
// 30 days (inclusive of today).
func (s *DocumentSubmission) ExpiringSoon(now time.Time) bool {
	if s.ExpiryDate == nil || s.ExpiryDate.Before(now) {
		return false
	}
	return s.ExpiryDate.Sub(now) <= expiringSoonWindow
}

// SubmissionReview is an append-only audit entry for a lifecycle action
// on a submission. ReviewerID is nil for machine actions.
type SubmissionReview struct {
	ID           uuid.UUID    `db:"id" json:"id"`
	SubmissionID uuid.UUID    `db:"submission_id" json:"submission_id"`
	ReviewerID   *uuid.UUID   `db:"reviewer_id" json:"reviewer_id"`
	Action       ReviewAction `db:"action" json:"action"`
	Notes        string       `db:"notes" json:"notes"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
}

// SubmissionNote is a free-text note on a submission. Append-only; at
// most the author's own most recent note may be deleted.
type SubmissionNote struct {
	ID           uuid.UUID `db:"id" json:"id"`
	SubmissionID uuid.UUID `db:"submission_id" json:"submission_id"`
	AuthorID     uuid.UUID `db:"author_id" json:"author_id"`
	Body         string    `db:"body" json:"body"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// FileMeta stores metadata about an uploaded attachment.
type FileMeta struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	SubmissionID uuid.UUID  `db:"submission_id" json:"submission_id"`
	UploadedBy   uuid.UUID  `db:"uploaded_by" json:"uploaded_by"`
	FileName     string     `db:"file_name" json:"file_name"`
	OriginalName string     `db:"original_name" json:"original_name"`
	FileType     FileType   `db:"file_type" json:"file_type"`
	FileSize     int64      `db:"file_size" json:"file_size"`
	S3Bucket     string     `db:"s3_bucket" json:"s3_bucket"`
	S3Key        string     `db:"s3_key" json:"s3_key"`
	ContentType  string     `db:"content_type" json:"content_type"`
	Status       FileStatus `db:"status" json:"status"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}
