package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"brokerdocs/internal/domain"
	"brokerdocs/internal/port"
)

type submissionRepo struct {
	db *sqlx.DB
}

// NewSubmissionRepo creates a new PostgreSQL-backed SubmissionRepository.
func NewSubmissionRepo(db *sqlx.DB) port.SubmissionRepository {
	return &submissionRepo{db: db}
}

// Create inserts a submission. A violation of either idempotency-key
// index comes back as domain.ErrSubmissionExists; the resolver counts
// that as "already exists", never as a failure.
func (r *submissionRepo) Create(ctx context.Context, sub *domain.DocumentSubmission) error {
	now := time.Now().UTC()
	sub.CreatedAt = now
	sub.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO document_submissions (
			id, transaction_id, document_type_id, co_owner_id, party_type, required,
			status, file_id, submitted_at, expiry_date,
			validated_at, validated_by, auto_validated,
			analysis_status, analysis_result, analysis_error, analysis_attempts, retry_after,
			legibility_score, ocr_text, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10,
			$11, $12, $13,
			$14, $15, $16, $17, $18,
			$19, $20, $21, $22
		)`,
		sub.ID, sub.TransactionID, sub.DocumentTypeID, sub.CoOwnerID, sub.PartyType, sub.Required,
		sub.Status, sub.FileID, sub.SubmittedAt, sub.ExpiryDate,
		sub.ValidatedAt, sub.ValidatedBy, sub.AutoValidated,
		sub.AnalysisStatus, sub.AnalysisResult, sub.AnalysisError, sub.AnalysisAttempts, sub.RetryAfter,
		sub.LegibilityScore, sub.OCRText, sub.CreatedAt, sub.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSubmissionExists
		}
		return fmt.Errorf("submissionRepo.Create: %w", err)
	}
	return nil
}

func (r *submissionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.DocumentSubmission, error) {
	var sub domain.DocumentSubmission
	err := r.db.GetContext(ctx, &sub, "SELECT * FROM document_submissions WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("submissionRepo.GetByID: %w", err)
	}
	return &sub, nil
}

func (r *submissionRepo) ListByTransaction(ctx context.Context, transactionID uuid.UUID) ([]domain.DocumentSubmission, error) {
	var subs []domain.DocumentSubmission
	err := r.db.SelectContext(ctx, &subs,
		"SELECT * FROM document_submissions WHERE transaction_id = $1 ORDER BY created_at", transactionID)
	if err != nil {
		return nil, fmt.Errorf("submissionRepo.ListByTransaction: %w", err)
	}
	return subs, nil
}

// UpdateLifecycle writes the lifecycle fields and the review entry in
// one transaction. A failed audit insert rolls the state change back.
func (r *submissionRepo) UpdateLifecycle(ctx context.Context, sub *domain.DocumentSubmission, review *domain.SubmissionReview) error {
	sub.UpdatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("submissionRepo.UpdateLifecycle begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	result, err := tx.ExecContext(ctx,
		`UPDATE document_submissions SET
			status = $1, file_id = $2, submitted_at = $3,
			validated_at = $4, validated_by = $5, auto_validated = $6,
			updated_at = $7
		 WHERE id = $8`,
		sub.Status, sub.FileID, sub.SubmittedAt,
		sub.ValidatedAt, sub.ValidatedBy, sub.AutoValidated,
		sub.UpdatedAt, sub.ID)
	if err != nil {
		return fmt.Errorf("submissionRepo.UpdateLifecycle: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrSubmissionNotFound
	}

	if review != nil {
		review.CreatedAt = sub.UpdatedAt
		_, err = tx.ExecContext(ctx,
			`INSERT INTO submission_reviews (id, submission_id, reviewer_id, action, notes, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			review.ID, review.SubmissionID, review.ReviewerID, review.Action, review.Notes, review.CreatedAt)
		if err != nil {
			return fmt.Errorf("submissionRepo.UpdateLifecycle review: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("submissionRepo.UpdateLifecycle commit: %w", err)
	}
	return nil
}

func (r *submissionRepo) UpdateAnalysis(ctx context.Context, sub *domain.DocumentSubmission) error {
	sub.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE document_submissions SET
			analysis_status = $1, analysis_result = $2, analysis_error = $3,
			analysis_attempts = $4, retry_after = $5,
			legibility_score = $6, ocr_text = $7, updated_at = $8
		 WHERE id = $9`,
		sub.AnalysisStatus, sub.AnalysisResult, sub.AnalysisError,
		sub.AnalysisAttempts, sub.RetryAfter,
		sub.LegibilityScore, sub.OCRText, sub.UpdatedAt, sub.ID)
	if err != nil {
		return fmt.Errorf("submissionRepo.UpdateAnalysis: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrSubmissionNotFound
	}
	return nil
}

// ClaimQueued marks up to limit due, queued submissions as processing
// and returns them. SKIP LOCKED keeps concurrent workers from claiming
// the same rows. Processing rows untouched since staleBefore were
// claimed by a worker that died mid-analysis and are claimed again.
func (r *submissionRepo) ClaimQueued(ctx context.Context, limit int, staleBefore time.Time) ([]domain.DocumentSubmission, error) {
	var subs []domain.DocumentSubmission
	err := r.db.SelectContext(ctx, &subs,
		`UPDATE document_submissions SET analysis_status = 'processing', updated_at = NOW()
		 WHERE id IN (
			SELECT id FROM document_submissions
			WHERE (analysis_status = 'queued' AND (retry_after IS NULL OR retry_after <= NOW()))
			   OR (analysis_status = 'processing' AND updated_at < $2)
			ORDER BY updated_at
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		 )
		 RETURNING *`, limit, staleBefore)
	if err != nil {
		return nil, fmt.Errorf("submissionRepo.ClaimQueued: %w", err)
	}
	return subs, nil
}

func (r *submissionRepo) ListExpiringBetween(ctx context.Context, from, to time.Time) ([]domain.DocumentSubmission, error) {
	var subs []domain.DocumentSubmission
	err := r.db.SelectContext(ctx, &subs,
		`SELECT * FROM document_submissions
		 WHERE status = 'validated' AND expiry_date IS NOT NULL
		   AND expiry_date >= $1 AND expiry_date < $2
		 ORDER BY expiry_date`, from, to)
	if err != nil {
		return nil, fmt.Errorf("submissionRepo.ListExpiringBetween: %w", err)
	}
	return subs, nil
}
