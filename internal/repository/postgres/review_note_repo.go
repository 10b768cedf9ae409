package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"brokerdocs/internal/domain"
	"brokerdocs/internal/port"
)

type reviewRepo struct {
	db *sqlx.DB
}

// NewReviewRepo creates a new PostgreSQL-backed ReviewRepository.
// Review rows are only ever inserted through the submission repo's
// lifecycle transaction; this repo reads them.
func NewReviewRepo(db *sqlx.DB) port.ReviewRepository {
	return &reviewRepo{db: db}
}

func (r *reviewRepo) ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]domain.SubmissionReview, error) {
	var reviews []domain.SubmissionReview
	err := r.db.SelectContext(ctx, &reviews,
		"SELECT * FROM submission_reviews WHERE submission_id = $1 ORDER BY created_at", submissionID)
	if err != nil {
		return nil, fmt.Errorf("reviewRepo.ListBySubmission: %w", err)
	}
	return reviews, nil
}

type noteRepo struct {
	db *sqlx.DB
}

// NewNoteRepo creates a new PostgreSQL-backed NoteRepository.
func NewNoteRepo(db *sqlx.DB) port.NoteRepository {
	return &noteRepo{db: db}
}

func (r *noteRepo) Create(ctx context.Context, note *domain.SubmissionNote) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO submission_notes (id, submission_id, author_id, body, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		note.ID, note.SubmissionID, note.AuthorID, note.Body, note.CreatedAt)
	if err != nil {
		return fmt.Errorf("noteRepo.Create: %w", err)
	}
	return nil
}

func (r *noteRepo) GetByID(ctx context.Context, noteID uuid.UUID) (*domain.SubmissionNote, error) {
	var note domain.SubmissionNote
	err := r.db.GetContext(ctx, &note, "SELECT * FROM submission_notes WHERE id = $1", noteID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNoteNotFound
		}
		return nil, fmt.Errorf("noteRepo.GetByID: %w", err)
	}
	return &note, nil
}

func (r *noteRepo) ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]domain.SubmissionNote, error) {
	var notes []domain.SubmissionNote
	err := r.db.SelectContext(ctx, &notes,
		"SELECT * FROM submission_notes WHERE submission_id = $1 ORDER BY created_at", submissionID)
	if err != nil {
		return nil, fmt.Errorf("noteRepo.ListBySubmission: %w", err)
	}
	return notes, nil
}

func (r *noteRepo) GetLatestByAuthor(ctx context.Context, submissionID, authorID uuid.UUID) (*domain.SubmissionNote, error) {
	var note domain.SubmissionNote
	err := r.db.GetContext(ctx, &note,
		`SELECT * FROM submission_notes
		 WHERE submission_id = $1 AND author_id = $2
		 ORDER BY created_at DESC LIMIT 1`, submissionID, authorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNoteNotFound
		}
		return nil, fmt.Errorf("noteRepo.GetLatestByAuthor: %w", err)
	}
	return &note, nil
}

func (r *noteRepo) Delete(ctx context.Context, noteID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM submission_notes WHERE id = $1", noteID)
	if err != nil {
		return fmt.Errorf("noteRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNoteNotFound
	}
	return nil
}
