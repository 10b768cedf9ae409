package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"brokerdocs/internal/domain"
	"brokerdocs/internal/port"
)

// SubmissionService owns the per-document lifecycle state machine, the
// review and notes trail, and expiry-driven renewal. Every state
// mutation persists atomically with its audit review entry.
type SubmissionService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.DocumentSubmission, error)
	ListByTransaction(ctx context.Context, transactionID uuid.UUID) ([]domain.DocumentSubmission, error)
	ListReviews(ctx context.Context, submissionID uuid.UUID) ([]domain.SubmissionReview, error)

	MarkRequested(ctx context.Context, submissionID, actorID uuid.UUID) error
	MarkReceived(ctx context.Context, submissionID, actorID uuid.UUID) error
	Validate(ctx context.Context, submissionID, reviewerID uuid.UUID, notes string) error
	AutoValidate(ctx context.Context, submissionID uuid.UUID, result json.RawMessage, legibility float64) error
	Reject(ctx context.Context, submissionID, reviewerID uuid.UUID, reason string) error
	Renew(ctx context.Context, submissionID, actorID uuid.UUID) error

	AddNote(ctx context.Context, submissionID, authorID uuid.UUID, body string) (*domain.SubmissionNote, error)
	ListNotes(ctx context.Context, submissionID uuid.UUID) ([]domain.SubmissionNote, error)
	DeleteNote(ctx context.Context, noteID, authorID uuid.UUID) error
}

type submissionService struct {
	submissionRepo port.SubmissionRepository
	reviewRepo     port.ReviewRepository
	noteRepo       port.NoteRepository
	docTypeRepo    port.DocumentTypeRepository
	coOwnerRepo    port.CoOwnerRepository
	clientDir      port.ClientDirectory
	emailSender    port.EmailSender
}

// NewSubmissionService creates a new SubmissionService implementation.
func NewSubmissionService(
	submissionRepo port.SubmissionRepository,
	reviewRepo port.ReviewRepository,
	noteRepo port.NoteRepository,
	docTypeRepo port.DocumentTypeRepository,
	coOwnerRepo port.CoOwnerRepository,
	clientDir port.ClientDirectory,
	emailSender port.EmailSender,
) SubmissionService {
	return &submissionService{
		submissionRepo: submissionRepo,
		reviewRepo:     reviewRepo,
		noteRepo:       noteRepo,
		docTypeRepo:    docTypeRepo,
		coOwnerRepo:    coOwnerRepo,
		clientDir:      clientDir,
		emailSender:    emailSender,
	}
}

// allowedTransitions is the closed state machine. Rejected and
// needs-correction submissions cycle back through received on
// re-upload; validated submissions cycle back through requested only
// via renewal.
var allowedTransitions = map[domain.SubmissionStatus][]domain.SubmissionStatus{
	domain.SubmissionPendingRequest:  {domain.SubmissionRequested},
	domain.SubmissionRequested:       {domain.SubmissionReceived},
	domain.SubmissionReceived:        {domain.SubmissionValidated, domain.SubmissionRejected, domain.SubmissionNeedsCorrection},
	domain.SubmissionRejected:        {domain.SubmissionRequested, domain.SubmissionReceived},
	domain.SubmissionNeedsCorrection: {domain.SubmissionReceived},
	domain.SubmissionValidated:       {domain.SubmissionRequested},
}

func canTransition(from, to domain.SubmissionStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s *submissionService) GetByID(ctx context.Context, id uuid.UUID) (*domain.DocumentSubmission, error) {
	return s.submissionRepo.GetByID(ctx, id)
}

func (s *submissionService) ListByTransaction(ctx context.Context, transactionID uuid.UUID) ([]domain.DocumentSubmission, error) {
	return s.submissionRepo.ListByTransaction(ctx, transactionID)
}

func (s *submissionService) ListReviews(ctx context.Context, submissionID uuid.UUID) ([]domain.SubmissionReview, error) {
	return s.reviewRepo.ListBySubmission(ctx, submissionID)
}

func (s *submissionService) MarkRequested(ctx context.Context, submissionID, actorID uuid.UUID) error {
	sub, err := s.submissionRepo.GetByID(ctx, submissionID)
	if err != nil {
		return fmt.Errorf("submission.MarkRequested: %w", err)
	}
	if !canTransition(sub.Status, domain.SubmissionRequested) {
		return domain.ErrInvalidTransition
	}

	sub.Status = domain.SubmissionRequested
	review := newReview(sub.ID, &actorID, domain.ReviewActionRequested, "")
	if err := s.submissionRepo.UpdateLifecycle(ctx, sub, review); err != nil {
		return fmt.Errorf("submission.MarkRequested: %w", err)
	}
	return nil
}

func (s *submissionService) MarkReceived(ctx context.Context, submissionID, actorID uuid.UUID) error {
	sub, err := s.submissionRepo.GetByID(ctx, submissionID)
	if err != nil {
		return fmt.Errorf("submission.MarkReceived: %w", err)
	}
	if sub.FileID == nil {
		return domain.ErrNoFileAttached
	}
	if !canTransition(sub.Status, domain.SubmissionReceived) {
		return domain.ErrInvalidTransition
	}

	now := time.Now()
	sub.Status = domain.SubmissionReceived
	sub.SubmittedAt = &now
	review := newReview(sub.ID, &actorID, domain.ReviewActionReceived, "")
	if err := s.submissionRepo.UpdateLifecycle(ctx, sub, review); err != nil {
		return fmt.Errorf("submission.MarkReceived: %w", err)
	}
	return nil
}

func (s *submissionService) Validate(ctx context.Context, submissionID, reviewerID uuid.UUID, notes string) error {
	sub, err := s.submissionRepo.GetByID(ctx, submissionID)
	if err != nil {
		return fmt.Errorf("submission.Validate: %w", err)
	}
	if !canTransition(sub.Status, domain.SubmissionValidated) {
		return domain.ErrInvalidTransition
	}

	now := time.Now()
	sub.Status = domain.SubmissionValidated
	sub.ValidatedAt = &now
	sub.ValidatedBy = &reviewerID
	sub.AutoValidated = false
	review := newReview(sub.ID, &reviewerID, domain.ReviewActionValidated, notes)
	if err := s.submissionRepo.UpdateLifecycle(ctx, sub, review); err != nil {
		return fmt.Errorf("submission.Validate: %w", err)
	}
	return nil
}

// AutoValidate is the machine approval path. It leaves ValidatedBy nil
// so a human can later confirm or override; machine and human approval
// stay distinguishable in the audit trail.
func (s *submissionService) AutoValidate(ctx context.Context, submissionID uuid.UUID, result json.RawMessage, legibility float64) error {
	sub, err := s.submissionRepo.GetByID(ctx, submissionID)
	if err != nil {
		return fmt.Errorf("submission.AutoValidate: %w", err)
	}
	if !canTransition(sub.Status, domain.SubmissionValidated) {
		return domain.ErrInvalidTransition
	}

	now := time.Now()
	sub.Status = domain.SubmissionValidated
	sub.ValidatedAt = &now
	sub.ValidatedBy = nil
	sub.AutoValidated = true
	sub.AnalysisResult = result
	sub.LegibilityScore = &legibility
	review := newReview(sub.ID, nil, domain.ReviewActionAutoValidated,
		fmt.Sprintf("auto-validated with legibility %.0f", legibility))
	if err := s.submissionRepo.UpdateLifecycle(ctx, sub, review); err != nil {
		return fmt.Errorf("submission.AutoValidate: %w", err)
	}
	return nil
}

func (s *submissionService) Reject(ctx context.Context, submissionID, reviewerID uuid.UUID, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return domain.ErrEmptyRejectReason
	}

	sub, err := s.submissionRepo.GetByID(ctx, submissionID)
	if err != nil {
		return fmt.Errorf("submission.Reject: %w", err)
	}
	if !canTransition(sub.Status, domain.SubmissionRejected) {
		return domain.ErrInvalidTransition
	}

	sub.Status = domain.SubmissionRejected
	sub.SubmittedAt = nil
	review := newReview(sub.ID, &reviewerID, domain.ReviewActionRejected, reason)
	if err := s.submissionRepo.UpdateLifecycle(ctx, sub, review); err != nil {
		return fmt.Errorf("submission.Reject: %w", err)
	}

	s.notifyRejection(ctx, sub, reason)
	return nil
}

// Renew resets an expired validated submission back to requested so the
// document can be re-collected.
func (s *submissionService) Renew(ctx context.Context, submissionID, actorID uuid.UUID) error {
	sub, err := s.submissionRepo.GetByID(ctx, submissionID)
	if err != nil {
		return fmt.Errorf("submission.Renew: %w", err)
	}
	if !sub.Expired(time.Now()) {
		return domain.ErrNotExpired
	}

	docType, err := s.docTypeRepo.GetByID(ctx, sub.DocumentTypeID)
	if err != nil {
		return fmt.Errorf("submission.Renew: %w", err)
	}

	sub.Status = domain.SubmissionRequested
	sub.SubmittedAt = nil
	sub.ValidatedAt = nil
	sub.ValidatedBy = nil
	sub.AutoValidated = false
	sub.ExpiryDate = computeExpiry(docType, time.Now())
	review := newReview(sub.ID, &actorID, domain.ReviewActionRenewed, "")
	if err := s.submissionRepo.UpdateLifecycle(ctx, sub, review); err != nil {
		return fmt.Errorf("submission.Renew: %w", err)
	}
	return nil
}

func (s *submissionService) AddNote(ctx context.Context, submissionID, authorID uuid.UUID, body string) (*domain.SubmissionNote, error) {
	if strings.TrimSpace(body) == "" {
		return nil, domain.ErrEmptyNoteBody
	}
	if _, err := s.submissionRepo.GetByID(ctx, submissionID); err != nil {
		return nil, fmt.Errorf("submission.AddNote: %w", err)
	}

	note := &domain.SubmissionNote{
		ID:           uuid.New(),
		SubmissionID: submissionID,
		AuthorID:     authorID,
		Body:         body,
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("submission.AddNote: %w", err)
	}
	return note, nil
}

func (s *submissionService) ListNotes(ctx context.Context, submissionID uuid.UUID) ([]domain.SubmissionNote, error) {
	return s.noteRepo.ListBySubmission(ctx, submissionID)
}

// DeleteNote removes a note only when it is the author's own most
// recent one. The trail is otherwise append-only.
func (s *submissionService) DeleteNote(ctx context.Context, noteID, authorID uuid.UUID) error {
	note, err := s.noteRepo.GetByID(ctx, noteID)
	if err != nil {
		return fmt.Errorf("submission.DeleteNote: %w", err)
	}
	if note.AuthorID != authorID {
		return domain.ErrNoteNotDeletable
	}

	latest, err := s.noteRepo.GetLatestByAuthor(ctx, note.SubmissionID, authorID)
	if err != nil {
		return fmt.Errorf("submission.DeleteNote: %w", err)
	}
	if latest.ID != note.ID {
		return domain.ErrNoteNotDeletable
	}

	if err := s.noteRepo.Delete(ctx, noteID); err != nil {
		return fmt.Errorf("submission.DeleteNote: %w", err)
	}
	return nil
}

// notifyRejection emails the bound client best-effort. A delivery
// failure never unwinds the rejection itself.
func (s *submissionService) notifyRejection(ctx context.Context, sub *domain.DocumentSubmission, reason string) {
	if sub.CoOwnerID == nil {
		return
	}
	coOwner, err := s.coOwnerRepo.GetByID(ctx, *sub.CoOwnerID)
	if err != nil || coOwner.ClientID == nil {
		return
	}
	client, err := s.clientDir.GetByID(ctx, *coOwner.ClientID)
	if err != nil || client.Email == "" {
		return
	}
	docType, err := s.docTypeRepo.GetByID(ctx, sub.DocumentTypeID)
	if err != nil {
		return
	}

	if err := s.emailSender.SendRejectionNotice(ctx, client.Email, client.FullName, docType.Name, reason); err != nil {
		log.Printf("submission.Reject: rejection notice to %s failed: %v", client.Email, err)
	}
}

func newReview(submissionID uuid.UUID, reviewerID *uuid.UUID, action domain.ReviewAction, notes string) *domain.SubmissionReview {
	return &domain.SubmissionReview{
		ID:           uuid.New(),
		SubmissionID: submissionID,
		ReviewerID:   reviewerID,
		Action:       action,
		Notes:        notes,
	}
}
