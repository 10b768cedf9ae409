package service_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"brokerdocs/internal/domain"
	"brokerdocs/internal/service"
	"brokerdocs/mocks"
)

type submissionFixture struct {
	submissionRepo *mocks.MockSubmissionRepo
	reviewRepo     *mocks.MockReviewRepo
	noteRepo       *mocks.MockNoteRepo
	docTypeRepo    *mocks.MockDocumentTypeRepo
	coOwnerRepo    *mocks.MockCoOwnerRepo
	clientDir      *mocks.MockClientDirectory
	emailSender    *mocks.MockEmailSender
	svc            service.SubmissionService
}

func newSubmissionFixture() *submissionFixture {
	f := &submissionFixture{
		submissionRepo: new(mocks.MockSubmissionRepo),
		reviewRepo:     new(mocks.MockReviewRepo),
		noteRepo:       new(mocks.MockNoteRepo),
		docTypeRepo:    new(mocks.MockDocumentTypeRepo),
		coOwnerRepo:    new(mocks.MockCoOwnerRepo),
		clientDir:      new(mocks.MockClientDirectory),
		emailSender:    new(mocks.MockEmailSender),
	}
	f.svc = service.NewSubmissionService(
		f.submissionRepo, f.reviewRepo, f.noteRepo,
		f.docTypeRepo, f.coOwnerRepo, f.clientDir, f.emailSender,
	)
	return f
}

func TestSubmissionService_MarkReceived_NoFile(t *testing.T) {
	f := newSubmissionFixture()
	subID := uuid.New()

	f.submissionRepo.On("GetByID", mock.Anything, subID).Return(&domain.DocumentSubmission{
		ID:     subID,
		Status: domain.SubmissionRequested,
	}, nil)

	err := f.svc.MarkReceived(context.Background(), subID, uuid.New())

	assert.ErrorIs(t, err, domain.ErrNoFileAttached)
	f.submissionRepo.AssertNotCalled(t, "UpdateLifecycle", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmissionService_MarkReceived_Success(t *testing.T) {
	f := newSubmissionFixture()
	subID := uuid.New()
	fileID := uuid.New()
	actorID := uuid.New()

	f.submissionRepo.On("GetByID", mock.Anything, subID).Return(&domain.DocumentSubmission{
		ID:     subID,
		Status: domain.SubmissionRequested,
		FileID: &fileID,
	}, nil)
	f.submissionRepo.On("UpdateLifecycle", mock.Anything,
		mock.MatchedBy(func(sub *domain.DocumentSubmission) bool {
			return sub.Status == domain.SubmissionReceived && sub.SubmittedAt != nil
		}),
		mock.MatchedBy(func(review *domain.SubmissionReview) bool {
			return review.Action == domain.ReviewActionReceived && *review.ReviewerID == actorID
		}),
	).Return(nil)

	err := f.svc.MarkReceived(context.Background(), subID, actorID)

	assert.NoError(t, err)
	f.submissionRepo.AssertExpectations(t)
}

func TestSubmissionService_Reject_EmptyReason(t *testing.T) {
	f := newSubmissionFixture()

	err := f.svc.Reject(context.Background(), uuid.New(), uuid.New(), "   ")

	assert.ErrorIs(t, err, domain.ErrEmptyRejectReason)
	f.submissionRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestSubmissionService_Reject_ClearsSubmittedAtAndNotifies(t *testing.T) {
	f := newSubmissionFixture()
	subID := uuid.New()
	coOwnerID := uuid.New()
	clientID := uuid.New()
	docTypeID := uuid.New()
	submittedAt := time.Now()

	f.submissionRepo.On("GetByID", mock.Anything, subID).Return(&domain.DocumentSubmission{
		ID:             subID,
		DocumentTypeID: docTypeID,
		CoOwnerID:      &coOwnerID,
		Status:         domain.SubmissionReceived,
		SubmittedAt:    &submittedAt,
	}, nil)
	f.submissionRepo.On("UpdateLifecycle", mock.Anything,
		mock.MatchedBy(func(sub *domain.DocumentSubmission) bool {
			return sub.Status == domain.SubmissionRejected && sub.SubmittedAt == nil
		}),
		mock.MatchedBy(func(review *domain.SubmissionReview) bool {
			return review.Action == domain.ReviewActionRejected && review.Notes == "ilegible"
		}),
	).Return(nil)

	f.coOwnerRepo.On("GetByID", mock.Anything, coOwnerID).Return(&domain.CoOwner{
		ID: coOwnerID, ClientID: &clientID,
	}, nil)
	f.clientDir.On("GetByID", mock.Anything, clientID).Return(&domain.Client{
		ID: clientID, FullName: "Ana Torres", Email: "ana@example.com",
	}, nil)
	f.docTypeRepo.On("GetByID", mock.Anything, docTypeID).Return(&domain.DocumentType{
		ID: docTypeID, Name: "Escritura",
	}, nil)
	f.emailSender.On("SendRejectionNotice", mock.Anything, "ana@example.com", "Ana Torres", "Escritura", "ilegible").Return(nil)

	err := f.svc.Reject(context.Background(), subID, uuid.New(), "ilegible")

	assert.NoError(t, err)
	f.emailSender.AssertExpectations(t)
}

func TestSubmissionService_Reject_InvalidTransition(t *testing.T) {
	f := newSubmissionFixture()
	subID := uuid.New()

	f.submissionRepo.On("GetByID", mock.Anything, subID).Return(&domain.DocumentSubmission{
		ID:     subID,
		Status: domain.SubmissionPendingRequest,
	}, nil)

	err := f.svc.Reject(context.Background(), subID, uuid.New(), "ilegible")

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestSubmissionService_Validate_StampsReviewer(t *testing.T) {
	f := newSubmissionFixture()
	subID := uuid.New()
	reviewerID := uuid.New()

	f.submissionRepo.On("GetByID", mock.Anything, subID).Return(&domain.DocumentSubmission{
		ID:     subID,
		Status: domain.SubmissionReceived,
	}, nil)
	f.submissionRepo.On("UpdateLifecycle", mock.Anything,
		mock.MatchedBy(func(sub *domain.DocumentSubmission) bool {
			return sub.Status == domain.SubmissionValidated &&
				sub.ValidatedBy != nil && *sub.ValidatedBy == reviewerID &&
				!sub.AutoValidated
		}),
		mock.AnythingOfType("*domain.SubmissionReview"),
	).Return(nil)

	err := f.svc.Validate(context.Background(), subID, reviewerID, "looks good")

	assert.NoError(t, err)
	f.submissionRepo.AssertExpectations(t)
}

// Machine approval leaves ValidatedBy nil so it stays distinguishable
// from a human validation.
func TestSubmissionService_AutoValidate(t *testing.T) {
	f := newSubmissionFixture()
	subID := uuid.New()
	result := json.RawMessage(`{"confidence":85}`)

	f.submissionRepo.On("GetByID", mock.Anything, subID).Return(&domain.DocumentSubmission{
		ID:     subID,
		Status: domain.SubmissionReceived,
	}, nil)
	f.submissionRepo.On("UpdateLifecycle", mock.Anything,
		mock.MatchedBy(func(sub *domain.DocumentSubmission) bool {
			return sub.Status == domain.SubmissionValidated &&
				sub.ValidatedBy == nil && sub.AutoValidated &&
				sub.LegibilityScore != nil && *sub.LegibilityScore == 82.5
		}),
		mock.MatchedBy(func(review *domain.SubmissionReview) bool {
			return review.Action == domain.ReviewActionAutoValidated && review.ReviewerID == nil
		}),
	).Return(nil)

	err := f.svc.AutoValidate(context.Background(), subID, result, 82.5)

	assert.NoError(t, err)
	f.submissionRepo.AssertExpectations(t)
}

func TestSubmissionService_Renew_NotExpired(t *testing.T) {
	f := newSubmissionFixture()
	subID := uuid.New()
	future := time.Now().AddDate(0, 1, 0)

	f.submissionRepo.On("GetByID", mock.Anything, subID).Return(&domain.DocumentSubmission{
		ID:         subID,
		Status:     domain.SubmissionValidated,
		ExpiryDate: &future,
	}, nil)

	err := f.svc.Renew(context.Background(), subID, uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotExpired)
}

func TestSubmissionService_Renew_ResetsValidation(t *testing.T) {
	f := newSubmissionFixture()
	subID := uuid.New()
	docTypeID := uuid.New()
	reviewerID := uuid.New()
	past := time.Now().AddDate(0, -1, 0)

	f.submissionRepo.On("GetByID", mock.Anything, subID).Return(&domain.DocumentSubmission{
		ID:             subID,
		DocumentTypeID: docTypeID,
		Status:         domain.SubmissionValidated,
		ExpiryDate:     &past,
		ValidatedAt:    &past,
		ValidatedBy:    &reviewerID,
	}, nil)
	f.docTypeRepo.On("GetByID", mock.Anything, docTypeID).Return(&domain.DocumentType{
		ID: docTypeID, ValidityMonths: intPtr(6),
	}, nil)
	f.submissionRepo.On("UpdateLifecycle", mock.Anything,
		mock.MatchedBy(func(sub *domain.DocumentSubmission) bool {
			return sub.Status == domain.SubmissionRequested &&
				sub.ValidatedAt == nil && sub.ValidatedBy == nil &&
				sub.ExpiryDate != nil && sub.ExpiryDate.After(time.Now())
		}),
		mock.MatchedBy(func(review *domain.SubmissionReview) bool {
			return review.Action == domain.ReviewActionRenewed
		}),
	).Return(nil)

	err := f.svc.Renew(context.Background(), subID, uuid.New())

	assert.NoError(t, err)
	f.submissionRepo.AssertExpectations(t)
}

func TestSubmissionService_AddNote_EmptyBody(t *testing.T) {
	f := newSubmissionFixture()

	note, err := f.svc.AddNote(context.Background(), uuid.New(), uuid.New(), "  ")

	assert.Nil(t, note)
	assert.ErrorIs(t, err, domain.ErrEmptyNoteBody)
}

func TestSubmissionService_DeleteNote_OnlyLatestByAuthor(t *testing.T) {
	f := newSubmissionFixture()
	subID := uuid.New()
	authorID := uuid.New()
	oldNoteID := uuid.New()
	latestNoteID := uuid.New()

	f.noteRepo.On("GetByID", mock.Anything, oldNoteID).Return(&domain.SubmissionNote{
		ID: oldNoteID, SubmissionID: subID, AuthorID: authorID,
	}, nil)
	f.noteRepo.On("GetLatestByAuthor", mock.Anything, subID, authorID).Return(&domain.SubmissionNote{
		ID: latestNoteID, SubmissionID: subID, AuthorID: authorID,
	}, nil)

	err := f.svc.DeleteNote(context.Background(), oldNoteID, authorID)

	assert.ErrorIs(t, err, domain.ErrNoteNotDeletable)
	f.noteRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestSubmissionService_DeleteNote_WrongAuthor(t *testing.T) {
	f := newSubmissionFixture()
	noteID := uuid.New()

	f.noteRepo.On("GetByID", mock.Anything, noteID).Return(&domain.SubmissionNote{
		ID: noteID, SubmissionID: uuid.New(), AuthorID: uuid.New(),
	}, nil)

	err := f.svc.DeleteNote(context.Background(), noteID, uuid.New())

	assert.ErrorIs(t, err, domain.ErrNoteNotDeletable)
}

func TestSubmissionService_DeleteNote_Latest(t *testing.T) {
	f := newSubmissionFixture()
	subID := uuid.New()
	authorID := uuid.New()
	noteID := uuid.New()
	note := &domain.SubmissionNote{ID: noteID, SubmissionID: subID, AuthorID: authorID}

	f.noteRepo.On("GetByID", mock.Anything, noteID).Return(note, nil)
	f.noteRepo.On("GetLatestByAuthor", mock.Anything, subID, authorID).Return(note, nil)
	f.noteRepo.On("Delete", mock.Anything, noteID).Return(nil)

	err := f.svc.DeleteNote(context.Background(), noteID, authorID)

	assert.NoError(t, err)
	f.noteRepo.AssertExpectations(t)
}
