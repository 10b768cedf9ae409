package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"brokerdocs/internal/service"
)

// SubmissionHandler handles document submission lifecycle endpoints.
type SubmissionHandler struct {
	submissionService service.SubmissionService
	fileService       service.FileService
}

// NewSubmissionHandler creates a new SubmissionHandler.
func NewSubmissionHandler(submissionService service.SubmissionService, fileService service.FileService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: submissionService, fileService: fileService}
}

// reasonBody is the request body for actions that carry free text.
type reasonBody struct {
	Reason string `json:"reason"`
	Notes  string `json:"notes"`
}

// noteBody is the request body for creating a note.
type noteBody struct {
	Body string `json:"body" binding:"required"`
}

// Get handles GET /api/v1/submissions/:id
func (h *SubmissionHandler) Get(c *gin.Context) {
	id, ok := parseSubmissionID(c)
	if !ok {
		return
	}

	sub, err := h.submissionService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, sub)
}

// ListByTransaction handles GET /api/v1/transactions/:id/submissions
func (h *SubmissionHandler) ListByTransaction(c *gin.Context) {
	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid transaction id")
		return
	}

	subs, err := h.submissionService.ListByTransaction(c.Request.Context(), transactionID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, subs)
}

// MarkRequested handles POST /api/v1/submissions/:id/request
func (h *SubmissionHandler) MarkRequested(c *gin.Context) {
	id, ok := parseSubmissionID(c)
	if !ok {
		return
	}
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	if err := h.submissionService.MarkRequested(c.Request.Context(), id, userID); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "submission requested"})
}

// MarkReceived handles POST /api/v1/submissions/:id/receive
func (h *SubmissionHandler) MarkReceived(c *gin.Context) {
	id, ok := parseSubmissionID(c)
	if !ok {
		return
	}
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	if err := h.submissionService.MarkReceived(c.Request.Context(), id, userID); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "submission received"})
}

// Validate handles POST /api/v1/submissions/:id/validate
func (h *SubmissionHandler) Validate(c *gin.Context) {
	id, ok := parseSubmissionID(c)
	if !ok {
		return
	}
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var body reasonBody
	_ = c.ShouldBindJSON(&body)

	if err := h.submissionService.Validate(c.Request.Context(), id, userID, body.Notes); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "submission validated"})
}

// Reject handles POST /api/v1/submissions/:id/reject
func (h *SubmissionHandler) Reject(c *gin.Context) {
	id, ok := parseSubmissionID(c)
	if !ok {
		return
	}
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var body reasonBody
	_ = c.ShouldBindJSON(&body)

	if err := h.submissionService.Reject(c.Request.Context(), id, userID, body.Reason); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "submission rejected"})
}

// Renew handles POST /api/v1/submissions/:id/renew
func (h *SubmissionHandler) Renew(c *gin.Context) {
	id, ok := parseSubmissionID(c)
	if !ok {
		return
	}
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	if err := h.submissionService.Renew(c.Request.Context(), id, userID); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "submission renewed"})
}

// ListReviews handles GET /api/v1/submissions/:id/reviews
func (h *SubmissionHandler) ListReviews(c *gin.Context) {
	id, ok := parseSubmissionID(c)
	if !ok {
		return
	}

	reviews, err := h.submissionService.ListReviews(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, reviews)
}

// AddNote handles POST /api/v1/submissions/:id/notes
func (h *SubmissionHandler) AddNote(c *gin.Context) {
	id, ok := parseSubmissionID(c)
	if !ok {
		return
	}
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var body noteBody
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	note, err := h.submissionService.AddNote(c.Request.Context(), id, userID, body.Body)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, note)
}

// ListNotes handles GET /api/v1/submissions/:id/notes
func (h *SubmissionHandler) ListNotes(c *gin.Context) {
	id, ok := parseSubmissionID(c)
	if !ok {
		return
	}

	notes, err := h.submissionService.ListNotes(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, notes)
}

// DeleteNote handles DELETE /api/v1/notes/:noteID
func (h *SubmissionHandler) DeleteNote(c *gin.Context) {
	noteID, err := uuid.Parse(c.Param("noteID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid note id")
		return
	}
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	if err := h.submissionService.DeleteNote(c.Request.Context(), noteID, userID); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "note deleted"})
}

// GetAnalysis handles GET /api/v1/submissions/:id/analysis
func (h *SubmissionHandler) GetAnalysis(c *gin.Context) {
	id, ok := parseSubmissionID(c)
	if !ok {
		return
	}

	sub, err := h.submissionService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"analysis_status":   sub.AnalysisStatus,
		"analysis_result":   sub.AnalysisResult,
		"analysis_error":    sub.AnalysisError,
		"analysis_attempts": sub.AnalysisAttempts,
		"auto_validated":    sub.AutoValidated,
		"legibility_score":  sub.LegibilityScore,
	})
}

// UploadFile handles POST /api/v1/submissions/:id/file
func (h *SubmissionHandler) UploadFile(c *gin.Context) {
	id, ok := parseSubmissionID(c)
	if !ok {
		return
	}
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "file form field is required")
		return
	}
	defer file.Close()

	meta, err := h.fileService.Upload(c.Request.Context(), service.FileUploadInput{
		SubmissionID: id,
		UploadedBy:   userID,
		File:         file,
		Header:       header,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, meta)
}

// GetFileURL handles GET /api/v1/files/:fileID/url
func (h *SubmissionHandler) GetFileURL(c *gin.Context) {
	fileID, err := uuid.Parse(c.Param("fileID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid file id")
		return
	}

	url, err := h.fileService.GetDownloadURL(c.Request.Context(), fileID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"url": url})
}

func parseSubmissionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid submission id")
		return uuid.Nil, false
	}
	return id, true
}
