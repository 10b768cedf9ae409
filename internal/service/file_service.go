package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"brokerdocs/internal/config"
	"brokerdocs/internal/domain"
	"brokerdocs/internal/port"
)

// FileUploadInput is the DTO for attaching a file to a submission.
type FileUploadInput struct {
	SubmissionID uuid.UUID
	UploadedBy   uuid.UUID
	File         multipart.File
	Header       *multipart.FileHeader
}

// FileService validates and stores submission attachments. A successful
// upload advances the submission to received and queues it for
// analysis; an analysis failure never unwinds the upload itself.
type FileService interface {
	Upload(ctx context.Context, input FileUploadInput) (*domain.FileMeta, error)
	GetByID(ctx context.Context, fileID uuid.UUID) (*domain.FileMeta, error)
	GetDownloadURL(ctx context.Context, fileID uuid.UUID) (string, error)
}

type fileService struct {
	fileRepo       port.FileMetaRepository
	submissionRepo port.SubmissionRepository
	submissions    SubmissionService
	storage        port.ObjectStorage
	cfg            *config.S3Config
}

// NewFileService creates a new FileService implementation.
func NewFileService(
	fileRepo port.FileMetaRepository,
	submissionRepo port.SubmissionRepository,
	submissions SubmissionService,
	storage port.ObjectStorage,
	cfg *config.S3Config,
) FileService {
	return &fileService{
		fileRepo:       fileRepo,
		submissionRepo: submissionRepo,
		submissions:    submissions,
		storage:        storage,
		cfg:            cfg,
	}
}

func (s *fileService) Upload(ctx context.Context, input FileUploadInput) (*domain.FileMeta, error) {
	sub, err := s.submissionRepo.GetByID(ctx, input.SubmissionID)
	if err != nil {
		return nil, err
	}

	// Validate file extension
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.Header.Filename), "."))
	fileType, ok := domain.AllowedExtensions[ext]
	if !ok {
		return nil, domain.ErrUnsupportedFileType
	}

	// Validate file size
	maxBytes := s.cfg.MaxFileSizeMB * 1024 * 1024
	if input.Header.Size > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	// Read first 512 bytes for magic-byte content type detection
	buf := make([]byte, 512)
	n, err := input.File.Read(buf)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("reading file header: %w", err)
	}
	detectedType := http.DetectContentType(buf[:n])
	if _, validContent := domain.AllowedContentTypes[detectedType]; !validContent {
		// http.DetectContentType has no HEIC signature and reports the
		// container as generic bytes. Only a .heic upload may pass on
		// that; any other unrecognized payload is refused.
		if detectedType != "application/octet-stream" || fileType != domain.FileTypeHEIC {
			return nil, domain.ErrUnsupportedFileType
		}
	}

	// Seek back to beginning for upload
	if _, err := input.File.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seeking file: %w", err)
	}

	fileID := uuid.New()
	s3Key := fmt.Sprintf("transactions/%s/submissions/%s/%s", sub.TransactionID, sub.ID, input.Header.Filename)
	contentType := domain.AllowedFileTypes[fileType]

	meta := &domain.FileMeta{
		ID:           fileID,
		SubmissionID: sub.ID,
		UploadedBy:   input.UploadedBy,
		FileName:     fileID.String() + "." + ext,
		OriginalName: input.Header.Filename,
		FileType:     fileType,
		FileSize:     input.Header.Size,
		S3Bucket:     s.cfg.Bucket,
		S3Key:        s3Key,
		ContentType:  contentType,
		Status:       domain.FileStatusPending,
	}

	log.Printf("fileService.Upload: uploading %s (%s, %d bytes) for submission %s by user %s",
		input.Header.Filename, contentType, input.Header.Size, sub.ID, input.UploadedBy)

	if err := s.fileRepo.Create(ctx, meta); err != nil {
		return nil, fmt.Errorf("creating file metadata: %w", err)
	}

	_, err = s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.cfg.Bucket,
		Key:         s3Key,
		Body:        input.File,
		ContentType: contentType,
		Size:        input.Header.Size,
	})
	if err != nil {
		log.Printf("fileService.Upload: S3 upload failed for file %s: %v", meta.ID, err)
		_ = s.fileRepo.UpdateStatus(ctx, meta.ID, domain.FileStatusFailed)
		return nil, domain.ErrUploadFailed
	}

	if err := s.fileRepo.UpdateStatus(ctx, meta.ID, domain.FileStatusUploaded); err != nil {
		return nil, fmt.Errorf("updating file status: %w", err)
	}
	meta.Status = domain.FileStatusUploaded

	if err := s.attach(ctx, sub, meta, input.UploadedBy); err != nil {
		return nil, err
	}
	return meta, nil
}

// attach binds the file, advances the lifecycle to received and queues
// the analysis job.
func (s *fileService) attach(ctx context.Context, sub *domain.DocumentSubmission, meta *domain.FileMeta, actorID uuid.UUID) error {
	sub.FileID = &meta.ID
	if err := s.submissionRepo.UpdateLifecycle(ctx, sub, nil); err != nil {
		return fmt.Errorf("attaching file: %w", err)
	}

	// A still-pending submission advances through requested implicitly
	// when the client uploads before the advisor asks.
	if sub.Status == domain.SubmissionPendingRequest {
		if err := s.submissions.MarkRequested(ctx, sub.ID, actorID); err != nil {
			return fmt.Errorf("marking requested: %w", err)
		}
	}
	if err := s.submissions.MarkReceived(ctx, sub.ID, actorID); err != nil {
		return fmt.Errorf("marking received: %w", err)
	}

	fresh, err := s.submissionRepo.GetByID(ctx, sub.ID)
	if err != nil {
		return err
	}
	fresh.AnalysisStatus = domain.AnalysisQueued
	fresh.AnalysisError = ""
	fresh.AnalysisAttempts = 0
	fresh.RetryAfter = nil
	if err := s.submissionRepo.UpdateAnalysis(ctx, fresh); err != nil {
		// The upload stands; the analysis can be re-queued later.
		log.Printf("fileService.Upload: queueing analysis for submission %s failed: %v", sub.ID, err)
	}
	return nil
}

func (s *fileService) GetByID(ctx context.Context, fileID uuid.UUID) (*domain.FileMeta, error) {
	return s.fileRepo.GetByID(ctx, fileID)
}

func (s *fileService) GetDownloadURL(ctx context.Context, fileID uuid.UUID) (string, error) {
	meta, err := s.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return "", err
	}
	return s.storage.GetPresignedURL(ctx, meta.S3Bucket, meta.S3Key, s.cfg.PresignExpiry)
}
