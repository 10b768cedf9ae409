package service

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"brokerdocs/internal/analysis"
	"brokerdocs/internal/domain"
	"brokerdocs/internal/port"
)

// AnalysisQueueConfig holds settings for the analysis worker.
type AnalysisQueueConfig struct {
	PollInterval  time.Duration
	MaxRetries    int
	Concurrency   int64
	DocTimeout    time.Duration
	SweepInterval time.Duration
}

// retryBaseDelay seeds the exponential backoff between analysis attempts.
const retryBaseDelay = time.Minute

// failurePersistTimeout bounds the write that records an analysis failure.
const failurePersistTimeout = 10 * time.Second

// AnalysisQueueWorker polls for queued submissions, downloads their
// attachments and runs the analysis pipeline off the request path. It
// also drives the daily expiring-document sweep.
type AnalysisQueueWorker struct {
	submissionRepo port.SubmissionRepository
	fileRepo       port.FileMetaRepository
	docTypeRepo    port.DocumentTypeRepository
	coOwnerRepo    port.CoOwnerRepository
	clientDir      port.ClientDirectory
	storage        port.ObjectStorage
	emailSender    port.EmailSender
	submissions    SubmissionService
	pipeline       *analysis.Pipeline
	cfg            AnalysisQueueConfig
	wg             sync.WaitGroup
}

// NewAnalysisQueueWorker creates a new AnalysisQueueWorker.
func NewAnalysisQueueWorker(
	submissionRepo port.SubmissionRepository,
	fileRepo port.FileMetaRepository,
	docTypeRepo port.DocumentTypeRepository,
	coOwnerRepo port.CoOwnerRepository,
	clientDir port.ClientDirectory,
	storage port.ObjectStorage,
	emailSender port.EmailSender,
	submissions SubmissionService,
	pipeline *analysis.Pipeline,
	cfg AnalysisQueueConfig,
) *AnalysisQueueWorker {
	return &AnalysisQueueWorker{
		submissionRepo: submissionRepo,
		fileRepo:       fileRepo,
		docTypeRepo:    docTypeRepo,
		coOwnerRepo:    coOwnerRepo,
		clientDir:      clientDir,
		storage:        storage,
		emailSender:    emailSender,
		submissions:    submissions,
		pipeline:       pipeline,
		cfg:            cfg,
	}
}

// Start runs the polling and sweep loops until ctx is canceled. It
// blocks until all in-flight analyses have finished.
func (w *AnalysisQueueWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()
	sweep := time.NewTicker(w.cfg.SweepInterval)
	defer sweep.Stop()

	sem := semaphore.NewWeighted(w.cfg.Concurrency)

	log.Printf("analysisQueueWorker: started (poll=%s, concurrency=%d, maxRetries=%d)",
		w.cfg.PollInterval, w.cfg.Concurrency, w.cfg.MaxRetries)

	for {
		select {
		case <-ctx.Done():
			log.Printf("analysisQueueWorker: shutting down, waiting for in-flight analyses...")
			w.wg.Wait()
			log.Printf("analysisQueueWorker: shutdown complete")
			return
		case <-sweep.C:
			w.runExpirySweep(ctx)
		case <-ticker.C:
			subs, err := w.claimDue(ctx)
			if err != nil {
				if ctx.Err() != nil {
					continue
				}
				log.Printf("analysisQueueWorker: ClaimQueued error: %v", err)
				continue
			}

			for i := range subs {
				sub := subs[i] // copy for goroutine
				if err := sem.Acquire(ctx, 1); err != nil {
					// Canceled mid-dispatch; the claimed row stays
					// processing until the stale-claim window passes,
					// then a later poll reclaims it.
					break
				}
				w.wg.Add(1)
				go func() {
					defer w.wg.Done()
					defer sem.Release(1)

					// Fresh context so in-flight analyses complete even
					// during shutdown.
					docCtx, cancel := context.WithTimeout(context.Background(), w.cfg.DocTimeout)
					defer cancel()
					w.analyze(docCtx, &sub)
				}()
			}
		}
	}
}

// claimDue claims queued submissions plus processing rows stale for
// twice the per-document timeout. An analysis either finishes or has
// its failure recorded well inside that window, so anything older was
// abandoned.
func (w *AnalysisQueueWorker) claimDue(ctx context.Context) ([]domain.DocumentSubmission, error) {
	staleBefore := time.Now().Add(-2 * w.cfg.DocTimeout)
	return w.submissionRepo.ClaimQueued(ctx, int(w.cfg.Concurrency), staleBefore)
}

func (w *AnalysisQueueWorker) analyze(ctx context.Context, sub *domain.DocumentSubmission) {
	sub.AnalysisAttempts++
	log.Printf("analysisQueueWorker: analyzing submission %s (attempt %d)", sub.ID, sub.AnalysisAttempts)

	result, err := w.runPipeline(ctx, sub)
	if err != nil {
		w.recordFailure(ctx, sub, err)
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		w.recordFailure(ctx, sub, err)
		return
	}

	sub.AnalysisStatus = domain.AnalysisCompleted
	sub.AnalysisResult = payload
	sub.AnalysisError = ""
	sub.RetryAfter = nil
	sub.LegibilityScore = &result.Legibility.Score
	sub.OCRText = result.Text
	if err := w.submissionRepo.UpdateAnalysis(ctx, sub); err != nil {
		log.Printf("analysisQueueWorker: persisting result for %s failed: %v", sub.ID, err)
		return
	}

	if result.AutoValidate {
		if err := w.submissions.AutoValidate(ctx, sub.ID, payload, result.Legibility.Score); err != nil {
			// The analysis is saved either way; a reviewer can still
			// validate by hand.
			log.Printf("analysisQueueWorker: auto-validation of %s failed: %v", sub.ID, err)
		}
	}
}

func (w *AnalysisQueueWorker) runPipeline(ctx context.Context, sub *domain.DocumentSubmission) (*analysis.Result, error) {
	if sub.FileID == nil {
		return nil, domain.ErrNoFileAttached
	}
	meta, err := w.fileRepo.GetByID(ctx, *sub.FileID)
	if err != nil {
		return nil, err
	}

	data, err := w.storage.Download(ctx, meta.S3Bucket, meta.S3Key)
	if err != nil {
		return nil, err
	}

	category := domain.CategoryOther
	if docType, err := w.docTypeRepo.GetByID(ctx, sub.DocumentTypeID); err == nil {
		category = docType.Category
	}

	return w.pipeline.Run(ctx, analysis.Input{
		FileName:    meta.OriginalName,
		ContentType: meta.ContentType,
		Data:        data,
		Category:    category,
	})
}

// recordFailure re-queues with exponential backoff until the retry
// budget runs out, then parks the submission as failed. The lifecycle
// state is untouched either way; a failed analysis never validates or
// rejects anything.
func (w *AnalysisQueueWorker) recordFailure(ctx context.Context, sub *domain.DocumentSubmission, cause error) {
	sub.AnalysisError = cause.Error()
	if sub.AnalysisAttempts >= w.cfg.MaxRetries {
		sub.AnalysisStatus = domain.AnalysisFailed
		sub.RetryAfter = nil
		log.Printf("analysisQueueWorker: submission %s failed after %d attempts: %v", sub.ID, sub.AnalysisAttempts, cause)
	} else {
		delay := time.Duration(math.Pow(2, float64(sub.AnalysisAttempts-1))) * retryBaseDelay
		retryAt := time.Now().Add(delay)
		sub.AnalysisStatus = domain.AnalysisQueued
		sub.RetryAfter = &retryAt
		log.Printf("analysisQueueWorker: submission %s attempt %d failed, retrying in %s: %v",
			sub.ID, sub.AnalysisAttempts, delay, cause)
	}

	// The per-document deadline may already have fired (a timeout is a
	// failure cause itself), so the write gets its own short deadline.
	// Otherwise the row would stay processing and never be reclaimed.
	persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), failurePersistTimeout)
	defer cancel()
	if err := w.submissionRepo.UpdateAnalysis(persistCtx, sub); err != nil {
		log.Printf("analysisQueueWorker: recording failure for %s failed: %v", sub.ID, err)
	}
}

// runExpirySweep notifies clients whose validated documents expire
// within the next 30 days.
func (w *AnalysisQueueWorker) runExpirySweep(ctx context.Context) {
	now := time.Now()
	subs, err := w.submissionRepo.ListExpiringBetween(ctx, now, now.Add(30*24*time.Hour))
	if err != nil {
		log.Printf("analysisQueueWorker: expiry sweep query failed: %v", err)
		return
	}
	if len(subs) == 0 {
		return
	}
	log.Printf("analysisQueueWorker: expiry sweep found %d expiring submissions", len(subs))

	for i := range subs {
		w.notifyExpiry(ctx, &subs[i], now)
	}
}

func (w *AnalysisQueueWorker) notifyExpiry(ctx context.Context, sub *domain.DocumentSubmission, now time.Time) {
	if sub.CoOwnerID == nil || sub.ExpiryDate == nil {
		return
	}
	coOwner, err := w.coOwnerRepo.GetByID(ctx, *sub.CoOwnerID)
	if err != nil || coOwner.ClientID == nil {
		return
	}
	client, err := w.clientDir.GetByID(ctx, *coOwner.ClientID)
	if err != nil || client.Email == "" {
		return
	}
	docType, err := w.docTypeRepo.GetByID(ctx, sub.DocumentTypeID)
	if err != nil {
		return
	}

	daysLeft := int(sub.ExpiryDate.Sub(now).Hours() / 24)
	if err := w.emailSender.SendExpiryNotice(ctx, client.Email, client.FullName, docType.Name, daysLeft); err != nil {
		log.Printf("analysisQueueWorker: expiry notice to %s failed: %v", client.Email, err)
	}
}
