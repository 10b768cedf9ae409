package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"brokerdocs/internal/analysis"
	"brokerdocs/internal/analysis/pdfconv"
	"brokerdocs/internal/analysis/tesseract"
	"brokerdocs/internal/config"
	"brokerdocs/internal/email/noop"
	"brokerdocs/internal/email/ses"
	"brokerdocs/internal/handler"
	"brokerdocs/internal/port"
	"brokerdocs/internal/repository/postgres"
	"brokerdocs/internal/router"
	"brokerdocs/internal/service"
	s3storage "brokerdocs/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	clientDir := postgres.NewClientDirectory(db)
	docTypeRepo := postgres.NewDocumentTypeRepo(db)
	scenarioRepo := postgres.NewScenarioRepo(db)
	txnRepo := postgres.NewTransactionRepo(db)
	coOwnerRepo := postgres.NewCoOwnerRepo(db)
	submissionRepo := postgres.NewSubmissionRepo(db)
	reviewRepo := postgres.NewReviewRepo(db)
	noteRepo := postgres.NewNoteRepo(db)
	fileRepo := postgres.NewFileMetaRepo(db)
	txManager := postgres.NewTxManager(db)

	// Initialize storage and email
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	var emailSender port.EmailSender
	if cfg.Email.Provider == "ses" {
		emailSender, err = ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	} else {
		emailSender = noop.NewNoopSender()
	}

	// Initialize services
	authSvc := service.NewAuthService(userRepo, cfg.JWT)
	catalogSvc := service.NewCatalogService(docTypeRepo, scenarioRepo)
	resolverSvc := service.NewResolverService(txnRepo, scenarioRepo, docTypeRepo, coOwnerRepo, submissionRepo)
	reassignSvc := service.NewReassignmentService(txnRepo, txManager, resolverSvc)
	txnSvc := service.NewTransactionService(txnRepo, coOwnerRepo, clientDir, resolverSvc, reassignSvc)
	submissionSvc := service.NewSubmissionService(submissionRepo, reviewRepo, noteRepo, docTypeRepo, coOwnerRepo, clientDir, emailSender)
	fileSvc := service.NewFileService(fileRepo, submissionRepo, submissionSvc, s3Client, &cfg.S3)
	checklistSvc := service.NewChecklistService(submissionRepo, docTypeRepo, coOwnerRepo)

	// Analysis pipeline and background worker
	converter := pdfconv.NewConverter()
	pipeline := analysis.NewPipeline(
		tesseract.NewExtractor(),
		converter,
		converter,
		cfg.Analysis.PageCap,
	)
	worker := service.NewAnalysisQueueWorker(
		submissionRepo, fileRepo, docTypeRepo, coOwnerRepo, clientDir,
		s3Client, emailSender, submissionSvc, pipeline,
		service.AnalysisQueueConfig{
			PollInterval:  time.Duration(cfg.Analysis.PollIntervalSecs) * time.Second,
			MaxRetries:    cfg.Analysis.MaxRetries,
			Concurrency:   int64(cfg.Analysis.Concurrency),
			DocTimeout:    time.Duration(cfg.Analysis.TimeoutSecs) * time.Second,
			SweepInterval: time.Duration(cfg.Analysis.SweepIntervalHrs) * time.Hour,
		},
	)

	// Initialize handlers
	authH := handler.NewAuthHandler(authSvc)
	catalogH := handler.NewCatalogHandler(catalogSvc)
	txnH := handler.NewTransactionHandler(txnSvc, resolverSvc, checklistSvc)
	submissionH := handler.NewSubmissionHandler(submissionSvc, fileSvc)
	healthH := handler.NewHealthHandler(db)

	r := router.Setup(authSvc, cfg.CORS.AllowedOrigins, authH, catalogH, txnH, submissionH, healthH)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		worker.Start(ctx)
	}()

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		stop()
		<-workerDone
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Printf("Shutdown signal received, draining...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	<-workerDone

	return nil
}
