package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/timmy/docscribe/internal/config"
	"github.com/timmy/docscribe/internal/logger"
	"github.com/timmy/docscribe/internal/ocr"
	"github.com/timmy/docscribe/internal/repository"
	"github.com/timmy/docscribe/internal/service"
	"github.com/timmy/docscribe/internal/storage"
)

func main() {
	logger.SetDefaultLogger(logger.NewDefault())
	defer logger.Sync()

	if err := run(); err != nil {
		logger.GetDefault().WithError(err).Error("Extraction run failed")
		logger.Sync()
		os.Exit(1)
	}
}

// run keeps resource cleanup on the error path: deferred closes execute
// before the process exits, unlike with a fatal log in main.
func run() error {
	appLogger := logger.GetDefault()

	// Configuration is environment-provided; there are no CLI flags
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		return err
	}

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		appLogger.Info("Received shutdown signal, canceling...")
		cancel()
	}()

	// Initialize database
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := repository.CloseDB(db); err != nil {
			appLogger.WithError(err).Warn("Failed to close database")
		}
	}()

	docRepo := repository.NewDocumentRepository(db)

	// Initialize object storage
	objectStorage, err := storage.NewS3Storage(ctx, &storage.S3Config{
		Region:    cfg.Storage.Region,
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		UseSSL:    cfg.Storage.UseSSL,
		PublicURL: cfg.Storage.PublicURL,
	})
	if err != nil {
		return err
	}

	// Initialize text-detection client
	ocrClient, err := ocr.NewClient(ctx, &ocr.Config{
		Provider:    cfg.OCR.Provider,
		Region:      cfg.OCR.Region,
		AccessKey:   cfg.OCR.AccessKey,
		SecretKey:   cfg.OCR.SecretKey,
		HTTPBaseURL: cfg.OCR.HTTP.BaseURL,
		HTTPAPIKey:  cfg.OCR.HTTP.APIKey,
		HTTPTimeout: cfg.OCR.HTTP.Timeout,
	})
	if err != nil {
		return err
	}

	extractService := service.NewExtractService(docRepo, objectStorage, ocrClient, appLogger, service.ExtractConfig{
		Bucket:       cfg.Documents.Bucket,
		Mode:         cfg.OCR.Mode,
		PollInterval: cfg.OCR.PollInterval,
		MaxWait:      cfg.OCR.MaxWait,
		SyncMaxBytes: cfg.OCR.SyncMaxBytes,
		Limit:        cfg.Documents.Limit,
	})

	runID := uuid.New().String()
	runCtx := logger.SetRunID(ctx, runID)

	appLogger.WithFields(logger.Fields{
		"run_id":   runID,
		"bucket":   cfg.Documents.Bucket,
		"provider": cfg.OCR.Provider,
		"mode":     cfg.OCR.Mode,
		"limit":    cfg.Documents.Limit,
	}).Info("Starting extraction")

	stats, err := extractService.Run(runCtx)
	if err != nil {
		return err
	}

	appLogger.WithFields(logger.Fields{
		"run_id":    runID,
		"total":     stats.TotalDocuments,
		"processed": stats.Processed,
		"skipped":   stats.Skipped,
		"failed":    stats.Failed,
	}).Info("Extraction completed")

	return nil
}
