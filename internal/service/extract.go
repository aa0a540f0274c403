package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/timmy/docscribe/internal/domain"
	"github.com/timmy/docscribe/internal/locator"
	"github.com/timmy/docscribe/internal/logger"
	"github.com/timmy/docscribe/internal/ocr"
	"github.com/timmy/docscribe/internal/storage"
)

// Extraction modes. Async always submits a detection job; sync always uses
// the single-call variant (subject to the size cap); auto uses the sync call
// for small image documents and falls back to a job otherwise.
const (
	ModeAsync = "async"
	ModeSync  = "sync"
	ModeAuto  = "auto"
)

const transcriptContentType = "text/plain"

// errDocumentTooLarge marks a document rejected for synchronous detection
// without calling the service.
var errDocumentTooLarge = errors.New("document exceeds synchronous detection size limit")

// DocumentStore is the database collaborator for the pipeline.
type DocumentStore interface {
	ListUnprocessed(ctx context.Context, limit int) ([]domain.Document, error)
	UpdateExtraction(ctx context.Context, id string, pageContentURL string, wordCount, tokenCountEstimate int) error
}

// ExtractService runs the document text-extraction pipeline: it selects
// records without a transcript, runs OCR on each document's stored content,
// uploads the transcript, and updates the record. Documents are processed
// one at a time; a failure on one document never stops the run, and a record
// is only updated after its transcript has been stored.
type ExtractService struct {
	docs    DocumentStore
	storage storage.ObjectStorage
	ocr     ocr.Client
	logger  *logger.Logger
	cfg     ExtractConfig
}

// ExtractConfig holds configuration for the extraction pipeline.
type ExtractConfig struct {
	// Bucket for OCR job submission and transcript upload. Source downloads
	// use the bucket each locator resolves to.
	Bucket       string
	Mode         string
	PollInterval time.Duration
	MaxWait      time.Duration // <= 0 means no bound on polling
	SyncMaxBytes int64
	Limit        int // max candidates per run; 0 means all
}

// ExtractStats holds statistics for one extraction run.
type ExtractStats struct {
	TotalDocuments int64
	Processed      int64
	Skipped        int64
	Failed         int64
	StartTime      time.Time
	EndTime        time.Time
}

// NewExtractService creates a new extraction service.
func NewExtractService(docs DocumentStore, objectStorage storage.ObjectStorage, ocrClient ocr.Client, log *logger.Logger, cfg ExtractConfig) *ExtractService {
	if cfg.PollInterval == 0 {
		cfg.PollInterval = 5 * time.Second
	}
	return &ExtractService{
		docs:    docs,
		storage: objectStorage,
		ocr:     ocrClient,
		logger:  log,
		cfg:     cfg,
	}
}

// log returns a logger from context if available, otherwise the service logger
func (s *ExtractService) log(ctx context.Context) *logger.Logger {
	if l := logger.FromContext(ctx); l != nil {
		return l
	}
	return s.logger
}

// Run executes one pass over all candidate documents.
// Parameters:
//   - ctx: context; cancellation stops the run between documents and inside
//     poll waits.
// Returns:
//   - *ExtractStats: per-run counters.
//   - error: non-nil only if the candidate query itself fails.
func (s *ExtractService) Run(ctx context.Context) (*ExtractStats, error) {
	stats := &ExtractStats{StartTime: time.Now()}

	docs, err := s.docs.ListUnprocessed(ctx, s.cfg.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list unprocessed documents: %w", err)
	}
	stats.TotalDocuments = int64(len(docs))

	s.log(ctx).WithFields(logger.Fields{
		"candidates": len(docs),
		"mode":       s.cfg.Mode,
	}).Info("Starting extraction run")

	for i := range docs {
		if ctx.Err() != nil {
			break
		}
		doc := &docs[i]
		docCtx := logger.SetDocumentID(ctx, doc.ID)

		switch err := s.processDocument(docCtx, doc); {
		case err == nil:
			stats.Processed++
		case errors.Is(err, errDocumentTooLarge):
			stats.Skipped++
			logger.FromContext(docCtx).WithError(err).Error("Document rejected for synchronous detection")
		default:
			stats.Failed++
			logger.FromContext(docCtx).WithError(err).Error("Failed to process document")
		}
	}

	stats.EndTime = time.Now()

	s.log(ctx).WithFields(logger.Fields{
		"total":     stats.TotalDocuments,
		"processed": stats.Processed,
		"skipped":   stats.Skipped,
		"failed":    stats.Failed,
		"duration":  stats.EndTime.Sub(stats.StartTime).String(),
	}).Info("Extraction run completed")

	return stats, nil
}

// processDocument runs the full pipeline for one document. Any error leaves
// the record unchanged so it stays a candidate for the next run.
func (s *ExtractService) processDocument(ctx context.Context, doc *domain.Document) error {
	loc, err := locator.Resolve(doc.URL)
	if err != nil {
		return fmt.Errorf("failed to resolve source locator: %w", err)
	}

	transcript, err := s.extractTranscript(ctx, loc)
	if err != nil {
		return err
	}

	key := locator.TranscriptKey(loc.Key)
	if err := s.storage.Upload(ctx, s.cfg.Bucket, key, strings.NewReader(transcript), int64(len(transcript)), transcriptContentType); err != nil {
		return fmt.Errorf("failed to store transcript: %w", err)
	}

	publicURL := s.storage.ObjectURL(s.cfg.Bucket, key)
	words := WordCount(transcript)
	tokens := TokenCountEstimate(transcript)

	if err := s.docs.UpdateExtraction(ctx, doc.ID, publicURL, words, tokens); err != nil {
		// Best-effort rollback keeps the record and storage consistent:
		// an unchanged record must not point at a stale transcript
		if delErr := s.storage.Delete(ctx, s.cfg.Bucket, key); delErr != nil {
			s.log(ctx).WithField("transcript_key", key).WithError(delErr).Error("Failed to roll back transcript upload")
		}
		return fmt.Errorf("failed to update document record: %w", err)
	}

	s.log(ctx).WithFields(logger.Fields{
		"transcript_url": publicURL,
		"word_count":     words,
		"token_estimate": tokens,
	}).Info("Document processed")

	return nil
}

// extractTranscript produces the newline-joined transcript for one source
// object, choosing between the synchronous call and the job flow per mode.
func (s *ExtractService) extractTranscript(ctx context.Context, loc locator.Location) (string, error) {
	switch s.cfg.Mode {
	case ModeSync:
		return s.extractSync(ctx, loc)
	case ModeAuto:
		return s.extractAuto(ctx, loc)
	default:
		return s.extractAsync(ctx, loc)
	}
}

// extractSync runs single-call detection. Documents over the size cap are
// rejected before any service call.
func (s *ExtractService) extractSync(ctx context.Context, loc locator.Location) (string, error) {
	size, err := s.storage.ObjectSize(ctx, loc.Bucket, loc.Key)
	if err != nil {
		return "", fmt.Errorf("failed to stat source object: %w", err)
	}
	if size > s.cfg.SyncMaxBytes {
		return "", fmt.Errorf("%w: %d > %d bytes", errDocumentTooLarge, size, s.cfg.SyncMaxBytes)
	}

	data, err := s.downloadSource(ctx, loc)
	if err != nil {
		return "", err
	}

	if format, width, height, err := sniffImage(data); err == nil {
		s.log(ctx).WithFields(logger.Fields{
			"format": format,
			"width":  width,
			"height": height,
		}).Debug("Detected image document")
	}

	lines, err := s.ocr.DetectLines(ctx, data)
	if err != nil {
		return "", fmt.Errorf("failed to detect document text: %w", err)
	}
	return strings.Join(lines, "\n"), nil
}

// extractAuto uses the synchronous call for small image documents and falls
// back to the asynchronous job flow for everything else.
func (s *ExtractService) extractAuto(ctx context.Context, loc locator.Location) (string, error) {
	size, err := s.storage.ObjectSize(ctx, loc.Bucket, loc.Key)
	if err != nil {
		s.log(ctx).WithError(err).Warn("Failed to stat source object, using job flow")
		return s.extractAsync(ctx, loc)
	}
	if size > s.cfg.SyncMaxBytes {
		return s.extractAsync(ctx, loc)
	}

	data, err := s.downloadSource(ctx, loc)
	if err != nil {
		return "", err
	}

	format, _, _, err := sniffImage(data)
	if err != nil || !syncFormats[format] {
		// PDFs and unsupported image formats only work through the job flow
		return s.extractAsync(ctx, loc)
	}

	lines, err := s.ocr.DetectLines(ctx, data)
	if err != nil {
		return "", fmt.Errorf("failed to detect document text: %w", err)
	}
	return strings.Join(lines, "\n"), nil
}

// extractAsync submits a detection job and polls it to completion. Jobs are
// submitted against the configured bucket, not the locator-parsed one.
func (s *ExtractService) extractAsync(ctx context.Context, loc locator.Location) (string, error) {
	jobID, err := s.ocr.StartJob(ctx, s.cfg.Bucket, loc.Key)
	if err != nil {
		return "", fmt.Errorf("failed to submit text detection job: %w", err)
	}

	jobCtx := logger.SetOCRJobID(ctx, jobID)
	logger.FromContext(jobCtx).Debug("Text detection job submitted")

	lines, err := s.pollJob(jobCtx, jobID)
	if err != nil {
		return "", err
	}
	return strings.Join(lines, "\n"), nil
}

// pollJob drives the job state machine: pending until a terminal state, with
// a fixed delay between polls and an optional overall bound. SUCCEEDED pages
// through continuation tokens; FAILED and unrecognized statuses are terminal
// errors.
func (s *ExtractService) pollJob(ctx context.Context, jobID string) ([]string, error) {
	deadline := time.Now().Add(s.cfg.MaxWait)

	for {
		if err := sleepCtx(ctx, s.cfg.PollInterval); err != nil {
			return nil, err
		}

		page, err := s.ocr.GetJobPage(ctx, jobID, "")
		if err != nil {
			return nil, fmt.Errorf("failed to poll text detection job: %w", err)
		}

		switch page.Status {
		case ocr.StatusInProgress:
			if s.cfg.MaxWait > 0 && time.Now().After(deadline) {
				return nil, fmt.Errorf("text detection job still in progress after %s", s.cfg.MaxWait)
			}
		case ocr.StatusSucceeded:
			return s.collectResultPages(ctx, jobID, page)
		case ocr.StatusFailed:
			return nil, fmt.Errorf("text detection job failed: %s", page.StatusMessage)
		default:
			return nil, fmt.Errorf("text detection job returned unexpected status %q", page.Status)
		}
	}
}

// collectResultPages appends line regions across all result pages in page order
func (s *ExtractService) collectResultPages(ctx context.Context, jobID string, first *ocr.ResultPage) ([]string, error) {
	lines := append([]string(nil), first.Lines...)
	token := first.NextToken
	for token != "" {
		page, err := s.ocr.GetJobPage(ctx, jobID, token)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch result page: %w", err)
		}
		lines = append(lines, page.Lines...)
		token = page.NextToken
	}
	return lines, nil
}

func (s *ExtractService) downloadSource(ctx context.Context, loc locator.Location) ([]byte, error) {
	reader, err := s.storage.Download(ctx, loc.Bucket, loc.Key)
	if err != nil {
		return nil, fmt.Errorf("failed to download source object: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read source object: %w", err)
	}
	return data, nil
}

// sleepCtx waits for d or until the context is cancelled
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
