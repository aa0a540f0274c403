// Package ocr abstracts the remote text-detection service behind a small
// client interface so the pipeline can run against AWS Textract, an HTTP
// provider, or a fake in tests.
package ocr

import "context"

// JobStatus is the state of an asynchronous text-detection job.
type JobStatus string

const (
	StatusInProgress JobStatus = "IN_PROGRESS"
	StatusSucceeded  JobStatus = "SUCCEEDED"
	StatusFailed     JobStatus = "FAILED"
)

// ResultPage is one page of a job's results. Lines are the detected
// line-type text regions in service order. A non-empty NextToken means more
// pages follow.
type ResultPage struct {
	Status        JobStatus
	StatusMessage string
	Lines         []string
	NextToken     string
}

// Client is the text-detection collaborator.
type Client interface {
	// StartJob submits asynchronous text detection for an object in storage
	// and returns the service's job ID.
	StartJob(ctx context.Context, bucket, key string) (string, error)

	// GetJobPage queries a job's status. An empty nextToken fetches the
	// first result page; continuation tokens from previous pages fetch the
	// rest. Lines are only meaningful once Status is StatusSucceeded.
	GetJobPage(ctx context.Context, jobID, nextToken string) (*ResultPage, error)

	// DetectLines runs synchronous text detection on raw document bytes.
	// Only small image documents are eligible; callers enforce the size cap.
	DetectLines(ctx context.Context, document []byte) ([]string, error)
}
