package ocr

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPConfig holds configuration for the generic HTTP text-detection provider.
type HTTPConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// HTTPClient implements Client against a JSON-over-HTTP text-detection API
// exposing a job submit endpoint, a paginated status endpoint, and a
// synchronous detect endpoint.
type HTTPClient struct {
	client  *resty.Client
	baseURL string
}

// NewHTTPClient creates an HTTP text-detection client.
// Parameters:
//   - cfg: provider configuration including base URL and API key.
// Returns:
//   - *HTTPClient: initialized client.
//   - error: non-nil if the base URL is missing.
func NewHTTPClient(cfg *HTTPConfig) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("http ocr provider requires a base URL")
	}

	client := resty.New()
	if cfg.APIKey != "" {
		client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	}
	// Timeout prevents hanging requests; the poll loop supplies retries
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	client.SetTimeout(timeout)

	return &HTTPClient{
		client:  client,
		baseURL: cfg.BaseURL,
	}, nil
}

type startJobRequest struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

type startJobResponse struct {
	JobID string `json:"job_id"`
	Error string `json:"error,omitempty"`
}

type jobStatusResponse struct {
	Status        string   `json:"status"`
	StatusMessage string   `json:"status_message,omitempty"`
	Lines         []string `json:"lines"`
	NextToken     string   `json:"next_token,omitempty"`
	Error         string   `json:"error,omitempty"`
}

type detectResponse struct {
	Lines []string `json:"lines"`
	Error string   `json:"error,omitempty"`
}

// StartJob submits asynchronous text detection for an object in storage.
func (c *HTTPClient) StartJob(ctx context.Context, bucket, key string) (string, error) {
	var result startJobResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(&startJobRequest{Bucket: bucket, Key: key}).
		SetResult(&result).
		SetError(&result).
		Post(c.baseURL + "/v1/text-detection/jobs")
	if err != nil {
		return "", fmt.Errorf("failed to start text detection: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("text detection submit returned %s: %s", resp.Status(), result.Error)
	}
	if result.JobID == "" {
		return "", fmt.Errorf("text detection submit returned no job ID")
	}
	return result.JobID, nil
}

// GetJobPage queries a job's status and one page of its results.
func (c *HTTPClient) GetJobPage(ctx context.Context, jobID, nextToken string) (*ResultPage, error) {
	var result jobStatusResponse
	req := c.client.R().
		SetContext(ctx).
		SetResult(&result).
		SetError(&result)
	if nextToken != "" {
		req.SetQueryParam("next_token", nextToken)
	}

	resp, err := req.Get(c.baseURL + "/v1/text-detection/jobs/" + jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to get text detection results: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("text detection status returned %s: %s", resp.Status(), result.Error)
	}

	return &ResultPage{
		Status:        JobStatus(result.Status),
		StatusMessage: result.StatusMessage,
		Lines:         result.Lines,
		NextToken:     result.NextToken,
	}, nil
}

// DetectLines runs synchronous text detection on raw document bytes.
func (c *HTTPClient) DetectLines(ctx context.Context, document []byte) ([]string, error) {
	var result detectResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/octet-stream").
		SetBody(document).
		SetResult(&result).
		SetError(&result).
		Post(c.baseURL + "/v1/text-detection/detect")
	if err != nil {
		return nil, fmt.Errorf("failed to detect document text: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("text detection returned %s: %s", resp.Status(), result.Error)
	}
	return result.Lines, nil
}
