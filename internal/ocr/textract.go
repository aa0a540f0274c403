package ocr

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"
)

// TextractConfig holds configuration for the AWS Textract client.
type TextractConfig struct {
	Region    string
	AccessKey string
	SecretKey string
}

// TextractClient implements Client on AWS Textract document text detection.
type TextractClient struct {
	client *textract.Client
}

// NewTextractClient creates a Textract-backed OCR client. Static credentials
// are used when provided; otherwise the default AWS credential chain applies.
// Parameters:
//   - ctx: context for AWS config resolution.
//   - cfg: Textract configuration.
// Returns:
//   - *TextractClient: initialized client.
//   - error: non-nil if the AWS config cannot be loaded.
func NewTextractClient(ctx context.Context, cfg *TextractConfig) (*TextractClient, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &TextractClient{client: textract.NewFromConfig(awsCfg)}, nil
}

// StartJob submits asynchronous text detection for an object in storage.
func (c *TextractClient) StartJob(ctx context.Context, bucket, key string) (string, error) {
	out, err := c.client.StartDocumentTextDetection(ctx, &textract.StartDocumentTextDetectionInput{
		DocumentLocation: &types.DocumentLocation{
			S3Object: &types.S3Object{
				Bucket: aws.String(bucket),
				Name:   aws.String(key),
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to start text detection: %w", err)
	}
	return aws.ToString(out.JobId), nil
}

// GetJobPage queries a job's status and one page of its results.
func (c *TextractClient) GetJobPage(ctx context.Context, jobID, nextToken string) (*ResultPage, error) {
	input := &textract.GetDocumentTextDetectionInput{
		JobId: aws.String(jobID),
	}
	if nextToken != "" {
		input.NextToken = aws.String(nextToken)
	}

	out, err := c.client.GetDocumentTextDetection(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get text detection results: %w", err)
	}

	return &ResultPage{
		// Status strings pass through untranslated so callers see exactly
		// what the service reported, including values they do not handle
		Status:        JobStatus(out.JobStatus),
		StatusMessage: aws.ToString(out.StatusMessage),
		Lines:         lineBlocks(out.Blocks),
		NextToken:     aws.ToString(out.NextToken),
	}, nil
}

// DetectLines runs synchronous text detection on raw document bytes.
func (c *TextractClient) DetectLines(ctx context.Context, document []byte) ([]string, error) {
	out, err := c.client.DetectDocumentText(ctx, &textract.DetectDocumentTextInput{
		Document: &types.Document{Bytes: document},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to detect document text: %w", err)
	}
	return lineBlocks(out.Blocks), nil
}

// lineBlocks extracts the text of LINE blocks in service order
func lineBlocks(blocks []types.Block) []string {
	var lines []string
	for _, block := range blocks {
		if block.BlockType == types.BlockTypeLine {
			lines = append(lines, aws.ToString(block.Text))
		}
	}
	return lines
}
