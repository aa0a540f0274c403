package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/timmy/docscribe/internal/locator"
)

// S3Config holds configuration for S3-compatible storage.
type S3Config struct {
	Region    string
	Endpoint  string // optional, for S3-compatible services
	AccessKey string
	SecretKey string
	UseSSL    bool
	PublicURL string // optional public URL prefix overriding virtual-hosted URLs
}

// S3Storage implements ObjectStorage on the AWS S3 API.
type S3Storage struct {
	client    *s3.Client
	region    string
	publicURL string
}

// NewS3Storage creates a new S3 storage client. Static credentials are used
// when provided; otherwise the default AWS credential chain applies. A custom
// endpoint switches the client to path-style addressing for S3-compatible
// services.
// Parameters:
//   - ctx: context for AWS config resolution.
//   - cfg: storage configuration.
// Returns:
//   - *S3Storage: initialized storage client.
//   - error: non-nil if the AWS config cannot be loaded.
func NewS3Storage(ctx context.Context, cfg *S3Config) (*S3Storage, error) {
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

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(endpointURL(cfg.Endpoint, cfg.UseSSL))
			o.UsePathStyle = true
		}
	})

	return &S3Storage{
		client:    client,
		region:    region,
		publicURL: strings.TrimSuffix(cfg.PublicURL, "/"),
	}, nil
}

// endpointURL normalizes an endpoint to a scheme-qualified base URL
func endpointURL(endpoint string, useSSL bool) string {
	endpoint = strings.TrimPrefix(endpoint, "https://")
	endpoint = strings.TrimPrefix(endpoint, "http://")
	if idx := strings.Index(endpoint, "/"); idx != -1 {
		endpoint = endpoint[:idx]
	}

	scheme := "http"
	if useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, endpoint)
}

// Download fetches an object from storage.
func (s *S3Storage) Download(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download object: %w", err)
	}
	return result.Body, nil
}

// Upload stores an object.
func (s *S3Storage) Upload(ctx context.Context, bucket, key string, reader io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          reader,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}
	return nil
}

// Delete removes an object.
func (s *S3Storage) Delete(ctx context.Context, bucket, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// ObjectSize returns an object's size in bytes without downloading it.
func (s *S3Storage) ObjectSize(ctx context.Context, bucket, key string) (int64, error) {
	result, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to head object: %w", err)
	}
	return aws.ToInt64(result.ContentLength), nil
}

// ObjectURL returns the deterministic public URL for an object.
func (s *S3Storage) ObjectURL(bucket, key string) string {
	return locator.ObjectURL(s.publicURL, bucket, s.region, key)
}
