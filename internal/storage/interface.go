package storage

import (
	"context"
	"io"
)

// ObjectStorage defines the interface for object storage operations. Calls
// take an explicit bucket because source documents live in whichever bucket
// their locator names, while transcripts go to the configured one.
type ObjectStorage interface {
	// Download fetches an object from storage
	Download(ctx context.Context, bucket, key string) (io.ReadCloser, error)

	// Upload stores an object
	Upload(ctx context.Context, bucket, key string, reader io.Reader, size int64, contentType string) error

	// Delete removes an object
	Delete(ctx context.Context, bucket, key string) error

	// ObjectSize returns an object's size in bytes without downloading it
	ObjectSize(ctx context.Context, bucket, key string) (int64, error)

	// ObjectURL returns the deterministic public URL for an object
	ObjectURL(bucket, key string) string
}
