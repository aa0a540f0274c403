// Package locator resolves document source locators into object-storage
// coordinates and derives storage keys and public URLs for transcripts.
package locator

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

const (
	s3Scheme = "s3://"

	// Hosts under this suffix are treated as virtual-hosted bucket URLs.
	s3HostSuffix = ".amazonaws.com"

	// transcriptPrefix is the key prefix under which transcripts are stored.
	transcriptPrefix = "pageContents"
)

// Location identifies an object in storage.
type Location struct {
	Bucket string
	Key    string
}

// Resolve parses a document locator into a bucket and key. Two forms are
// accepted: scheme-qualified ("s3://bucket/a/b.pdf") and HTTP(S) URLs, where
// a host under the S3 domain suffix is read as virtual-hosted style (the
// first host label is the bucket) and any other host is taken as the bucket
// itself. Keys keep their path separators and are percent-decoded.
// Parameters:
//   - raw: the locator string from the document record.
// Returns:
//   - Location: resolved bucket and decoded key.
//   - error: non-nil if the locator has no bucket or no key.
func Resolve(raw string) (Location, error) {
	if strings.HasPrefix(raw, s3Scheme) {
		rest := strings.TrimPrefix(raw, s3Scheme)
		bucket, key, found := strings.Cut(rest, "/")
		if !found || bucket == "" || key == "" {
			return Location{}, fmt.Errorf("invalid s3 locator %q", raw)
		}
		return Location{Bucket: bucket, Key: decodeKey(key)}, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Location{}, fmt.Errorf("invalid locator %q: %w", raw, err)
	}
	if u.Host == "" {
		return Location{}, fmt.Errorf("locator %q has no host", raw)
	}

	// url.Parse already percent-decodes the path
	key := strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return Location{}, fmt.Errorf("locator %q has no key", raw)
	}

	host := strings.ToLower(u.Hostname())
	if strings.HasSuffix(host, s3HostSuffix) {
		bucket, _, _ := strings.Cut(u.Hostname(), ".")
		if bucket == "" {
			return Location{}, fmt.Errorf("locator %q has no bucket label", raw)
		}
		return Location{Bucket: bucket, Key: key}, nil
	}

	return Location{Bucket: u.Hostname(), Key: key}, nil
}

// decodeKey percent-decodes a key, keeping the raw form when it is not valid
// percent-encoding (keys may legitimately contain bare '%').
func decodeKey(key string) string {
	decoded, err := url.PathUnescape(key)
	if err != nil {
		return key
	}
	return decoded
}

// TranscriptKey derives the storage key for a transcript from its source key:
// the source basename with its extension replaced by .txt, under the
// transcript prefix.
// Parameters:
//   - sourceKey: key of the source object.
// Returns:
//   - string: derived transcript key.
func TranscriptKey(sourceKey string) string {
	base := path.Base(sourceKey)
	name := strings.TrimSuffix(base, path.Ext(base))
	return transcriptPrefix + "/" + name + ".txt"
}

// EscapeKey percent-encodes each segment of a key for use in a URL path,
// preserving the separators between segments.
// Parameters:
//   - key: object key, possibly containing separators and reserved characters.
// Returns:
//   - string: key safe to embed in a URL path.
func EscapeKey(key string) string {
	segments := strings.Split(key, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}

// ObjectURL builds the deterministic public locator for an object: the
// configured public prefix when present, otherwise the virtual-hosted-style
// S3 URL for the bucket and region.
// Parameters:
//   - publicURL: optional public URL prefix (no trailing slash required).
//   - bucket: bucket holding the object.
//   - region: bucket region, used for the virtual-hosted form.
//   - key: object key.
// Returns:
//   - string: public URL of the object.
func ObjectURL(publicURL, bucket, region, key string) string {
	if publicURL != "" {
		return strings.TrimSuffix(publicURL, "/") + "/" + EscapeKey(key)
	}
	return fmt.Sprintf("https://%s.s3.%s%s/%s", bucket, region, s3HostSuffix, EscapeKey(key))
}
