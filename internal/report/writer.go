package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// Writer stores an object in a bucket.
// This interface enables mocking and testing of storage functionality.
type Writer interface {
	Write(ctx context.Context, bucketName, objectName, contentType string, data []byte) error
}

// GCSWriter writes objects to Google Cloud Storage.
type GCSWriter struct {
	client *storage.Client
}

// NewGCSWriter creates a GCSWriter. Without options it uses Application
// Default Credentials.
func NewGCSWriter(ctx context.Context, opts ...option.ClientOption) (*GCSWriter, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("NewGCSWriter: create storage client: %w", err)
	}
	return &GCSWriter{client: client}, nil
}

// Close closes the storage client.
func (g *GCSWriter) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// Write uploads data to bucketName/objectName.
func (g *GCSWriter) Write(ctx context.Context, bucketName, objectName, contentType string, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := g.client.Bucket(bucketName).Object(objectName).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("write %s/%s: %w", bucketName, objectName, err)
	}

	// Close to finalize the upload
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize upload %s/%s: %w", bucketName, objectName, err)
	}

	return nil
}

// ParseBucket accepts either a bare bucket name or a gs://bucket[/prefix] URI
// and returns the bucket and the (possibly empty) object prefix.
func ParseBucket(uri string) (bucketName, prefix string, err error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(uri), "gs://")
	parts := strings.SplitN(trimmed, "/", 2)
	if parts[0] == "" {
		return "", "", fmt.Errorf("invalid GCS bucket: %q", uri)
	}
	if len(parts) == 2 {
		prefix = strings.Trim(parts[1], "/")
	}
	return parts[0], prefix, nil
}

// Ensure GCSWriter implements Writer interface.
var _ Writer = (*GCSWriter)(nil)
