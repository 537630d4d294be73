// Package report exports dashboard overviews as JSON documents to cloud storage.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/dvloznov/spending-dashboard/internal/logger"
	"github.com/dvloznov/spending-dashboard/internal/spending"
)

const contentTypeJSON = "application/json"

// Exporter writes monthly overviews to a bucket.
type Exporter struct {
	writer Writer
	now    func() time.Time
}

// NewExporter creates an Exporter using writer.
func NewExporter(writer Writer) *Exporter {
	return &Exporter{writer: writer, now: time.Now}
}

// ObjectName returns the object path of the overview exported on day.
func ObjectName(prefix string, day time.Time) string {
	return path.Join(prefix, "reports", "monthly-"+day.Format("2006-01-02")+".json")
}

// Export writes the overview as indented JSON under reports/ and returns the
// gs:// URI of the object.
func (e *Exporter) Export(ctx context.Context, bucket string, overview *spending.Overview) (string, error) {
	bucketName, prefix, err := ParseBucket(bucket)
	if err != nil {
		return "", fmt.Errorf("Export: %w", err)
	}

	data, err := json.MarshalIndent(overview, "", "  ")
	if err != nil {
		return "", fmt.Errorf("Export: marshal overview: %w", err)
	}

	objectName := ObjectName(prefix, e.now())
	if err := e.writer.Write(ctx, bucketName, objectName, contentTypeJSON, data); err != nil {
		return "", fmt.Errorf("Export: %w", err)
	}

	uri := fmt.Sprintf("gs://%s/%s", bucketName, objectName)
	logger.FromContext(ctx).Info().
		Str("gcs_uri", uri).
		Int("months", len(overview.Months)).
		Int("bytes", len(data)).
		Msg("Exported monthly overview")

	return uri, nil
}
