package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
)

// GCSUploader writes objects to a Cloud Storage bucket. The bucket is
// expected to grant public read through IAM, so no per-object ACL is set.
type GCSUploader struct {
	Client        *gcs.Client
	Bucket        string
	Prefix        string
	PublicBaseURL string
}

func NewGCSUploader(client *gcs.Client, bucket string) *GCSUploader {
	return &GCSUploader{
		Client:        client,
		Bucket:        strings.TrimSpace(bucket),
		Prefix:        "produtos/",
		PublicBaseURL: "https://storage.googleapis.com",
	}
}

func (u *GCSUploader) Upload(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	if u == nil || u.Client == nil {
		return "", errors.New("gcs uploader: storage client is nil")
	}
	if u.Bucket == "" {
		return "", errors.New("gcs uploader: bucket is empty")
	}

	objectPath := u.Prefix + name
	w := u.Client.Bucket(u.Bucket).Object(objectPath).NewWriter(ctx)
	if ct := strings.TrimSpace(contentType); ct != "" {
		w.ContentType = ct
	} else {
		w.ContentType = ContentType(name)
	}
	w.Metadata = map[string]string{
		"uploadedAt": time.Now().UTC().Format(time.RFC3339),
	}

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("gcs upload %s: %w", objectPath, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("gcs upload %s: %w", objectPath, err)
	}

	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(u.PublicBaseURL, "/"), u.Bucket, objectPath), nil
}
