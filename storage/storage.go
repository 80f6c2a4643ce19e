// Package storage uploads product photos and returns their public URL.
package storage

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxImageSize is the largest photo accepted by the admin panel.
const MaxImageSize = 5 << 20

var ErrUnsupportedType = errors.New("only jpg, jpeg, png, gif and webp images are allowed")

var allowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// Uploader stores an object under name and returns a URL anyone can open.
type Uploader interface {
	Upload(ctx context.Context, name, contentType string, r io.Reader) (string, error)
}

// ObjectName generates a unique object name that keeps the original
// extension. Unsupported extensions are rejected.
func ObjectName(original string) (string, error) {
	ext := strings.ToLower(filepath.Ext(original))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", ErrUnsupportedType
	}
	return uuid.NewString() + ext, nil
}

// ContentType guesses the MIME type from the object name.
func ContentType(name string) string {
	if ct, ok := allowedExtensions[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}
