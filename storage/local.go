package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalUploader writes files to a directory served under /uploads.
type LocalUploader struct {
	Dir     string
	BaseURL string
}

func NewLocalUploader(dir, baseURL string) *LocalUploader {
	return &LocalUploader{
		Dir:     dir,
		BaseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (u *LocalUploader) Upload(_ context.Context, name, _ string, r io.Reader) (string, error) {
	if err := os.MkdirAll(u.Dir, 0755); err != nil {
		return "", fmt.Errorf("error creating upload directory: %w", err)
	}

	path := filepath.Join(u.Dir, filepath.Base(name))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("error creating file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("error saving image: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("error saving image: %w", err)
	}

	return fmt.Sprintf("%s/uploads/%s", u.BaseURL, filepath.Base(name)), nil
}
