package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	catalogapp "github.com/shopapi/backend/internal/application/catalog"
)

var _ catalogapp.ImageStorage = (*LocalImageStorage)(nil)

// LocalImageStorage writes images below a directory that the HTTP server
// serves under urlPrefix. Used when object storage is disabled.
type LocalImageStorage struct {
	dir       string
	urlPrefix string
}

// NewLocalImageStorage creates the directory if needed
func NewLocalImageStorage(dir, urlPrefix string) (*LocalImageStorage, error) {
	if dir == "" {
		return nil, errors.New("storage directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalImageStorage{dir: dir, urlPrefix: "/" + strings.Trim(urlPrefix, "/")}, nil
}

// Dir returns the root directory
func (s *LocalImageStorage) Dir() string {
	return s.dir
}

// URLPrefix returns the path the directory is served under
func (s *LocalImageStorage) URLPrefix() string {
	return s.urlPrefix
}

// Upload writes data to dir/key
func (s *LocalImageStorage) Upload(_ context.Context, key string, data []byte, _ string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// DeleteObject removes dir/key. A missing file is not an error.
func (s *LocalImageStorage) DeleteObject(_ context.Context, key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// PublicURL returns the server-relative URL of key
func (s *LocalImageStorage) PublicURL(key string) string {
	return s.urlPrefix + "/" + strings.TrimLeft(filepath.ToSlash(key), "/")
}

// resolve maps key to a path inside dir and rejects traversal
func (s *LocalImageStorage) resolve(key string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}
	clean := filepath.Clean("/" + key)
	path := filepath.Join(s.dir, clean)
	rel, err := filepath.Rel(s.dir, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return path, nil
}
