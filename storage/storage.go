package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"sentinel-portal/config"
)

// ErrNotFound is returned when a staged statement does not exist
var ErrNotFound = errors.New("staged file not found")

// Storage holds uploaded statements while they are forwarded to the decision service
type Storage interface {
	// Stage stores a statement and returns its key
	Stage(ctx context.Context, fileID uuid.UUID, filename string, data io.Reader) (string, error)

	// Open retrieves a staged statement by key
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Remove deletes a staged statement. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}

// New creates a staging storage instance based on configuration
func New(ctx context.Context, cfg config.StorageConfig) (Storage, error) {
	switch cfg.Type {
	case config.StorageTypeLocal:
		return NewLocalStorage(cfg.LocalPath)
	case config.StorageTypeS3:
		if cfg.S3Bucket == "" {
			return nil, errors.New("AWS_S3_BUCKET environment variable is required for S3 storage")
		}
		return NewS3Storage(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// stagingKey builds a unique key for a statement
func stagingKey(fileID uuid.UUID, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".pdf"
	}
	id := fileID.String()
	return fmt.Sprintf("statements/%s/%s%s", id[:2], id, ext)
}

// contentType maps a staged key to its MIME type
func contentType(key string) string {
	if strings.EqualFold(filepath.Ext(key), ".pdf") {
		return "application/pdf"
	}
	return "application/octet-stream"
}
