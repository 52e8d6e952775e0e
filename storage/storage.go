// Package storage keeps clothing photos on the local filesystem or in S3.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"layer-backend/config"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a stored image does not exist
var ErrNotFound = errors.New("image not found")

// Storage interface for image storage operations
type Storage interface {
	// Upload stores an image and returns its storage path
	Upload(ctx context.Context, imageID uuid.UUID, filename string, data io.Reader) (string, error)

	// Download retrieves an image by storage path
	Download(ctx context.Context, storagePath string) (io.ReadCloser, error)

	// Delete removes an image by storage path
	Delete(ctx context.Context, storagePath string) error
}

// StorageType represents the storage backend type
type StorageType string

const (
	StorageTypeLocal StorageType = "local"
	StorageTypeS3    StorageType = "s3"
)

// NewStorage creates a storage backend from configuration
func NewStorage(ctx context.Context, cfg config.StorageConfig) (Storage, error) {
	switch StorageType(cfg.Type) {
	case StorageTypeLocal:
		return NewLocalStorage(cfg.LocalPath)
	case StorageTypeS3:
		if cfg.S3Bucket == "" {
			return nil, errors.New("AWS_S3_BUCKET environment variable is required for S3 storage")
		}
		return NewS3Storage(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// generateStoragePath builds a sharded, collision-free key for an image
func generateStoragePath(imageID uuid.UUID, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}
	baseName := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	baseName = strings.NewReplacer(" ", "_", "/", "_", "\\", "_", "..", "_").Replace(baseName)
	if baseName == "" || baseName == "." {
		baseName = "image"
	}

	id := imageID.String()
	return fmt.Sprintf("%s/%s_%s%s", id[:2], id, baseName, ext)
}

// ContentType determines the image content type from a filename
func ContentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	case ".heic":
		return "image/heic"
	default:
		return "application/octet-stream"
	}
}

// ImageFormat returns the short format name the generation service expects ("jpeg", "png")
func ImageFormat(filename string) string {
	ct := ContentType(filename)
	if !strings.HasPrefix(ct, "image/") {
		return "jpeg"
	}
	return strings.TrimPrefix(ct, "image/")
}
