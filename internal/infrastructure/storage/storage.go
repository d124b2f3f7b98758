package storage

import (
	"context"
	"fmt"

	"media-library/internal/domain/repositories"
	"media-library/internal/pkg/config"
)

// NewStorageDriver selects the driver for the configured disk.
func NewStorageDriver(ctx context.Context, cfg config.StorageConfig) (repositories.StorageDriver, error) {
	switch cfg.Disk {
	case "local", "":
		return NewLocalStorage(cfg.Local.Root, cfg.Local.BaseURL), nil
	case "s3":
		return NewS3Storage(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown storage disk: %s", cfg.Disk)
	}
}
