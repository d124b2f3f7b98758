package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"media-library/internal/domain/repositories"
	"media-library/pkg/file"
)

// LocalStorage keeps objects on the local filesystem under a root directory.
type LocalStorage struct {
	root    string
	baseURL string
}

func NewLocalStorage(root, baseURL string) *LocalStorage {
	return &LocalStorage{
		root:    root,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

func (l *LocalStorage) fullPath(path string) string {
	return filepath.Join(l.root, filepath.FromSlash(path))
}

func (l *LocalStorage) Put(ctx context.Context, path string, data []byte, opts repositories.PutOptions) (*repositories.StoredObject, error) {
	full := l.fullPath(path)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return nil, fmt.Errorf("could not create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(full, data, 0644); err != nil {
		return nil, fmt.Errorf("could not write %s: %w", path, err)
	}

	info, err := os.Stat(full)
	if err != nil {
		return nil, fmt.Errorf("could not stat %s after write: %w", path, err)
	}

	return &repositories.StoredObject{
		Path:         path,
		Size:         info.Size(),
		ETag:         file.Checksum(data),
		LastModified: info.ModTime(),
	}, nil
}

func (l *LocalStorage) Get(ctx context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(l.fullPath(path))
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", path, err)
	}
	return data, nil
}

// Delete treats a missing object as already deleted, matching the S3 driver.
func (l *LocalStorage) Delete(ctx context.Context, path string) error {
	if err := os.Remove(l.fullPath(path)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("could not delete %s: %w", path, err)
	}
	return nil
}

func (l *LocalStorage) Exists(ctx context.Context, path string) (bool, error) {
	if _, err := os.Stat(l.fullPath(path)); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (l *LocalStorage) URL(path string) string {
	return l.baseURL + "/" + path
}

// TemporaryURL degrades to the permanent URL: the filesystem backend has no
// native signing capability.
func (l *LocalStorage) TemporaryURL(ctx context.Context, path string, expiresIn time.Duration) (string, error) {
	return l.URL(path), nil
}
