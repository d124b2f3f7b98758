package repositories

import (
	"context"
	"time"
)

const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// PutOptions carries per-object write settings.
type PutOptions struct {
	ContentType string
	Visibility  string
}

// StoredObject reports what the backend persisted. Size always reflects the
// actual persisted byte length; ETag and LastModified are filled where the
// backend exposes them.
type StoredObject struct {
	Path         string
	Size         int64
	ETag         string
	LastModified time.Time
}

// StorageDriver is the uniform contract over a storage backend.
type StorageDriver interface {
	// Put writes the object, creating any intermediate directory structure
	// implied by path on hierarchical backends.
	Put(ctx context.Context, path string, data []byte, opts PutOptions) (*StoredObject, error)

	// Get returns the full object content.
	Get(ctx context.Context, path string) ([]byte, error)

	// Delete removes the object. Deleting a missing object is not an error.
	Delete(ctx context.Context, path string) error

	// Exists reports whether the object is present. Backend not-found signals
	// are translated to false, nil; any other error is propagated.
	Exists(ctx context.Context, path string) (bool, error)

	// URL returns a stable, non-expiring reference assuming public visibility.
	// It does not verify the object exists.
	URL(path string) string

	// TemporaryURL returns an expiring reference. Backends with no native
	// signing capability return the same value as URL instead of failing.
	TemporaryURL(ctx context.Context, path string, expiresIn time.Duration) (string, error)
}
