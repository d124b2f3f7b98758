package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"media-library/internal/domain/repositories"
)

func newTestLocalStorage(t *testing.T) *LocalStorage {
	t.Helper()
	return NewLocalStorage(t.TempDir(), "http://localhost:3000/media/")
}

func TestLocalStoragePutGet(t *testing.T) {
	ctx := context.Background()
	store := newTestLocalStorage(t)

	data := []byte("file contents")
	obj, err := store.Put(ctx, "User/42/avatar/photo.jpg", data, repositories.PutOptions{})
	require.NoError(t, err)

	assert.Equal(t, "User/42/avatar/photo.jpg", obj.Path)
	assert.Equal(t, int64(len(data)), obj.Size)
	assert.NotEmpty(t, obj.ETag)
	assert.WithinDuration(t, time.Now(), obj.LastModified, 5*time.Second)

	got, err := store.Get(ctx, "User/42/avatar/photo.jpg")
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestLocalStoragePutOverwrites(t *testing.T) {
	ctx := context.Background()
	store := newTestLocalStorage(t)

	_, err := store.Put(ctx, "a/b.txt", []byte("one"), repositories.PutOptions{})
	require.NoError(t, err)
	obj, err := store.Put(ctx, "a/b.txt", []byte("two!"), repositories.PutOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), obj.Size)

	got, err := store.Get(ctx, "a/b.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("two!"), got)
}

func TestLocalStorageExists(t *testing.T) {
	ctx := context.Background()
	store := newTestLocalStorage(t)

	exists, err := store.Exists(ctx, "nope.txt")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = store.Put(ctx, "yes.txt", []byte("x"), repositories.PutOptions{})
	require.NoError(t, err)

	exists, err = store.Exists(ctx, "yes.txt")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestLocalStorageDelete(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store := NewLocalStorage(root, "http://localhost:3000/media")

	_, err := store.Put(ctx, "gone.txt", []byte("x"), repositories.PutOptions{})
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, "gone.txt"))

	_, statErr := os.Stat(filepath.Join(root, "gone.txt"))
	assert.True(t, os.IsNotExist(statErr))

	// Deleting an object that is already gone is not an error.
	assert.NoError(t, store.Delete(ctx, "gone.txt"))
	assert.NoError(t, store.Delete(ctx, "never/existed.txt"))
}

func TestLocalStorageGetMissing(t *testing.T) {
	store := newTestLocalStorage(t)
	_, err := store.Get(context.Background(), "missing.txt")
	assert.Error(t, err)
}

func TestLocalStorageURLs(t *testing.T) {
	store := newTestLocalStorage(t)

	// Trailing slash on the base URL is normalized away.
	assert.Equal(t, "http://localhost:3000/media/a/b.jpg", store.URL("a/b.jpg"))

	// The filesystem cannot sign; the temporary URL degrades to the plain one.
	tmp, err := store.TemporaryURL(context.Background(), "a/b.jpg", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, store.URL("a/b.jpg"), tmp)
}
