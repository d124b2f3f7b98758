package repositories

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"media-library/internal/domain/entities"
	apperrors "media-library/pkg/errors"
)

func newMedia(id, modelType, modelID, collection string) *entities.Media {
	return &entities.Media{
		ID:             id,
		ModelType:      modelType,
		ModelID:        modelID,
		CollectionName: collection,
		FileName:       "photo.jpg",
		Path:           modelType + "/" + modelID + "/" + collection + "/photo.jpg",
		MimeType:       "image/jpeg",
		Disk:           "local",
		Size:           123,
	}
}

func TestInMemoryRepositoryCreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryMediaRepository()

	media := newMedia("", "User", "42", "avatar")
	require.NoError(t, repo.Create(ctx, media))
	assert.NotEmpty(t, media.ID, "create must assign an id when none was supplied")

	got, err := repo.GetByID(ctx, media.ID)
	require.NoError(t, err)
	assert.Equal(t, media.Path, got.Path)

	// The returned record is a copy, not shared state.
	got.Path = "tampered"
	again, err := repo.GetByID(ctx, media.ID)
	require.NoError(t, err)
	assert.Equal(t, media.Path, again.Path)
}

func TestInMemoryRepositoryKeepsSuppliedID(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryMediaRepository()

	media := newMedia("minted-id", "User", "42", "avatar")
	require.NoError(t, repo.Create(ctx, media))
	assert.Equal(t, "minted-id", media.ID)
}

func TestInMemoryRepositoryGetMissing(t *testing.T) {
	repo := NewInMemoryMediaRepository()
	_, err := repo.GetByID(context.Background(), "nope")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestInMemoryRepositoryListByModel(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryMediaRepository()

	require.NoError(t, repo.Create(ctx, newMedia("a", "User", "42", "avatar")))
	require.NoError(t, repo.Create(ctx, newMedia("b", "User", "42", "gallery")))
	require.NoError(t, repo.Create(ctx, newMedia("c", "User", "7", "avatar")))

	all, err := repo.ListByModel(ctx, "User", "42", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	avatars, err := repo.ListByModel(ctx, "User", "42", "avatar")
	require.NoError(t, err)
	require.Len(t, avatars, 1)
	assert.Equal(t, "a", avatars[0].ID)

	none, err := repo.ListByModel(ctx, "Post", "42", "")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestInMemoryRepositoryUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryMediaRepository()

	media := newMedia("a", "User", "42", "avatar")
	require.NoError(t, repo.Create(ctx, media))

	media.CustomProperties = entities.JSONMap{"alt": "portrait"}
	require.NoError(t, repo.Update(ctx, media))

	got, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "portrait", got.CustomProperties["alt"])

	err = repo.Update(ctx, newMedia("ghost", "User", "1", "avatar"))
	assert.True(t, apperrors.IsNotFound(err))
}

func TestInMemoryRepositoryMergeConversionsIsAdditive(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryMediaRepository()

	media := newMedia("a", "User", "42", "avatar")
	media.Manipulations = entities.ConversionMap{
		"thumb": {Path: "p/conversions/photo-thumb.jpg", Size: 10},
	}
	require.NoError(t, repo.Create(ctx, media))

	require.NoError(t, repo.MergeConversions(ctx, "a", entities.ConversionMap{
		"medium": {Path: "p/conversions/photo-medium.jpg", Size: 20},
	}))

	got, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	require.Len(t, got.Manipulations, 2)
	assert.Contains(t, got.Manipulations, "thumb")
	assert.Contains(t, got.Manipulations, "medium")

	// Re-merging an existing name replaces its entry, never duplicates it.
	require.NoError(t, repo.MergeConversions(ctx, "a", entities.ConversionMap{
		"thumb": {Path: "p/conversions/photo-thumb.jpg", Size: 99},
	}))
	got, err = repo.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(99), got.Manipulations["thumb"].Size)

	err = repo.MergeConversions(ctx, "ghost", entities.ConversionMap{})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestMergeConversionsConcurrentJobsKeepAllKeys(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryMediaRepository()
	require.NoError(t, repo.Create(ctx, newMedia("a", "User", "42", "avatar")))

	// Two conversion jobs finishing at the same time must both land.
	names := []string{"thumb", "medium", "large", "social", "og"}
	var wg sync.WaitGroup
	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			assert.NoError(t, repo.MergeConversions(ctx, "a", entities.ConversionMap{
				name: {Path: "p/conversions/photo-" + name + ".jpg", Size: 1},
			}))
		}(name)
	}
	wg.Wait()

	got, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	require.Len(t, got.Manipulations, len(names))
	for _, name := range names {
		assert.Contains(t, got.Manipulations, name)
	}
}

func TestInMemoryRepositoryDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryMediaRepository()

	require.NoError(t, repo.Create(ctx, newMedia("a", "User", "42", "avatar")))
	require.NoError(t, repo.Delete(ctx, "a"))

	_, err := repo.GetByID(ctx, "a")
	assert.True(t, apperrors.IsNotFound(err))

	err = repo.Delete(ctx, "a")
	assert.True(t, apperrors.IsNotFound(err))
}
