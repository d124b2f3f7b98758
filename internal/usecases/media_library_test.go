package usecases

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"media-library/internal/domain/entities"
	"media-library/internal/infrastructure/naming"
	"media-library/internal/infrastructure/processor"
	"media-library/internal/infrastructure/queue"
	infra_repo "media-library/internal/infrastructure/repositories"
	"media-library/internal/infrastructure/storage"
	"media-library/internal/pkg/config"
	apperrors "media-library/pkg/errors"
)

func testJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h)), nil))
	return buf.Bytes()
}

type libraryFixture struct {
	library MediaLibrary
	repo    *infra_repo.InMemoryMediaRepository
	store   *storage.LocalStorage
	driver  queue.Driver
}

func newTestLibrary(t *testing.T, allowed, forbidden []string) *libraryFixture {
	t.Helper()

	store := storage.NewLocalStorage(t.TempDir(), "http://localhost:3000/media")
	pathGen := naming.NewDefaultPathGenerator()
	imageProc := processor.NewImageProcessor(90)
	repo := infra_repo.NewInMemoryMediaRepository()

	files := NewFileService(&naming.OriginalNamer{}, pathGen, store, imageProc, 0)
	worker := NewConversionWorker(repo, store, imageProc)
	driver := queue.NewMemoryDriver(2, worker)
	t.Cleanup(func() { driver.Close() })

	cfg := &config.Config{
		Storage: config.StorageConfig{Disk: "local"},
		Upload: config.UploadConfig{
			AllowedMime:   allowed,
			ForbiddenMime: forbidden,
		},
		Conversion: config.ConversionConfig{TemporaryURLTTL: time.Hour},
	}

	return &libraryFixture{
		library: NewMediaLibrary(files, repo, store, driver, cfg),
		repo:    repo,
		store:   store,
		driver:  driver,
	}
}

func (f *libraryFixture) attachPhoto(t *testing.T, conversions map[string]entities.ConversionOptions) *entities.Media {
	t.Helper()
	media, err := f.library.AttachFile(context.Background(), AttachInput{
		Data:         testPNG(t, 200, 200),
		OriginalName: "photo.png",
		ModelType:    "User",
		ModelID:      "42",
		Collection:   "avatar",
		Conversions:  conversions,
	})
	require.NoError(t, err)
	return media
}

func (f *libraryFixture) waitForJob(t *testing.T, jobID string) *queue.JobInfo {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		info, err := f.library.GetConversionJobStatus(context.Background(), jobID)
		require.NoError(t, err)
		if info.Status == queue.StatusCompleted || info.Status == queue.StatusFailed {
			return info
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %s did not finish in time", jobID)
	return nil
}

func TestAttachFile(t *testing.T) {
	ctx := context.Background()
	f := newTestLibrary(t, nil, nil)

	media := f.attachPhoto(t, nil)

	assert.NotEmpty(t, media.ID)
	assert.Equal(t, "User", media.ModelType)
	assert.Equal(t, "42", media.ModelID)
	assert.Equal(t, "avatar", media.CollectionName)
	assert.Equal(t, "photo.png", media.Name)
	assert.Equal(t, "photo.png", media.FileName)
	assert.Equal(t, "User/42/avatar/photo.png", media.Path)
	assert.Equal(t, "image/png", media.MimeType)
	assert.Equal(t, "local", media.Disk)
	assert.Positive(t, media.Size)

	exists, err := f.store.Exists(ctx, media.Path)
	require.NoError(t, err)
	assert.True(t, exists)

	got, err := f.library.Get(ctx, media.ID)
	require.NoError(t, err)
	assert.Equal(t, media.Path, got.Path)
}

func TestAttachFileDefaultsCollection(t *testing.T) {
	f := newTestLibrary(t, nil, nil)

	media, err := f.library.AttachFile(context.Background(), AttachInput{
		Data:         testPNG(t, 20, 20),
		OriginalName: "photo.png",
		ModelType:    "User",
		ModelID:      "42",
	})
	require.NoError(t, err)
	assert.Equal(t, "default", media.CollectionName)
}

func TestAttachFileRejectsEmptyData(t *testing.T) {
	f := newTestLibrary(t, nil, nil)

	_, err := f.library.AttachFile(context.Background(), AttachInput{
		OriginalName: "photo.png", ModelType: "User", ModelID: "42",
	})
	assert.True(t, apperrors.IsValidation(err))
}

func TestAttachFileMimePolicy(t *testing.T) {
	ctx := context.Background()
	f := newTestLibrary(t, []string{"image/png"}, nil)

	// Content sniffing decides, not the file name: jpeg bytes named .png.
	_, err := f.library.AttachFile(ctx, AttachInput{
		Data:         testJPEG(t, 20, 20),
		OriginalName: "sneaky.png",
		ModelType:    "User",
		ModelID:      "42",
	})
	assert.True(t, apperrors.IsValidation(err))

	listed, err := f.library.List(ctx, "User", "42", "")
	require.NoError(t, err)
	assert.Empty(t, listed, "a rejected attach must leave no record behind")

	// The same bytes pass once jpeg is allowed too.
	f2 := newTestLibrary(t, []string{"image/png", "image/jpeg"}, nil)
	media, err := f2.library.AttachFile(ctx, AttachInput{
		Data:         testJPEG(t, 20, 20),
		OriginalName: "photo.jpg",
		ModelType:    "User",
		ModelID:      "42",
	})
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", media.MimeType)
}

func TestAttachFileWithSyncConversions(t *testing.T) {
	f := newTestLibrary(t, nil, nil)

	media := f.attachPhoto(t, map[string]entities.ConversionOptions{
		"thumb": {Width: 50, Height: 50, Fit: entities.FitCover},
	})

	conv, ok := media.Manipulations["thumb"]
	require.True(t, ok)
	assert.Equal(t, "User/42/avatar/conversions/photo-thumb.png", conv.Path)

	exists, err := f.store.Exists(context.Background(), conv.Path)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestAttachFromURL(t *testing.T) {
	f := newTestLibrary(t, nil, nil)
	payload := testPNG(t, 30, 30)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	media, err := f.library.AttachFromURL(context.Background(), AttachFromURLInput{
		URL:       srv.URL + "/files/remote.png",
		Timeout:   5 * time.Second,
		ModelType: "User",
		ModelID:   "42",
	})
	require.NoError(t, err)
	assert.Equal(t, "remote.png", media.Name)
	assert.Equal(t, "image/png", media.MimeType)
	assert.Equal(t, int64(len(payload)), media.Size)
}

func TestAttachFromURLBadStatus(t *testing.T) {
	f := newTestLibrary(t, nil, nil)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := f.library.AttachFromURL(context.Background(), AttachFromURLInput{
		URL: srv.URL + "/missing.png", Timeout: 5 * time.Second, ModelType: "User", ModelID: "42",
	})
	assert.Error(t, err)
}

func TestResolveFileURL(t *testing.T) {
	ctx := context.Background()
	f := newTestLibrary(t, nil, nil)

	media := f.attachPhoto(t, map[string]entities.ConversionOptions{
		"thumb": {Width: 50, Height: 50},
	})

	url, err := f.library.ResolveFileURL(ctx, media.ID, "", false)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000/media/User/42/avatar/photo.png", url)

	thumbURL, err := f.library.ResolveFileURL(ctx, media.ID, "thumb", false)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000/media/User/42/avatar/conversions/photo-thumb.png", thumbURL)

	// The local disk cannot sign, so the signed URL matches the plain one.
	signed, err := f.library.ResolveFileURL(ctx, media.ID, "", true)
	require.NoError(t, err)
	assert.Equal(t, url, signed)

	_, err = f.library.ResolveFileURL(ctx, media.ID, "nope", false)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = f.library.ResolveFileURL(ctx, "ghost", "", false)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUpdateCustomProperties(t *testing.T) {
	ctx := context.Background()
	f := newTestLibrary(t, nil, nil)

	media := f.attachPhoto(t, nil)

	updated, err := f.library.UpdateCustomProperties(ctx, media.ID, map[string]interface{}{"alt": "portrait"})
	require.NoError(t, err)
	assert.Equal(t, "portrait", updated.CustomProperties["alt"])

	// A second update merges instead of replacing.
	updated, err = f.library.UpdateCustomProperties(ctx, media.ID, map[string]interface{}{"credit": "jane"})
	require.NoError(t, err)
	assert.Equal(t, "portrait", updated.CustomProperties["alt"])
	assert.Equal(t, "jane", updated.CustomProperties["credit"])

	_, err = f.library.UpdateCustomProperties(ctx, "ghost", map[string]interface{}{"a": 1})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	f := newTestLibrary(t, nil, nil)

	media := f.attachPhoto(t, map[string]entities.ConversionOptions{
		"thumb": {Width: 50, Height: 50},
	})

	require.NoError(t, f.library.Remove(ctx, media.ID))

	_, err := f.library.Get(ctx, media.ID)
	assert.True(t, apperrors.IsNotFound(err))

	for _, p := range []string{media.Path, media.Manipulations["thumb"].Path} {
		exists, err := f.store.Exists(ctx, p)
		require.NoError(t, err)
		assert.False(t, exists, p)
	}

	assert.True(t, apperrors.IsNotFound(f.library.Remove(ctx, media.ID)))
}

func TestRemoveToleratesMissingConversionObject(t *testing.T) {
	ctx := context.Background()
	f := newTestLibrary(t, nil, nil)

	media := f.attachPhoto(t, map[string]entities.ConversionOptions{
		"thumb": {Width: 50, Height: 50},
	})
	require.NoError(t, f.store.Delete(ctx, media.Manipulations["thumb"].Path))

	assert.NoError(t, f.library.Remove(ctx, media.ID))
}

func TestList(t *testing.T) {
	ctx := context.Background()
	f := newTestLibrary(t, nil, nil)

	f.attachPhoto(t, nil)
	_, err := f.library.AttachFile(ctx, AttachInput{
		Data:         testPNG(t, 20, 20),
		OriginalName: "cover.png",
		ModelType:    "User",
		ModelID:      "42",
		Collection:   "gallery",
	})
	require.NoError(t, err)

	all, err := f.library.List(ctx, "User", "42", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	avatars, err := f.library.List(ctx, "User", "42", "avatar")
	require.NoError(t, err)
	assert.Len(t, avatars, 1)
}

func TestProcessConversionsAsync(t *testing.T) {
	ctx := context.Background()
	f := newTestLibrary(t, nil, nil)

	media := f.attachPhoto(t, nil)
	require.Empty(t, media.Manipulations)

	jobID, err := f.library.ProcessConversionsAsync(ctx, media.ID, map[string]entities.ConversionOptions{
		"thumb": {Width: 50, Height: 50, Fit: entities.FitCover},
	})
	require.NoError(t, err)

	info := f.waitForJob(t, jobID)
	require.Equal(t, queue.StatusCompleted, info.Status)

	got, err := f.library.Get(ctx, media.ID)
	require.NoError(t, err)
	conv, ok := got.Manipulations["thumb"]
	require.True(t, ok, "the completed job must record its conversion on the media")

	exists, err := f.store.Exists(ctx, conv.Path)
	require.NoError(t, err)
	assert.True(t, exists)

	url, err := f.library.ResolveFileURL(ctx, media.ID, "thumb", false)
	require.NoError(t, err)
	assert.Contains(t, url, conv.Path)
}

func TestProcessConversionsAsyncValidation(t *testing.T) {
	ctx := context.Background()
	f := newTestLibrary(t, nil, nil)
	media := f.attachPhoto(t, nil)

	_, err := f.library.ProcessConversionsAsync(ctx, media.ID, nil)
	assert.True(t, apperrors.IsValidation(err))

	_, err = f.library.ProcessConversionsAsync(ctx, "ghost", map[string]entities.ConversionOptions{
		"thumb": {Width: 10},
	})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestGetConversionJobStatusUnknown(t *testing.T) {
	f := newTestLibrary(t, nil, nil)

	_, err := f.library.GetConversionJobStatus(context.Background(), "no-such-job")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestGetQueueStats(t *testing.T) {
	ctx := context.Background()
	f := newTestLibrary(t, nil, nil)
	media := f.attachPhoto(t, nil)

	jobID, err := f.library.ProcessConversionsAsync(ctx, media.ID, map[string]entities.ConversionOptions{
		"thumb": {Width: 10, Height: 10},
	})
	require.NoError(t, err)
	f.waitForJob(t, jobID)

	stats, err := f.library.GetQueueStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Completed+stats.Failed)
}
