package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"media-library/internal/domain/dto"
	"media-library/internal/domain/entities"
	"media-library/internal/infrastructure/naming"
	"media-library/internal/infrastructure/processor"
	"media-library/internal/infrastructure/queue"
	infra_repo "media-library/internal/infrastructure/repositories"
	"media-library/internal/infrastructure/storage"
	"media-library/internal/pkg/config"
	"media-library/internal/usecases"
)

func newTestApp(t *testing.T) (*fiber.App, usecases.MediaLibrary) {
	t.Helper()

	store := storage.NewLocalStorage(t.TempDir(), "http://localhost:3000/media")
	pathGen := naming.NewDefaultPathGenerator()
	imageProc := processor.NewImageProcessor(90)
	repo := infra_repo.NewInMemoryMediaRepository()

	files := usecases.NewFileService(&naming.OriginalNamer{}, pathGen, store, imageProc, 0)
	worker := usecases.NewConversionWorker(repo, store, imageProc)
	driver := queue.NewMemoryDriver(1, worker)
	t.Cleanup(func() { driver.Close() })

	cfg := &config.Config{
		Storage:    config.StorageConfig{Disk: "local"},
		Conversion: config.ConversionConfig{TemporaryURLTTL: time.Hour},
	}
	library := usecases.NewMediaLibrary(files, repo, store, driver, cfg)

	handler := NewMediaHandler(library)
	app := fiber.New()
	app.Get("/jobs/:id", handler.JobStatus)
	app.Get("/queue/stats", handler.QueueStats)
	return app, library
}

func attachTestMedia(t *testing.T, library usecases.MediaLibrary) *entities.Media {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 50, 50))))

	media, err := library.AttachFile(context.Background(), usecases.AttachInput{
		Data:         buf.Bytes(),
		OriginalName: "photo.png",
		ModelType:    "User",
		ModelID:      "42",
	})
	require.NoError(t, err)
	return media
}

func getJobStatus(t *testing.T, app *fiber.App, jobID string) (int, dto.JobStatusResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/jobs/"+jobID, nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body dto.JobStatusResponse
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	}
	return resp.StatusCode, body
}

func TestJobStatusReportsFinishedJob(t *testing.T) {
	app, library := newTestApp(t)
	media := attachTestMedia(t, library)

	jobID, err := library.ProcessConversionsAsync(context.Background(), media.ID, map[string]entities.ConversionOptions{
		"thumb": {Width: 20, Height: 20, Fit: entities.FitCover},
	})
	require.NoError(t, err)

	deadline := time.Now().Add(5 * time.Second)
	var body dto.JobStatusResponse
	for time.Now().Before(deadline) {
		status, got := getJobStatus(t, app, jobID)
		require.Equal(t, http.StatusOK, status)
		body = got
		if body.Status == string(queue.StatusCompleted) || body.Status == string(queue.StatusFailed) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	require.Equal(t, string(queue.StatusCompleted), body.Status)
	assert.Equal(t, jobID, body.JobID)
	assert.NotEmpty(t, body.CreatedAt)
	assert.NotEmpty(t, body.FinishedAt, "a terminal job must report when it finished")
	assert.Empty(t, body.Error)
}

func TestJobStatusUnknownJob(t *testing.T) {
	app, _ := newTestApp(t)

	status, _ := getJobStatus(t, app, "no-such-job")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestQueueStatsEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/queue/stats", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stats dto.QueueStatsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	assert.Zero(t, stats.Waiting)
}
