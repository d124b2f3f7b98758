package usecases

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"path"
	"time"

	"media-library/internal/domain/entities"
	"media-library/internal/domain/repositories"
	"media-library/internal/infrastructure/queue"
	"media-library/internal/pkg/config"
	"media-library/pkg/constants"
	apperrors "media-library/pkg/errors"
	"media-library/pkg/helper"
)

type AttachInput struct {
	Data             []byte
	OriginalName     string
	Name             string // display name, defaults to the original name
	ModelType        string
	ModelID          string
	Collection       string
	CustomProperties map[string]interface{}
	Conversions      map[string]entities.ConversionOptions
}

type AttachFromURLInput struct {
	URL         string
	Timeout     time.Duration
	ModelType   string
	ModelID     string
	Collection  string
	Conversions map[string]entities.ConversionOptions
}

// MediaLibrary is the top-level orchestrator: it validates, delegates file
// work to the FileService, persists media records and hands asynchronous
// conversion work to the queue driver.
type MediaLibrary interface {
	AttachFile(ctx context.Context, in AttachInput) (*entities.Media, error)
	AttachFromURL(ctx context.Context, in AttachFromURLInput) (*entities.Media, error)
	Get(ctx context.Context, mediaID string) (*entities.Media, error)
	List(ctx context.Context, modelType, modelID, collection string) ([]entities.Media, error)
	ResolveFileURL(ctx context.Context, mediaID, conversionName string, signed bool) (string, error)
	UpdateCustomProperties(ctx context.Context, mediaID string, props map[string]interface{}) (*entities.Media, error)
	Remove(ctx context.Context, mediaID string) error

	// ProcessConversionsAsync enqueues a conversion job and returns its id
	// immediately; it never blocks on conversion completion.
	ProcessConversionsAsync(ctx context.Context, mediaID string, conversions map[string]entities.ConversionOptions) (string, error)
	GetConversionJobStatus(ctx context.Context, jobID string) (*queue.JobInfo, error)
	GetQueueStats(ctx context.Context) (*queue.Stats, error)
}

type mediaLibrary struct {
	files   FileService
	repo    repositories.MediaRepository
	storage repositories.StorageDriver
	queue   queue.Driver

	disk            string
	allowedMime     []string
	forbiddenMime   []string
	temporaryURLTTL time.Duration
}

func NewMediaLibrary(
	files FileService,
	repo repositories.MediaRepository,
	storage repositories.StorageDriver,
	driver queue.Driver,
	cfg *config.Config,
) MediaLibrary {
	return &mediaLibrary{
		files:           files,
		repo:            repo,
		storage:         storage,
		queue:           driver,
		disk:            cfg.Storage.Disk,
		allowedMime:     cfg.Upload.AllowedMime,
		forbiddenMime:   cfg.Upload.ForbiddenMime,
		temporaryURLTTL: cfg.Conversion.TemporaryURLTTL,
	}
}

func (l *mediaLibrary) AttachFile(ctx context.Context, in AttachInput) (*entities.Media, error) {
	if len(in.Data) == 0 {
		return nil, apperrors.ErrMissingFile(nil)
	}

	// MIME policy runs against the sniffed type before any storage I/O; the
	// file extension has no say.
	mimeType := helper.DetectMimeType(in.Data)
	if !helper.MimeAllowed(mimeType, l.allowedMime, l.forbiddenMime) {
		return nil, apperrors.ErrMimeNotAllowed(mimeType)
	}

	collection := in.Collection
	if collection == "" {
		collection = constants.DefaultCollection
	}

	result, err := l.files.Upload(ctx, UploadInput{
		Data:         in.Data,
		OriginalName: in.OriginalName,
		ModelType:    in.ModelType,
		ModelID:      in.ModelID,
		Collection:   collection,
		Conversions:  in.Conversions,
	})
	if err != nil {
		return nil, err
	}

	name := in.Name
	if name == "" {
		name = in.OriginalName
	}

	media := &entities.Media{
		ID:               result.MediaID, // empty unless the path strategy minted one
		ModelType:        in.ModelType,
		ModelID:          in.ModelID,
		CollectionName:   collection,
		Name:             name,
		FileName:         result.FileName,
		Path:             result.Path,
		MimeType:         result.MimeType,
		Disk:             l.disk,
		Size:             result.Size,
		Manipulations:    result.Conversions,
		CustomProperties: in.CustomProperties,
	}

	if err := l.repo.Create(ctx, media); err != nil {
		return nil, err
	}
	return media, nil
}

func (l *mediaLibrary) AttachFromURL(ctx context.Context, in AttachFromURLInput) (*entities.Media, error) {
	parsed, err := url.Parse(in.URL)
	if err != nil {
		return nil, apperrors.ErrMissingFile(fmt.Errorf("invalid url: %w", err))
	}

	client := &http.Client{Timeout: in.Timeout}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, in.URL, nil)
	if err != nil {
		return nil, apperrors.ErrMissingFile(err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, apperrors.ErrStorage("fetch", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.ErrStorage("fetch", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.ErrStorage("fetch", err)
	}

	return l.AttachFile(ctx, AttachInput{
		Data:         data,
		OriginalName: path.Base(parsed.Path),
		ModelType:    in.ModelType,
		ModelID:      in.ModelID,
		Collection:   in.Collection,
		Conversions:  in.Conversions,
	})
}

func (l *mediaLibrary) Get(ctx context.Context, mediaID string) (*entities.Media, error) {
	return l.repo.GetByID(ctx, mediaID)
}

func (l *mediaLibrary) List(ctx context.Context, modelType, modelID, collection string) ([]entities.Media, error) {
	return l.repo.ListByModel(ctx, modelType, modelID, collection)
}

func (l *mediaLibrary) ResolveFileURL(ctx context.Context, mediaID, conversionName string, signed bool) (string, error) {
	media, err := l.repo.GetByID(ctx, mediaID)
	if err != nil {
		return "", err
	}

	target := media.Path
	if conversionName != "" {
		conv, ok := media.Manipulations[conversionName]
		if !ok {
			return "", apperrors.ErrConversionNotFound(conversionName)
		}
		target = conv.Path
	}

	if signed {
		signedURL, err := l.storage.TemporaryURL(ctx, target, l.temporaryURLTTL)
		if err != nil {
			return "", apperrors.ErrStorage("sign", err)
		}
		return signedURL, nil
	}
	return l.storage.URL(target), nil
}

func (l *mediaLibrary) UpdateCustomProperties(ctx context.Context, mediaID string, props map[string]interface{}) (*entities.Media, error) {
	media, err := l.repo.GetByID(ctx, mediaID)
	if err != nil {
		return nil, err
	}

	if media.CustomProperties == nil {
		media.CustomProperties = entities.JSONMap{}
	}
	for k, v := range props {
		media.CustomProperties[k] = v
	}

	if err := l.repo.Update(ctx, media); err != nil {
		return nil, err
	}
	return media, nil
}

// Remove deletes the stored objects before the record. Conversion cleanup is
// best-effort; only an original-delete failure aborts the removal.
func (l *mediaLibrary) Remove(ctx context.Context, mediaID string) error {
	media, err := l.repo.GetByID(ctx, mediaID)
	if err != nil {
		return err
	}

	conversionPaths := make([]string, 0, len(media.Manipulations))
	for _, conv := range media.Manipulations {
		conversionPaths = append(conversionPaths, conv.Path)
	}

	failed, err := l.files.Delete(ctx, media.Path, conversionPaths)
	if err != nil {
		return err
	}
	for _, ferr := range failed {
		log.Printf("remove %s: %v", mediaID, ferr)
	}

	return l.repo.Delete(ctx, mediaID)
}

func (l *mediaLibrary) ProcessConversionsAsync(ctx context.Context, mediaID string, conversions map[string]entities.ConversionOptions) (string, error) {
	if len(conversions) == 0 {
		return "", &apperrors.MediaError{
			Kind:    apperrors.KindValidation,
			Code:    "no_conversions",
			Message: "at least one conversion must be supplied",
		}
	}

	media, err := l.repo.GetByID(ctx, mediaID)
	if err != nil {
		return "", err
	}

	return l.queue.Enqueue(ctx, queue.Job{
		MediaID:     media.ID,
		Conversions: conversions,
		Path:        media.Path,
		ModelType:   media.ModelType,
		ModelID:     media.ModelID,
		Collection:  media.CollectionName,
		Disk:        media.Disk,
	})
}

func (l *mediaLibrary) GetConversionJobStatus(ctx context.Context, jobID string) (*queue.JobInfo, error) {
	return l.queue.Status(ctx, jobID)
}

func (l *mediaLibrary) GetQueueStats(ctx context.Context) (*queue.Stats, error) {
	return l.queue.Stats(ctx)
}
