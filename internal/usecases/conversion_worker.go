package usecases

import (
	"context"
	"log"

	"media-library/internal/domain/entities"
	"media-library/internal/domain/repositories"
	"media-library/internal/infrastructure/naming"
	"media-library/internal/infrastructure/processor"
	"media-library/internal/infrastructure/queue"
	apperrors "media-library/pkg/errors"
	"media-library/pkg/helper"
)

// ConversionWorker executes conversion jobs against the same contracts the
// synchronous path uses. It implements queue.Runner and is wired both into
// the in-memory driver and the standalone worker binary.
type ConversionWorker struct {
	repo      repositories.MediaRepository
	storage   repositories.StorageDriver
	processor processor.Processor
}

func NewConversionWorker(
	repo repositories.MediaRepository,
	storage repositories.StorageDriver,
	proc processor.Processor,
) *ConversionWorker {
	return &ConversionWorker{
		repo:      repo,
		storage:   storage,
		processor: proc,
	}
}

func (w *ConversionWorker) Run(ctx context.Context, job queue.Job) error {
	data, err := w.storage.Get(ctx, job.Path)
	if err != nil {
		return apperrors.ErrStorage("get", err)
	}

	results, procErr := w.processor.Process(data, job.Conversions)

	generated := entities.ConversionMap{}
	for name, res := range results {
		// Variants live next to the original: derive the conversion path from
		// the job's recorded path, not from the path strategy, which may
		// resolve to a different directory by the time the job runs.
		convRes := naming.ConversionPathFor(job.Path, name)
		obj, err := w.storage.Put(ctx, convRes.Path, res.Data, repositories.PutOptions{
			ContentType: helper.DetectMimeType(res.Data),
			Visibility:  repositories.VisibilityPublic,
		})
		if err != nil {
			log.Printf("job for media %s: storing conversion %q failed: %v", job.MediaID, name, err)
			if procErr == nil {
				procErr = apperrors.ErrStorage("put", err)
			}
			continue
		}
		generated[name] = entities.Conversion{Path: obj.Path, Size: obj.Size}
	}

	// Additive merge: concurrently completed jobs for the same media must not
	// drop each other's entries.
	if len(generated) > 0 {
		if err := w.repo.MergeConversions(ctx, job.MediaID, generated); err != nil {
			return err
		}
	}
	return procErr
}
