package repositories

import (
	"context"

	"media-library/internal/domain/entities"
)

// MediaRepository is the narrow persistence contract the orchestration core
// needs: create, find, list by placement, update, an additive merge of the
// conversions map, and delete.
type MediaRepository interface {
	Create(ctx context.Context, media *entities.Media) error
	GetByID(ctx context.Context, id string) (*entities.Media, error)
	ListByModel(ctx context.Context, modelType, modelID, collection string) ([]entities.Media, error)
	Update(ctx context.Context, media *entities.Media) error

	// MergeConversions applies the given entries on top of the latest stored
	// map as a read-modify-write; concurrent merges must not drop each other's
	// keys (last writer wins per key, never per map).
	MergeConversions(ctx context.Context, id string, conversions entities.ConversionMap) error

	Delete(ctx context.Context, id string) error
}
