package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"media-library/internal/domain/entities"
	apperrors "media-library/pkg/errors"
)

// InMemoryMediaRepository is a map-backed repository for tests and
// single-node development use.
type InMemoryMediaRepository struct {
	mu   sync.RWMutex
	data map[string]*entities.Media
}

func NewInMemoryMediaRepository() *InMemoryMediaRepository {
	return &InMemoryMediaRepository{
		data: make(map[string]*entities.Media),
	}
}

func (r *InMemoryMediaRepository) Create(ctx context.Context, media *entities.Media) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if media.ID == "" {
		media.ID = uuid.NewString()
	}
	now := time.Now()
	media.CreatedAt = now
	media.UpdatedAt = now
	copied := *media
	r.data[media.ID] = &copied
	return nil
}

func (r *InMemoryMediaRepository) GetByID(ctx context.Context, id string) (*entities.Media, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	media, ok := r.data[id]
	if !ok {
		return nil, apperrors.ErrMediaNotFound(id)
	}
	copied := *media
	return &copied, nil
}

func (r *InMemoryMediaRepository) ListByModel(ctx context.Context, modelType, modelID, collection string) ([]entities.Media, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]entities.Media, 0)
	for _, media := range r.data {
		if media.ModelType != modelType || media.ModelID != modelID {
			continue
		}
		if collection != "" && media.CollectionName != collection {
			continue
		}
		result = append(result, *media)
	}
	return result, nil
}

func (r *InMemoryMediaRepository) Update(ctx context.Context, media *entities.Media) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[media.ID]; !ok {
		return apperrors.ErrMediaNotFound(media.ID)
	}
	media.UpdatedAt = time.Now()
	copied := *media
	r.data[media.ID] = &copied
	return nil
}

func (r *InMemoryMediaRepository) MergeConversions(ctx context.Context, id string, conversions entities.ConversionMap) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	media, ok := r.data[id]
	if !ok {
		return apperrors.ErrMediaNotFound(id)
	}

	merged := make(entities.ConversionMap, len(media.Manipulations)+len(conversions))
	for name, c := range media.Manipulations {
		merged[name] = c
	}
	for name, c := range conversions {
		merged[name] = c
	}
	media.Manipulations = merged
	media.UpdatedAt = time.Now()
	return nil
}

func (r *InMemoryMediaRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[id]; !ok {
		return apperrors.ErrMediaNotFound(id)
	}
	delete(r.data, id)
	return nil
}
