package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"media-library/internal/domain/entities"
	"media-library/internal/domain/repositories"
	apperrors "media-library/pkg/errors"
)

type mediaRepository struct {
	db *gorm.DB
}

func NewMediaRepository(db *gorm.DB) repositories.MediaRepository {
	return &mediaRepository{db: db}
}

func (r *mediaRepository) Create(ctx context.Context, media *entities.Media) error {
	return r.db.WithContext(ctx).Create(media).Error
}

func (r *mediaRepository) GetByID(ctx context.Context, id string) (*entities.Media, error) {
	var media entities.Media
	if err := r.db.WithContext(ctx).First(&media, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMediaNotFound(id)
		}
		return nil, err
	}
	return &media, nil
}

func (r *mediaRepository) ListByModel(ctx context.Context, modelType, modelID, collection string) ([]entities.Media, error) {
	query := r.db.WithContext(ctx).Where("model_type = ? AND model_id = ?", modelType, modelID)
	if collection != "" {
		query = query.Where("collection_name = ?", collection)
	}

	var media []entities.Media
	if err := query.Order("order_column NULLS LAST, created_at").Find(&media).Error; err != nil {
		return nil, err
	}
	return media, nil
}

func (r *mediaRepository) Update(ctx context.Context, media *entities.Media) error {
	return r.db.WithContext(ctx).Save(media).Error
}

// MergeConversions re-reads the row under SELECT ... FOR UPDATE inside a
// transaction and writes the merged map. The row lock serializes concurrent
// merges for the same media, so neither can drop the other's keys; a plain
// read would let both transactions see the old map under READ COMMITTED.
func (r *mediaRepository) MergeConversions(ctx context.Context, id string, conversions entities.ConversionMap) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var media entities.Media
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&media, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrMediaNotFound(id)
			}
			return err
		}

		merged := make(entities.ConversionMap, len(media.Manipulations)+len(conversions))
		for name, c := range media.Manipulations {
			merged[name] = c
		}
		for name, c := range conversions {
			merged[name] = c
		}

		return tx.Model(&media).Update("manipulations", merged).Error
	})
}

func (r *mediaRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&entities.Media{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrMediaNotFound(id)
	}
	return nil
}
