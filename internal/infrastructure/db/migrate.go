package db

import (
	"gorm.io/gorm"

	"media-library/internal/domain/entities"
)

func AutoMigrate(database *gorm.DB) error {
	return database.AutoMigrate(
		&entities.Media{},
	)
}
