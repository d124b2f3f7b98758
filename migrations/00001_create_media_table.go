package migrations

import (
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigration(upCreateMediaTable, downCreateMediaTable)
}

func upCreateMediaTable(tx *sql.Tx) error {
	createMediaTable := `
	CREATE TABLE media (
		id VARCHAR(64) PRIMARY KEY,
		model_type VARCHAR(255) NOT NULL,
		model_id VARCHAR(255) NOT NULL,
		collection_name VARCHAR(255) NOT NULL DEFAULT 'default',
		name VARCHAR(255) NOT NULL,
		file_name VARCHAR(255) NOT NULL,
		path VARCHAR(500) NOT NULL,
		mime_type VARCHAR(100) NOT NULL,
		disk VARCHAR(50) NOT NULL,
		size BIGINT NOT NULL,
		manipulations JSON NOT NULL DEFAULT '{}',
		custom_properties JSON NOT NULL DEFAULT '{}',
		responsive_images JSON NOT NULL DEFAULT '{}',
		order_column INTEGER,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);
	`
	if _, err := tx.Exec(createMediaTable); err != nil {
		return fmt.Errorf("could not create media table: %w", err)
	}

	indexes := []string{
		`CREATE INDEX idx_media_model ON media (model_type, model_id);`,
		`CREATE INDEX idx_media_model_collection ON media (model_type, model_id, collection_name);`,
		`CREATE INDEX idx_media_order ON media (order_column);`,
	}
	for _, stmt := range indexes {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("could not create media index: %w", err)
		}
	}
	return nil
}

func downCreateMediaTable(tx *sql.Tx) error {
	if _, err := tx.Exec(`DROP TABLE IF EXISTS media;`); err != nil {
		return fmt.Errorf("could not drop media table: %w", err)
	}
	return nil
}
