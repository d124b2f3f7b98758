package entities

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Media is the persisted record of one stored asset. The (ModelType, ModelID,
// CollectionName) triple is the placement of the asset and is not unique: a
// collection may hold many records.
type Media struct {
	ID             string `gorm:"type:varchar(64);primaryKey" json:"id"`
	ModelType      string `gorm:"type:varchar(255);index:idx_media_model;index:idx_media_model_collection" json:"model_type"`
	ModelID        string `gorm:"type:varchar(255);index:idx_media_model;index:idx_media_model_collection" json:"model_id"`
	CollectionName string `gorm:"type:varchar(255);default:default;index:idx_media_model_collection" json:"collection_name"`

	Name     string `gorm:"type:varchar(255)" json:"name"`
	FileName string `gorm:"type:varchar(255)" json:"file_name"`
	Path     string `gorm:"type:varchar(500)" json:"path"`
	MimeType string `gorm:"type:varchar(100)" json:"mime_type"`
	Disk     string `gorm:"type:varchar(50)" json:"disk"`
	Size     int64  `json:"size"`

	Manipulations    ConversionMap `gorm:"type:json" json:"manipulations"`
	CustomProperties JSONMap       `gorm:"type:json" json:"custom_properties"`
	ResponsiveImages StringMap     `gorm:"type:json" json:"responsive_images"`
	OrderColumn      *int          `gorm:"index" json:"order_column,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Media) TableName() string {
	return "media"
}

// A path generator strategy may mint the record id itself; only fall back to a
// fresh uuid when no id was adopted upstream.
func (m *Media) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// Conversion is one generated variant of the original, tracked by its own
// storage path. Paths are recorded at creation time so deletion never has to
// re-derive them from a strategy.
type Conversion struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// ConversionMap maps conversion name to its generated variant.
type ConversionMap map[string]Conversion

func (m ConversionMap) Value() (driver.Value, error) {
	if m == nil {
		m = ConversionMap{}
	}
	return json.Marshal(m)
}

func (m *ConversionMap) Scan(value interface{}) error {
	return scanJSON(value, m)
}

// JSONMap holds arbitrary custom properties.
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		m = JSONMap{}
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(value interface{}) error {
	return scanJSON(value, m)
}

// StringMap maps responsive image names to their paths.
type StringMap map[string]string

func (m StringMap) Value() (driver.Value, error) {
	if m == nil {
		m = StringMap{}
	}
	return json.Marshal(m)
}

func (m *StringMap) Scan(value interface{}) error {
	return scanJSON(value, m)
}

func scanJSON(value interface{}, dst interface{}) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("unsupported column type %T for json field", value)
	}
}
