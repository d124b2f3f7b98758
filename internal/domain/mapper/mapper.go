package mapper

import (
	"media-library/internal/domain/dto"
	"media-library/internal/domain/entities"
)

func MediaToResponse(m *entities.Media) dto.MediaResponse {
	conversions := make(map[string]dto.ConversionResponse, len(m.Manipulations))
	for name, c := range m.Manipulations {
		conversions[name] = dto.ConversionResponse{
			Path: c.Path,
			Size: c.Size,
		}
	}

	return dto.MediaResponse{
		ID:             m.ID,
		ModelType:      m.ModelType,
		ModelID:        m.ModelID,
		CollectionName: m.CollectionName,
		Name:           m.Name,
		FileName:       m.FileName,
		MimeType:       m.MimeType,
		Disk:           m.Disk,
		Size:           m.Size,
		Conversions:    conversions,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
