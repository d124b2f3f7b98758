package dto

import (
	"time"

	"media-library/internal/domain/entities"
)

type MediaResponse struct {
	ID             string                        `json:"id"`
	ModelType      string                        `json:"model_type"`
	ModelID        string                        `json:"model_id"`
	CollectionName string                        `json:"collection_name"`
	Name           string                        `json:"name"`
	FileName       string                        `json:"file_name"`
	MimeType       string                        `json:"mime_type"`
	Disk           string                        `json:"disk"`
	Size           int64                         `json:"size"`
	Conversions    map[string]ConversionResponse `json:"conversions"`
	CreatedAt      time.Time                     `json:"created_at"`
	UpdatedAt      time.Time                     `json:"updated_at"`
}

type ConversionResponse struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

type URLResponse struct {
	MediaID    string `json:"media_id"`
	Conversion string `json:"conversion,omitempty"`
	URL        string `json:"url"`
}

type AttachFromURLRequest struct {
	URL            string                                `json:"url"`
	ModelType      string                                `json:"model_type"`
	ModelID        string                                `json:"model_id"`
	Collection     string                                `json:"collection,omitempty"`
	TimeoutSeconds int                                   `json:"timeout_seconds,omitempty"`
	Conversions    map[string]entities.ConversionOptions `json:"conversions,omitempty"`
}

type CreateConversionsRequest struct {
	Conversions map[string]entities.ConversionOptions `json:"conversions"`
}

type CreateConversionsResponse struct {
	JobID   string `json:"job_id"`
	MediaID string `json:"media_id"`
	Status  string `json:"status"`
}

type UpdatePropertiesRequest struct {
	CustomProperties map[string]interface{} `json:"custom_properties"`
}

type JobStatusResponse struct {
	JobID      string `json:"job_id"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
	CreatedAt  string `json:"created_at,omitempty"`
	FinishedAt string `json:"finished_at,omitempty"`
}

type QueueStatsResponse struct {
	Delayed   int64 `json:"delayed"`
	Waiting   int64 `json:"waiting"`
	Active    int64 `json:"active"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
