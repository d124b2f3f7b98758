package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"media-library/internal/domain/entities"
)

type JobStatus string

const (
	StatusDelayed   JobStatus = "delayed"
	StatusWaiting   JobStatus = "waiting"
	StatusActive    JobStatus = "active"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// Job is the self-contained, serializable payload for one asynchronous
// conversion run. It carries everything the worker needs; nothing is resolved
// through shared in-process state.
type Job struct {
	MediaID      string                                `json:"media_id"`
	Conversions  map[string]entities.ConversionOptions `json:"conversions"`
	Path         string                                `json:"path"` // original's storage path
	ModelType    string                                `json:"model_type"`
	ModelID      string                                `json:"model_id"`
	Collection   string                                `json:"collection"`
	Disk         string                                `json:"disk"`
	DelaySeconds int64                                 `json:"delay_seconds,omitempty"`
}

// JobInfo is the observable state of an enqueued job. The job id assigned at
// enqueue time is the only handle a caller retains.
type JobInfo struct {
	ID        string    `json:"id"`
	Status    JobStatus `json:"status"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Stats is a point-in-time snapshot of job counts per status bucket.
type Stats struct {
	Delayed   int64 `json:"delayed"`
	Waiting   int64 `json:"waiting"`
	Active    int64 `json:"active"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
}

func SerializeJob(job Job) (string, error) {
	data, err := json.Marshal(job)
	if err != nil {
		return "", fmt.Errorf("failed to serialize job: %w", err)
	}
	return string(data), nil
}

func DeserializeJob(data string) (*Job, error) {
	var job Job
	if err := json.Unmarshal([]byte(data), &job); err != nil {
		return nil, fmt.Errorf("failed to deserialize job: %w", err)
	}
	return &job, nil
}
