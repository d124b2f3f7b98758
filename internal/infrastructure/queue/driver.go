package queue

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"

	"media-library/internal/pkg/config"
)

// Runner executes one conversion job. The worker side of the pipeline
// implements it; drivers only move payloads around.
type Runner interface {
	Run(ctx context.Context, job Job) error
}

// Driver is the queue contract. Both implementations behave identically from
// the caller's point of view; only stats and timing may differ.
type Driver interface {
	Enqueue(ctx context.Context, job Job) (string, error)
	Status(ctx context.Context, jobID string) (*JobInfo, error)
	Stats(ctx context.Context) (*Stats, error)
	Close() error
}

// NewDriver selects a driver by configuration. The memory driver processes
// jobs in-process on the given runner; the redis driver only enqueues here,
// a separate worker process consumes (see RedisDriver.Consume).
func NewDriver(cfg config.QueueConfig, runner Runner) (Driver, error) {
	switch cfg.Driver {
	case "memory", "":
		return NewMemoryDriver(cfg.Workers, runner), nil
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr: fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		})
		return NewRedisDriver(rdb), nil
	default:
		return nil, fmt.Errorf("unknown queue driver: %s", cfg.Driver)
	}
}
