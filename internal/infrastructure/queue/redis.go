package queue

import (
	"context"
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	apperrors "media-library/pkg/errors"
)

const (
	redisJobList    = "media:conversion:jobs"
	redisDelayedSet = "media:conversion:delayed"
	redisStatsKey   = "media:conversion:stats"
	redisJobPrefix  = "media:conversion:job:"
)

// RedisDriver persists jobs in redis so they survive process restarts and can
// be consumed by any number of worker processes.
type RedisDriver struct {
	rdb *redis.Client
}

func NewRedisDriver(rdb *redis.Client) *RedisDriver {
	return &RedisDriver{rdb: rdb}
}

func jobKey(id string) string {
	return redisJobPrefix + id
}

func (d *RedisDriver) Enqueue(ctx context.Context, job Job) (string, error) {
	id := uuid.NewString()
	payload, err := SerializeJob(job)
	if err != nil {
		return "", apperrors.ErrQueue("enqueue", err)
	}

	now := time.Now()
	status := StatusWaiting
	if job.DelaySeconds > 0 {
		status = StatusDelayed
	}

	pipe := d.rdb.TxPipeline()
	pipe.HSet(ctx, jobKey(id), map[string]interface{}{
		"payload":    payload,
		"status":     string(status),
		"error":      "",
		"created_at": now.Format(time.RFC3339Nano),
		"updated_at": now.Format(time.RFC3339Nano),
	})
	pipe.HIncrBy(ctx, redisStatsKey, string(status), 1)
	if job.DelaySeconds > 0 {
		readyAt := now.Add(time.Duration(job.DelaySeconds) * time.Second)
		pipe.ZAdd(ctx, redisDelayedSet, &redis.Z{Score: float64(readyAt.Unix()), Member: id})
	} else {
		pipe.LPush(ctx, redisJobList, id)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return "", apperrors.ErrQueue("enqueue", err)
	}
	return id, nil
}

func (d *RedisDriver) Status(ctx context.Context, jobID string) (*JobInfo, error) {
	fields, err := d.rdb.HGetAll(ctx, jobKey(jobID)).Result()
	if err != nil {
		return nil, apperrors.ErrQueue("status", err)
	}
	if len(fields) == 0 {
		return nil, apperrors.ErrJobNotFound(jobID)
	}

	info := &JobInfo{
		ID:     jobID,
		Status: JobStatus(fields["status"]),
		Error:  fields["error"],
	}
	if t, err := time.Parse(time.RFC3339Nano, fields["created_at"]); err == nil {
		info.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339Nano, fields["updated_at"]); err == nil {
		info.UpdatedAt = t
	}
	return info, nil
}

func (d *RedisDriver) Stats(ctx context.Context) (*Stats, error) {
	fields, err := d.rdb.HGetAll(ctx, redisStatsKey).Result()
	if err != nil {
		return nil, apperrors.ErrQueue("stats", err)
	}

	stats := &Stats{}
	for status, raw := range fields {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		switch JobStatus(status) {
		case StatusDelayed:
			stats.Delayed = n
		case StatusWaiting:
			stats.Waiting = n
		case StatusActive:
			stats.Active = n
		case StatusCompleted:
			stats.Completed = n
		case StatusFailed:
			stats.Failed = n
		}
	}
	return stats, nil
}

func (d *RedisDriver) Close() error {
	return d.rdb.Close()
}

// Consume blocks on the work list and runs each job through the runner until
// the context is cancelled. Run from a worker process; multiple consumers may
// share the same list.
func (d *RedisDriver) Consume(ctx context.Context, runner Runner) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		d.promoteDelayed(ctx)

		res, err := d.rdb.BRPop(ctx, time.Second, redisJobList).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("BRPop failed: %v", err)
			time.Sleep(time.Second)
			continue
		}

		id := res[1]
		payload, err := d.rdb.HGet(ctx, jobKey(id), "payload").Result()
		if err != nil {
			log.Printf("job %s: payload lookup failed: %v", id, err)
			continue
		}
		job, err := DeserializeJob(payload)
		if err != nil {
			log.Printf("job %s: %v", id, err)
			d.transition(ctx, id, StatusWaiting, StatusFailed, err.Error())
			continue
		}

		d.transition(ctx, id, StatusWaiting, StatusActive, "")
		if err := runner.Run(ctx, *job); err != nil {
			log.Printf("job %s failed: %v", id, err)
			d.transition(ctx, id, StatusActive, StatusFailed, err.Error())
			continue
		}
		d.transition(ctx, id, StatusActive, StatusCompleted, "")
	}
}

// promoteDelayed moves due scheduled jobs onto the work list.
func (d *RedisDriver) promoteDelayed(ctx context.Context) {
	now := strconv.FormatInt(time.Now().Unix(), 10)
	ids, err := d.rdb.ZRangeByScore(ctx, redisDelayedSet, &redis.ZRangeBy{Min: "-inf", Max: now}).Result()
	if err != nil || len(ids) == 0 {
		return
	}
	for _, id := range ids {
		pipe := d.rdb.TxPipeline()
		pipe.ZRem(ctx, redisDelayedSet, id)
		pipe.LPush(ctx, redisJobList, id)
		if _, err := pipe.Exec(ctx); err != nil {
			log.Printf("job %s: promote failed: %v", id, err)
			continue
		}
		d.transition(ctx, id, StatusDelayed, StatusWaiting, "")
	}
}

func (d *RedisDriver) transition(ctx context.Context, id string, from, to JobStatus, errMsg string) {
	pipe := d.rdb.TxPipeline()
	pipe.HSet(ctx, jobKey(id), map[string]interface{}{
		"status":     string(to),
		"error":      errMsg,
		"updated_at": time.Now().Format(time.RFC3339Nano),
	})
	pipe.HIncrBy(ctx, redisStatsKey, string(from), -1)
	pipe.HIncrBy(ctx, redisStatsKey, string(to), 1)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("job %s: status transition %s -> %s failed: %v", id, from, to, err)
	}
}
