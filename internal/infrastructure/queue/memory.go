package queue

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "media-library/pkg/errors"
)

const memoryQueueCapacity = 100

type queuedJob struct {
	id  string
	job Job
}

// MemoryDriver processes jobs in-process on a pool of background workers.
// Single node, nothing survives a restart.
type MemoryDriver struct {
	runner Runner

	jobChan chan queuedJob
	mu      sync.RWMutex
	jobs    map[string]*JobInfo
	timers  map[string]*time.Timer
	closed  bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewMemoryDriver(workers int, runner Runner) *MemoryDriver {
	if workers <= 0 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	d := &MemoryDriver{
		runner:  runner,
		jobChan: make(chan queuedJob, memoryQueueCapacity),
		jobs:    make(map[string]*JobInfo),
		timers:  make(map[string]*time.Timer),
		ctx:     ctx,
		cancel:  cancel,
	}
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}
	return d
}

func (d *MemoryDriver) Enqueue(ctx context.Context, job Job) (string, error) {
	id := uuid.NewString()
	now := time.Now()

	status := StatusWaiting
	if job.DelaySeconds > 0 {
		status = StatusDelayed
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return "", apperrors.ErrQueue("enqueue", context.Canceled)
	}
	d.jobs[id] = &JobInfo{ID: id, Status: status, CreatedAt: now, UpdatedAt: now}
	d.mu.Unlock()

	if job.DelaySeconds > 0 {
		timer := time.AfterFunc(time.Duration(job.DelaySeconds)*time.Second, func() {
			d.mu.Lock()
			delete(d.timers, id)
			closed := d.closed
			d.mu.Unlock()
			if closed {
				return
			}
			d.setStatus(id, StatusWaiting, "")
			d.push(id, job)
		})
		d.mu.Lock()
		if d.closed {
			timer.Stop()
		} else {
			d.timers[id] = timer
		}
		d.mu.Unlock()
		return id, nil
	}

	if err := d.push(id, job); err != nil {
		return "", err
	}
	return id, nil
}

// push never sends after Close: the channel is left open for its lifetime and
// the closed flag is re-checked here, so a late delayed-job timer cannot panic.
func (d *MemoryDriver) push(id string, job Job) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return apperrors.ErrQueue("enqueue", errContext("queue is closed"))
	}
	d.mu.Unlock()

	select {
	case d.jobChan <- queuedJob{id: id, job: job}:
		return nil
	default:
		d.setStatus(id, StatusFailed, "queue is full")
		return apperrors.ErrQueue("enqueue", errContext("job queue is full"))
	}
}

func (d *MemoryDriver) Status(ctx context.Context, jobID string) (*JobInfo, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	info, ok := d.jobs[jobID]
	if !ok {
		return nil, apperrors.ErrJobNotFound(jobID)
	}
	copied := *info
	return &copied, nil
}

func (d *MemoryDriver) Stats(ctx context.Context) (*Stats, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	stats := &Stats{}
	for _, info := range d.jobs {
		switch info.Status {
		case StatusDelayed:
			stats.Delayed++
		case StatusWaiting:
			stats.Waiting++
		case StatusActive:
			stats.Active++
		case StatusCompleted:
			stats.Completed++
		case StatusFailed:
			stats.Failed++
		}
	}
	return stats, nil
}

func (d *MemoryDriver) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	for id, timer := range d.timers {
		timer.Stop()
		delete(d.timers, id)
	}
	d.mu.Unlock()

	d.cancel()
	d.wg.Wait()
	return nil
}

func (d *MemoryDriver) worker(id int) {
	defer d.wg.Done()
	for {
		select {
		case item := <-d.jobChan:
			d.setStatus(item.id, StatusActive, "")
			if err := d.runner.Run(d.ctx, item.job); err != nil {
				log.Printf("worker %d: job %s failed: %v", id, item.id, err)
				d.setStatus(item.id, StatusFailed, err.Error())
				continue
			}
			d.setStatus(item.id, StatusCompleted, "")
		case <-d.ctx.Done():
			return
		}
	}
}

func (d *MemoryDriver) setStatus(id string, status JobStatus, errMsg string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if info, ok := d.jobs[id]; ok {
		info.Status = status
		info.Error = errMsg
		info.UpdatedAt = time.Now()
	}
}

type errContext string

func (e errContext) Error() string { return string(e) }
