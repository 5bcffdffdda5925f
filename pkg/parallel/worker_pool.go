package parallel

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// ErrTooManyWorkers is returned when the worker count exceeds the maximum allowed.
var ErrTooManyWorkers = fmt.Errorf("worker count exceeds maximum")

// ErrTaskPanic wraps a panic recovered from a task
var ErrTaskPanic = errors.New("task panicked")

// MaxWorkers is the maximum number of workers allowed in a pool.
const MaxWorkers = math.MaxInt / 2

// Task is a unit of work. It should return promptly once ctx is done.
type Task func(ctx context.Context) error

// WorkerPool runs tasks on a bounded number of goroutines.
//
// The first task that fails, or panics, cancels the pool context; tasks
// still queued observe the cancellation and Wait reports the first error.
type WorkerPool struct {
	workers int
	group   *errgroup.Group
	ctx     context.Context
	mu      sync.RWMutex // Protects closed against concurrent Submit/Wait
	closed  bool         // Protected by mu

	submitted atomic.Int64
	completed atomic.Int64
}

// NewWorkerPool creates a new worker pool bound to ctx.
// A non-positive worker count selects runtime.NumCPU().
// Returns an error if the worker count exceeds MaxWorkers.
func NewWorkerPool(ctx context.Context, workers int) (*WorkerPool, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	if workers > MaxWorkers {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrTooManyWorkers, workers, MaxWorkers)
	}

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	return &WorkerPool{
		workers: workers,
		group:   group,
		ctx:     gctx,
	}, nil
}

// Workers returns the concurrency limit
func (wp *WorkerPool) Workers() int { return wp.workers }

// Context returns the pool context, cancelled after the first failure
func (wp *WorkerPool) Context() context.Context { return wp.ctx }

// Submit schedules a task, blocking while all workers are busy.
// Returns false if the pool is closed, true if the task was submitted.
func (wp *WorkerPool) Submit(task Task) bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if wp.closed {
		return false
	}

	wp.submitted.Add(1)
	wp.group.Go(func() (err error) {
		defer wp.completed.Add(1)
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%w: %v", ErrTaskPanic, r)
			}
		}()

		if err := wp.ctx.Err(); err != nil {
			return err
		}
		return task(wp.ctx)
	})
	return true
}

// Wait closes the pool and blocks until every submitted task has returned.
// It returns the first task error, if any.
func (wp *WorkerPool) Wait() error {
	wp.mu.Lock()
	wp.closed = true
	wp.mu.Unlock()

	return wp.group.Wait()
}

// Submitted returns the number of accepted tasks
func (wp *WorkerPool) Submitted() int64 { return wp.submitted.Load() }

// Completed returns the number of tasks that have returned
func (wp *WorkerPool) Completed() int64 { return wp.completed.Load() }
