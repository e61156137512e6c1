package renderer

import (
	"context"
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// PixelTask is the unit of parallel work: one pixel's full sampling workload
type PixelTask struct {
	Column, Row int
}

// WorkerPool renders pixel tasks on a fixed number of goroutines.
// The first task error cancels the pool and queued tasks are skipped.
type WorkerPool struct {
	group      *errgroup.Group
	ctx        context.Context
	numWorkers int
	handle     func(PixelTask) error
}

// NewWorkerPool creates a worker pool with the specified number of workers.
// A non-positive count uses one worker per CPU.
func NewWorkerPool(ctx context.Context, numWorkers int, handle func(PixelTask) error) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(numWorkers)
	return &WorkerPool{
		group:      group,
		ctx:        gctx,
		numWorkers: numWorkers,
		handle:     handle,
	}
}

// Submit queues a task, blocking while every worker is busy
func (wp *WorkerPool) Submit(task PixelTask) {
	wp.group.Go(func() (err error) {
		if err := wp.ctx.Err(); err != nil {
			return err
		}
		defer func() {
			if r := recover(); r != nil {
				err = errors.Errorf("pixel (%d, %d): panic: %v", task.Column, task.Row, r)
			}
		}()
		return wp.handle(task)
	})
}

// Wait blocks until every submitted task has finished and returns the first error
func (wp *WorkerPool) Wait() error {
	return wp.group.Wait()
}

// NumWorkers returns the number of workers in the pool
func (wp *WorkerPool) NumWorkers() int {
	return wp.numWorkers
}
