// Package taskrunner executes render tasks on a bounded in-process worker
// pool. It is the default dispatcher when the redis queue is disabled.
package taskrunner

import (
	"context"
	"sync"

	"go.uber.org/zap"

	apperrors "sermonclip/pkg/errors"

	"sermonclip/log"
)

// Executor runs a persisted render task to completion.
type Executor interface {
	ExecuteRenderTask(ctx context.Context, taskId string) error
}

type Runner struct {
	executor Executor
	jobs     chan string
	wg       sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

func NewRunner(executor Executor, workers, backlog int) *Runner {
	if workers <= 0 {
		workers = 2
	}
	if backlog <= 0 {
		backlog = 16
	}

	r := &Runner{
		executor: executor,
		jobs:     make(chan string, backlog),
	}
	for i := 0; i < workers; i++ {
		r.wg.Add(1)
		go r.work()
	}
	return r
}

func (r *Runner) work() {
	defer r.wg.Done()
	for taskId := range r.jobs {
		if err := r.executor.ExecuteRenderTask(context.Background(), taskId); err != nil {
			log.GetLogger().Error("render task failed",
				zap.String("task_id", taskId), zap.Error(err))
		}
	}
}

// Dispatch hands a task to the pool. Implements service.Dispatcher. Returns
// an error instead of blocking when the backlog is full.
func (r *Runner) Dispatch(taskId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return apperrors.New(apperrors.CodeUnknown, "task runner is shut down")
	}
	select {
	case r.jobs <- taskId:
		return nil
	default:
		return apperrors.New(apperrors.CodeUnknown, "render backlog is full, try again later")
	}
}

// Stop drains the backlog and waits for in-flight tasks.
func (r *Runner) Stop() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.jobs)
	r.mu.Unlock()

	r.wg.Wait()
}
