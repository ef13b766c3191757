package background

import (
	"context"
	"sync"
	"time"

	"codeberg.org/aiam/server/internal/logger"
	"codeberg.org/aiam/server/internal/metrics"
)

const defaultTaskTimeout = 2 * time.Minute

// runs work that must outlive the request that started it
type Runner struct {
	timeout time.Duration
	wg      sync.WaitGroup
	mu      sync.Mutex
	stopped bool
}

func NewRunner(timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = defaultTaskTimeout
	}

	return &Runner{timeout: timeout}
}

// starts fn detached from ctx cancellation but keeping its values (logger, ids).
// returns false when the runner is already stopped.
func (r *Runner) Go(ctx context.Context, name string, fn func(ctx context.Context) error) bool {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		logger.Warn("background task rejected, runner stopped", "task", name)
		return false
	}
	r.wg.Add(1)
	r.mu.Unlock()

	taskCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)

	go func() {
		defer r.wg.Done()
		defer cancel()

		defer func() {
			if p := recover(); p != nil {
				logger.Error("background task panicked", "task", name, "panic", p)
				metrics.RecordBackgroundTask(name, "panic")
			}
		}()

		start := time.Now()

		if err := fn(taskCtx); err != nil {
			logger.FromContext(taskCtx).Error("background task failed", "task", name, "error", err, "duration", time.Since(start).String())
			metrics.RecordBackgroundTask(name, "error")
			return
		}

		metrics.RecordBackgroundTask(name, "success")
	}()

	return true
}

// waits for in-flight tasks
func (r *Runner) Wait() {
	r.wg.Wait()
}

// rejects new tasks and waits for running ones, up to ctx
func (r *Runner) Stop(ctx context.Context) error {
	r.mu.Lock()
	r.stopped = true
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("background runner stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
