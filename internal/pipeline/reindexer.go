package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/rulerag/internal/vectorstore"
)

// ErrReindexInProgress is returned when a rebuild is already running.
var ErrReindexInProgress = errors.New("reindex already in progress")

// Reindexer rebuilds the index in the background, one build at a time.
// The completed store is handed to the swap callback; queries keep hitting
// the old index until the new one is fully built.
type Reindexer struct {
	builder *Builder
	jobs    *JobStore
	paths   []string
	swap    func(*vectorstore.HybridStore)
	log     *slog.Logger

	mu     sync.Mutex
	active bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewReindexer(builder *Builder, paths []string, ttl time.Duration, swap func(*vectorstore.HybridStore), log *slog.Logger) *Reindexer {
	return &Reindexer{
		builder: builder,
		jobs:    NewJobStore(ttl),
		paths:   paths,
		swap:    swap,
		log:     log,
	}
}

// Start launches the job store cleanup loop.
func (r *Reindexer) Start(ctx context.Context) {
	cleanupCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-cleanupCtx.Done():
				return
			case <-ticker.C:
				r.jobs.Cleanup()
			}
		}
	}()
}

// Stop waits for any running rebuild and the cleanup loop to finish.
func (r *Reindexer) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
}

// Trigger starts a background rebuild and returns its job. Only one rebuild
// runs at a time; a second trigger fails with ErrReindexInProgress.
func (r *Reindexer) Trigger(ctx context.Context) (JobSnapshot, error) {
	r.mu.Lock()
	if r.active {
		r.mu.Unlock()
		return JobSnapshot{}, ErrReindexInProgress
	}
	r.active = true
	r.mu.Unlock()

	job := NewJob()
	r.jobs.Put(job)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			r.mu.Lock()
			r.active = false
			r.mu.Unlock()
		}()

		store, err := r.builder.Build(ctx, r.paths, job)
		if err != nil {
			r.log.Error("reindex failed", "job_id", job.ID, "error", err)
			job.SetStatus(StatusFailed, fmt.Sprintf("build failed: %v", err))
			return
		}
		r.swap(store)
		job.SetStatus(StatusCompleted, "index swapped")
		r.log.Info("reindex completed", "job_id", job.ID, "chunks", store.Len())
	}()

	return job.Snapshot(), nil
}

// Job returns a tracked job by ID, or nil.
func (r *Reindexer) Job(id string) *Job {
	return r.jobs.Get(id)
}
