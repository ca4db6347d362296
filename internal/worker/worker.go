package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"talentscout/internal/config"
	"talentscout/internal/errors"
	"talentscout/internal/extract"
	"talentscout/internal/query"
	"talentscout/internal/store"
	"talentscout/internal/types"
)

// Worker drains queued sourcing jobs from the store: structure the raw
// document, synthesize search prompts, persist both and mark the job
// completed. One job at a time, throttled by a per-minute rate limit so a
// burst of submissions cannot exhaust the AI quota.
type Worker struct {
	mu sync.Mutex

	store       store.Store
	structurer  *extract.Structurer
	synthesizer *query.Synthesizer
	limiter     *rate.Limiter
	interval    time.Duration
	logger      *errors.Logger

	stopChan chan struct{}
	doneChan chan struct{}
	running  bool
}

// New creates a worker over the given store and pipeline components.
func New(st store.Store, structurer *extract.Structurer, synthesizer *query.Synthesizer, cfg *config.WorkerConfig, logger *errors.Logger) *Worker {
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}

	jobsPerMin := cfg.JobsPerMin
	if jobsPerMin <= 0 {
		jobsPerMin = 30
	}

	return &Worker{
		store:       st,
		structurer:  structurer,
		synthesizer: synthesizer,
		limiter:     rate.NewLimiter(rate.Limit(float64(jobsPerMin)/60.0), 1),
		interval:    interval,
		logger:      logger,
		stopChan:    make(chan struct{}),
		doneChan:    make(chan struct{}),
	}
}

// Start launches the polling loop. ctx cancels in-flight job processing;
// Stop ends the loop itself.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return fmt.Errorf("worker is already running")
	}
	w.running = true
	go w.pollLoop(ctx)
	w.logger.Info("Sourcing worker started",
		"poll_interval", w.interval,
		"jobs_per_min", float64(w.limiter.Limit())*60)
	return nil
}

// Stop ends the polling loop and waits for the current job to finish.
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	close(w.stopChan)
	w.mu.Unlock()

	<-w.doneChan
	w.logger.Info("Sourcing worker stopped")
}

func (w *Worker) pollLoop(ctx context.Context) {
	defer close(w.doneChan)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			// Drain everything queued before going back to sleep.
			for w.processNext(ctx) {
			}
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

// processNext claims and processes one queued job. Returns false when the
// queue is empty or the worker should stop.
func (w *Worker) processNext(ctx context.Context) bool {
	if err := w.limiter.Wait(ctx); err != nil {
		return false
	}
	select {
	case <-w.stopChan:
		return false
	default:
	}

	job, err := w.store.ClaimQueuedJob(ctx)
	if err != nil {
		w.logger.LogError(err, "Failed to claim queued job")
		return false
	}
	if job == nil {
		return false
	}

	w.logger.Info("Processing sourcing job",
		"job_id", job.ID,
		"content_type", job.ContentType)

	if err := w.processJob(ctx, job); err != nil {
		w.logger.LogError(err, "Sourcing job failed", "job_id", job.ID)
		if statusErr := w.store.UpdateJobStatus(ctx, job.ID, types.JobStatusFailed, err.Error()); statusErr != nil {
			w.logger.LogError(statusErr, "Failed to mark job failed", "job_id", job.ID)
		}
		return true
	}

	if err := w.store.UpdateJobStatus(ctx, job.ID, types.JobStatusCompleted, ""); err != nil {
		w.logger.LogError(err, "Failed to mark job completed", "job_id", job.ID)
	}
	w.logger.Info("Sourcing job completed", "job_id", job.ID)
	return true
}

func (w *Worker) processJob(ctx context.Context, job *types.SourcingJob) error {
	record, err := w.structurer.Structure(ctx, job.RawText, job.ContentType)
	if err != nil {
		return err
	}

	prompts := w.synthesizer.Synthesize(ctx, &record)

	return w.store.UpdateJobResults(ctx, job.ID, &record, &prompts)
}
