package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/custodia-labs/energy-index/internal/core/domain"
	"github.com/custodia-labs/energy-index/internal/core/ports/driving"
)

// Worker runs corpus jobs through the run orchestrator.
// Up to Concurrency jobs are processed at once.
type Worker struct {
	orchestrator driving.RunOrchestrator
	logger       *slog.Logger

	concurrency int
}

// WorkerConfig holds configuration for the worker.
type WorkerConfig struct {
	Orchestrator driving.RunOrchestrator
	Logger       *slog.Logger
	Concurrency  int // Number of corpora processed in parallel
}

// Summary is the outcome of one batch of jobs.
type Summary struct {
	Results   []*domain.RunResult `json:"results"` // same order as the jobs
	Succeeded int                 `json:"succeeded"`
	Failed    int                 `json:"failed"`
	Duration  time.Duration       `json:"duration"`

	errs []error
}

// Err joins the errors of failed jobs, or returns nil.
func (s *Summary) Err() error {
	return errors.Join(s.errs...)
}

// NewWorker creates a new corpus worker.
func NewWorker(cfg WorkerConfig) *Worker {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	return &Worker{
		orchestrator: cfg.Orchestrator,
		logger:       logger,
		concurrency:  concurrency,
	}
}

type item struct {
	index int
	job   domain.Job
}

// Run processes every job and waits for all of them. A failed job does not
// stop the others; cancelling ctx stops jobs that have not started.
func (w *Worker) Run(ctx context.Context, jobs []domain.Job) *Summary {
	start := time.Now()
	summary := &Summary{Results: make([]*domain.RunResult, len(jobs))}
	errs := make([]error, len(jobs))

	workers := min(w.concurrency, len(jobs))
	w.logger.Info("worker starting", "jobs", len(jobs), "concurrency", workers)

	queue := make(chan item)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			logger := w.logger.With("worker_id", workerID)
			for it := range queue {
				summary.Results[it.index], errs[it.index] = w.processJob(ctx, it.job, logger)
			}
		}(i)
	}

feed:
	for i, job := range jobs {
		select {
		case queue <- item{index: i, job: job}:
		case <-ctx.Done():
			for j := i; j < len(jobs); j++ {
				errs[j] = fmt.Errorf("%s: %w", jobs[j].Corpus, ctx.Err())
			}
			break feed
		}
	}
	close(queue)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			summary.Failed++
			summary.errs = append(summary.errs, err)
			continue
		}
		if summary.Results[i] != nil && summary.Results[i].Success {
			summary.Succeeded++
		}
	}
	summary.Duration = time.Since(start)

	w.logger.Info("worker finished",
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"duration", summary.Duration,
	)
	return summary
}

// processJob runs a single corpus.
func (w *Worker) processJob(ctx context.Context, job domain.Job, logger *slog.Logger) (*domain.RunResult, error) {
	logger = logger.With("corpus", job.Corpus, "source", job.Source)
	logger.Info("processing corpus")

	startTime := time.Now()
	result, err := w.orchestrator.Run(ctx, job)
	duration := time.Since(startTime)

	if err == nil {
		switch {
		case result == nil:
			err = errors.New("no run result")
		case !result.Success:
			err = errors.New(result.Error)
		}
	}
	if err != nil {
		logger.Error("corpus failed", "duration", duration, "error", err)
		return result, fmt.Errorf("%s: %w", job.Corpus, err)
	}

	logger.Info("corpus completed",
		"duration", duration,
		"scored", result.Stats.DocumentsScored,
		"skipped", result.Stats.DocumentsSkipped,
	)
	return result, nil
}
