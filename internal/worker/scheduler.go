package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/custodia-labs/energy-index/internal/core/domain"
)

// Scheduler re-runs the configured corpora on a fixed interval.
// Overlapping runs of the same corpus are prevented by the run lock.
type Scheduler struct {
	worker   *Worker
	jobs     []domain.Job
	interval time.Duration
	logger   *slog.Logger

	// Internal state
	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// SchedulerConfig holds configuration for the scheduler.
type SchedulerConfig struct {
	Worker   *Worker
	Jobs     []domain.Job
	Interval time.Duration // time between batches (default: 24h)
	Logger   *slog.Logger
}

// NewScheduler creates a new scheduler.
func NewScheduler(cfg SchedulerConfig) *Scheduler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = 24 * time.Hour
	}

	return &Scheduler{
		worker:   cfg.Worker,
		jobs:     cfg.Jobs,
		interval: interval,
		logger:   logger,
	}
}

// Start begins the scheduler loop in the background.
// It runs until Stop is called or ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	s.mu.Unlock()

	s.logger.Info("scheduler starting", "interval", s.interval, "corpora", len(s.jobs))

	go s.run(ctx)
}

// Stop gracefully stops the scheduler, waiting for an in-flight batch.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	close(s.stopCh)
	doneCh := s.doneCh
	s.mu.Unlock()

	<-doneCh

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	s.logger.Info("scheduler stopped")
}

// run is the main scheduler loop.
func (s *Scheduler) run(ctx context.Context) {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler context cancelled")
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.runBatch(ctx)
		}
	}
}

func (s *Scheduler) runBatch(ctx context.Context) {
	summary := s.worker.Run(ctx, s.jobs)
	if err := summary.Err(); err != nil {
		s.logger.Warn("scheduled run had failures", "failed", summary.Failed, "error", err)
		return
	}
	s.logger.Info("scheduled run completed", "succeeded", summary.Succeeded, "duration", summary.Duration)
}
