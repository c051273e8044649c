package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/energy-index/internal/core/domain"
	"github.com/custodia-labs/energy-index/internal/core/ports/driven"
	"github.com/custodia-labs/energy-index/internal/core/ports/driving"
)

// DefaultRunLockTTL bounds how long a crashed run can block its corpus
const DefaultRunLockTTL = 30 * time.Minute

// Ensure RunOrchestrator implements the driving port
var _ driving.RunOrchestrator = (*RunOrchestrator)(nil)

// RunOrchestrator coordinates the analysis of one corpus.
// It implements the run flow:
//  1. Acquire the corpus run lock
//  2. Load the corpus
//  3. Count n-grams per configured size and render a chart for each
//  4. Build the index report
//  5. Write the report table
//  6. Persist and cache the results
type RunOrchestrator struct {
	loaders  map[domain.CorpusSource]driven.CorpusLoader
	analysis driving.AnalysisService
	config   *domain.AnalysisConfig
	writer   driven.ReportWriter
	cache    driven.ReportCache
	runStore driven.RunStore
	lock     driven.DistributedLock
	renderer driven.ChartRenderer
	sink     driven.ArtifactSink
	lockTTL  time.Duration
	logger   *slog.Logger
}

// RunOrchestratorConfig holds dependencies for RunOrchestrator.
// RunStore, Lock, Cache, Renderer and Sink are optional.
type RunOrchestratorConfig struct {
	Loaders  map[domain.CorpusSource]driven.CorpusLoader
	Analysis driving.AnalysisService
	Config   *domain.AnalysisConfig
	Writer   driven.ReportWriter
	Cache    driven.ReportCache
	RunStore driven.RunStore
	Lock     driven.DistributedLock
	Renderer driven.ChartRenderer
	Sink     driven.ArtifactSink
	LockTTL  time.Duration
	Logger   *slog.Logger
}

// NewRunOrchestrator creates a new run orchestrator.
func NewRunOrchestrator(cfg RunOrchestratorConfig) *RunOrchestrator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	lockTTL := cfg.LockTTL
	if lockTTL <= 0 {
		lockTTL = DefaultRunLockTTL
	}

	return &RunOrchestrator{
		loaders:  cfg.Loaders,
		analysis: cfg.Analysis,
		config:   cfg.Config,
		writer:   cfg.Writer,
		cache:    cfg.Cache,
		runStore: cfg.RunStore,
		lock:     cfg.Lock,
		renderer: cfg.Renderer,
		sink:     cfg.Sink,
		lockTTL:  lockTTL,
		logger:   logger,
	}
}

// Run analyses a single corpus.
// This is the main entry point for the batch pipeline.
func (o *RunOrchestrator) Run(ctx context.Context, job domain.Job) (*domain.RunResult, error) {
	startTime := time.Now()

	if job.Corpus == "" {
		return nil, fmt.Errorf("%w: job has no corpus name", domain.ErrInvalidInput)
	}

	run := &domain.Run{
		ID:        uuid.NewString(),
		Corpus:    job.Corpus,
		Status:    domain.RunStatusRunning,
		StartedAt: startTime,
	}
	logger := o.logger.With("corpus", job.Corpus, "run_id", run.ID)
	logger.Info("starting run", "source", job.Source)

	// Step 1: Acquire the corpus lock
	if o.lock != nil {
		lockName := runLockName(job.Corpus)
		token, acquired, err := o.lock.Acquire(ctx, lockName, o.lockTTL)
		if err != nil {
			return o.failRun(ctx, run, startTime, fmt.Errorf("failed to acquire run lock: %w", err))
		}
		if !acquired {
			// Nothing ran, so nothing is recorded
			logger.Info("run skipped, corpus is locked")
			return &domain.RunResult{
				Corpus:   job.Corpus,
				Error:    domain.ErrRunInProgress.Error(),
				Duration: time.Since(startTime),
			}, domain.ErrRunInProgress
		}
		stopRenewal := o.renewLock(ctx, lockName, token, logger)
		defer func() {
			stopRenewal()
			// Release with a fresh context so a cancelled run still frees the lock
			if err := o.lock.Release(context.WithoutCancel(ctx), lockName, token); err != nil {
				logger.Warn("failed to release run lock", "error", err)
			}
		}()
	}

	o.saveRun(ctx, run)

	// Step 2: Load the corpus
	loader, ok := o.loaders[job.Source]
	if !ok {
		return o.failRun(ctx, run, startTime, fmt.Errorf("%w: no loader for source %q", domain.ErrInvalidInput, job.Source))
	}
	corpus, err := loader.Load(ctx, job)
	if err != nil {
		return o.failRun(ctx, run, startTime, fmt.Errorf("failed to load corpus: %w", err))
	}
	corpus.Name = job.Corpus

	logger.Info("corpus loaded", "bills", corpus.Len(), "with_text", len(corpus.WithText()))

	// Step 3: N-gram tables and charts
	tables := make([]*domain.FrequencyTable, 0, len(o.config.NGramSizes))
	for _, n := range o.config.NGramSizes {
		table, err := o.analysis.CountNGrams(ctx, corpus, n, o.config.TopK)
		if err != nil {
			return o.failRun(ctx, run, startTime, fmt.Errorf("failed to count %d-grams: %w", n, err))
		}
		tables = append(tables, table)

		path, err := o.renderFrequencyChart(table)
		switch {
		case errors.Is(err, domain.ErrEmptyDataset):
			logger.Warn("no n-grams to chart", "n", n)
		case err != nil:
			return o.failRun(ctx, run, startTime, fmt.Errorf("failed to render %d-gram chart: %w", n, err))
		case path != "":
			run.Artifacts.ChartPaths = append(run.Artifacts.ChartPaths, path)
		}
	}

	// Step 4: Build the index
	report, err := o.analysis.BuildIndex(ctx, corpus)
	if err != nil {
		return o.failRun(ctx, run, startTime, fmt.Errorf("failed to build index: %w", err))
	}
	run.Stats = report.Stats

	// Step 5: Write the report table
	if o.writer != nil {
		path, err := o.writer.WriteReport(ctx, report)
		if err != nil {
			return o.failRun(ctx, run, startTime, fmt.Errorf("failed to write report: %w", err))
		}
		run.Artifacts.ReportPath = path
	}

	// Step 6: Persist, then cache. A run is only marked completed once its
	// records and tables are stored, so LatestRun never serves a partial report.
	if o.runStore != nil {
		if err := o.runStore.SaveRecords(ctx, run.ID, report.Records); err != nil {
			return o.failRun(ctx, run, startTime, fmt.Errorf("failed to persist records: %w", err))
		}
		if err := o.runStore.SaveFrequencies(ctx, run.ID, tables); err != nil {
			return o.failRun(ctx, run, startTime, fmt.Errorf("failed to persist frequencies: %w", err))
		}
	}
	if o.cache != nil {
		for _, table := range tables {
			if err := o.cache.SaveFrequencies(ctx, table); err != nil {
				logger.Warn("failed to cache frequencies", "n", table.N, "error", err)
			}
		}
		if err := o.cache.SaveReport(ctx, report); err != nil {
			logger.Warn("failed to cache report", "error", err)
		}
	}

	completedAt := time.Now()
	run.Status = domain.RunStatusCompleted
	run.CompletedAt = &completedAt
	o.saveRun(ctx, run)

	duration := time.Since(startTime)

	logger.Info("run completed",
		"duration_seconds", duration.Seconds(),
		"documents_scored", report.Stats.DocumentsScored,
		"documents_skipped", report.Stats.DocumentsSkipped,
		"empty_documents", report.Stats.EmptyDocuments,
		"mean_score", report.Stats.MeanScore,
		"report", run.Artifacts.ReportPath,
	)

	return &domain.RunResult{
		RunID:    run.ID,
		Corpus:   job.Corpus,
		Success:  true,
		Stats:    report.Stats,
		Duration: duration,
	}, nil
}

// renewLock extends the run lock every third of its TTL until the returned
// stop function is called, so a run outlasting the TTL keeps its corpus.
func (o *RunOrchestrator) renewLock(ctx context.Context, name, token string, logger *slog.Logger) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(max(o.lockTTL/3, time.Millisecond))
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := o.lock.Extend(ctx, name, token, o.lockTTL); err != nil && ctx.Err() == nil {
					logger.Warn("failed to extend run lock", "error", err)
				}
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}

// renderFrequencyChart renders one n-gram chart and returns its path.
// Returns an empty path when no renderer is configured.
func (o *RunOrchestrator) renderFrequencyChart(table *domain.FrequencyTable) (string, error) {
	if o.renderer == nil || o.sink == nil {
		return "", nil
	}
	if len(table.Entries) == 0 {
		return "", domain.ErrEmptyDataset
	}

	artifact, err := o.sink.Create(FrequencyChartName(table.Corpus, table.N))
	if err != nil {
		return "", err
	}
	if err := o.renderer.RenderFrequencyChart(table, artifact); err != nil {
		_ = artifact.Abort()
		return "", err
	}
	if err := artifact.Close(); err != nil {
		return "", err
	}
	return artifact.Path(), nil
}

// saveRun persists the run when a run store is configured.
func (o *RunOrchestrator) saveRun(ctx context.Context, run *domain.Run) {
	if o.runStore == nil {
		return
	}
	if err := o.runStore.SaveRun(ctx, run); err != nil {
		o.logger.Warn("failed to save run", "run_id", run.ID, "status", run.Status, "error", err)
	}
}

// failRun marks a run as failed and returns the result.
func (o *RunOrchestrator) failRun(
	ctx context.Context,
	run *domain.Run,
	startTime time.Time,
	err error,
) (*domain.RunResult, error) {
	duration := time.Since(startTime)

	o.logger.Error("run failed",
		"corpus", run.Corpus,
		"run_id", run.ID,
		"duration_seconds", duration.Seconds(),
		"error", err,
	)

	now := time.Now()
	run.Status = domain.RunStatusFailed
	run.CompletedAt = &now
	run.Error = err.Error()
	o.saveRun(context.WithoutCancel(ctx), run)

	return &domain.RunResult{
		RunID:    run.ID,
		Corpus:   run.Corpus,
		Success:  false,
		Error:    err.Error(),
		Duration: duration,
	}, err
}

// FrequencyChartName returns the artifact name of an n-gram chart,
// e.g. words_texas.png for unigrams and bigrams_texas.png for bigrams.
func FrequencyChartName(corpus string, n int) string {
	switch n {
	case 1:
		return fmt.Sprintf("words_%s.png", corpus)
	case 2:
		return fmt.Sprintf("bigrams_%s.png", corpus)
	case 3:
		return fmt.Sprintf("trigrams_%s.png", corpus)
	default:
		return fmt.Sprintf("%dgrams_%s.png", n, corpus)
	}
}

func runLockName(corpus string) string {
	return "energy-index:run:" + corpus
}
