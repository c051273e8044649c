package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/custodia-labs/energy-index/internal/core/domain"
	"github.com/custodia-labs/energy-index/internal/core/ports/driven"
	"github.com/custodia-labs/energy-index/internal/core/ports/driving"
)

// Ensure reportService implements ReportService
var _ driving.ReportService = (*reportService)(nil)

// reportService serves the results of past runs from the cache, falling back
// to the run store when one is configured.
type reportService struct {
	cache    driven.ReportCache
	runStore driven.RunStore // nil without PostgreSQL
	logger   *slog.Logger
}

// NewReportService creates a new ReportService. runStore may be nil.
func NewReportService(cache driven.ReportCache, runStore driven.RunStore, logger *slog.Logger) driving.ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &reportService{
		cache:    cache,
		runStore: runStore,
		logger:   logger,
	}
}

// GetReport retrieves the latest index report for a corpus
func (s *reportService) GetReport(ctx context.Context, corpus string) (*domain.PolicyIndexReport, error) {
	if corpus == "" {
		return nil, domain.ErrInvalidInput
	}

	report, err := s.cache.GetReport(ctx, corpus)
	if err == nil {
		return report, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		s.logger.Warn("report cache read failed", "corpus", corpus, "error", err)
	}

	if s.runStore == nil {
		return nil, domain.ErrNotFound
	}

	run, err := s.runStore.LatestRun(ctx, corpus)
	if err != nil {
		return nil, err
	}
	records, err := s.runStore.GetRecords(ctx, run.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load records of run %s: %w", run.ID, err)
	}

	report = &domain.PolicyIndexReport{Corpus: corpus, Records: records, Stats: run.Stats}
	if report.Records == nil {
		report.Records = []domain.IndexRecord{}
	}

	// Warm the cache for the next reader
	if err := s.cache.SaveReport(ctx, report); err != nil {
		s.logger.Warn("failed to cache report", "corpus", corpus, "error", err)
	}

	return report, nil
}

// GetFrequencies retrieves the latest n-gram table for a corpus
func (s *reportService) GetFrequencies(ctx context.Context, corpus string, n, top int) (*domain.FrequencyTable, error) {
	if corpus == "" || n < 1 || top < 0 {
		return nil, domain.ErrInvalidInput
	}

	table, err := s.cache.GetFrequencies(ctx, corpus, n)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("frequency cache read failed", "corpus", corpus, "n", n, "error", err)
		}
		if table, err = s.storedFrequencies(ctx, corpus, n); err != nil {
			return nil, err
		}
	}

	if top > 0 && len(table.Entries) > top {
		cut := *table
		cut.Entries = table.Entries[:top]
		return &cut, nil
	}
	return table, nil
}

// storedFrequencies loads a table from the latest completed run and warms
// the cache with it.
func (s *reportService) storedFrequencies(ctx context.Context, corpus string, n int) (*domain.FrequencyTable, error) {
	if s.runStore == nil {
		return nil, domain.ErrNotFound
	}

	run, err := s.runStore.LatestRun(ctx, corpus)
	if err != nil {
		return nil, err
	}
	table, err := s.runStore.GetFrequencies(ctx, run.ID, n)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SaveFrequencies(ctx, table); err != nil {
		s.logger.Warn("failed to cache frequencies", "corpus", corpus, "n", n, "error", err)
	}
	return table, nil
}

// GetRun retrieves a persisted run by ID
func (s *reportService) GetRun(ctx context.Context, id string) (*domain.Run, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	if s.runStore == nil {
		return nil, domain.ErrNotFound
	}
	return s.runStore.GetRun(ctx, id)
}
