package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/custodia-labs/energy-index/internal/core/domain"
	"github.com/custodia-labs/energy-index/internal/core/ports/driven"
	"github.com/custodia-labs/energy-index/internal/core/ports/driving"
)

// Ensure importService implements ImportService
var _ driving.ImportService = (*importService)(nil)

// importService fills the bill store from corpus files, so that runs with
// CORPUS_SOURCE=postgres have something to read.
type importService struct {
	loader driven.CorpusLoader
	store  driven.BillStore
	logger *slog.Logger
}

// NewImportService creates a new ImportService.
func NewImportService(loader driven.CorpusLoader, store driven.BillStore, logger *slog.Logger) driving.ImportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &importService{loader: loader, store: store, logger: logger}
}

// Import stops at the first corpus that fails. Corpora imported before it
// stay stored.
func (s *importService) Import(ctx context.Context, jobs []domain.Job) (map[string]int, error) {
	if s.store == nil {
		return nil, fmt.Errorf("%w: no bill store configured", domain.ErrInvalidInput)
	}

	counts := make(map[string]int, len(jobs))
	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			return counts, err
		}

		corpus, err := s.loader.Load(ctx, job)
		if err != nil {
			return counts, fmt.Errorf("load %s: %w", job.Corpus, err)
		}
		corpus.Name = job.Corpus

		if err := s.store.SaveCorpus(ctx, corpus); err != nil {
			return counts, fmt.Errorf("store %s: %w", job.Corpus, err)
		}

		stored, err := s.store.Count(ctx, job.Corpus)
		if err != nil {
			return counts, fmt.Errorf("count %s: %w", job.Corpus, err)
		}
		counts[job.Corpus] = stored

		s.logger.Info("corpus imported", "corpus", job.Corpus, "path", job.Path, "bills", stored)
	}
	return counts, nil
}
