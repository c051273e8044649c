package driven

import (
	"context"

	"github.com/custodia-labs/energy-index/internal/core/domain"
)

// ReportWriter writes report artifacts to the output directory
type ReportWriter interface {
	// WriteReport writes the records as a JSON array and returns the file path.
	// The file is replaced atomically; a failed write leaves no partial file.
	WriteReport(ctx context.Context, report *domain.PolicyIndexReport) (string, error)
}

// ReportCache keeps the latest report and frequency tables per corpus.
// Implementations can use Redis (shared) or memory (single instance).
type ReportCache interface {
	// SaveReport stores the latest report for its corpus
	SaveReport(ctx context.Context, report *domain.PolicyIndexReport) error

	// GetReport retrieves the latest report for a corpus.
	// Returns domain.ErrNotFound if none was cached.
	GetReport(ctx context.Context, corpus string) (*domain.PolicyIndexReport, error)

	// SaveFrequencies stores a frequency table for its corpus and n
	SaveFrequencies(ctx context.Context, table *domain.FrequencyTable) error

	// GetFrequencies retrieves a frequency table.
	// Returns domain.ErrNotFound if none was cached.
	GetFrequencies(ctx context.Context, corpus string, n int) (*domain.FrequencyTable, error)

	// Ping checks if the cache backend is healthy.
	Ping(ctx context.Context) error
}

// RunStore handles run and report persistence (PostgreSQL)
type RunStore interface {
	// SaveRun creates or updates a run
	SaveRun(ctx context.Context, run *domain.Run) error

	// SaveRecords stores the records of a run in a transaction
	SaveRecords(ctx context.Context, runID string, records []domain.IndexRecord) error

	// SaveFrequencies stores the n-gram tables of a run in a transaction
	SaveFrequencies(ctx context.Context, runID string, tables []*domain.FrequencyTable) error

	// GetRun retrieves a run by ID
	GetRun(ctx context.Context, id string) (*domain.Run, error)

	// LatestRun retrieves the most recent completed run for a corpus
	LatestRun(ctx context.Context, corpus string) (*domain.Run, error)

	// GetRecords retrieves the records of a run in report order
	GetRecords(ctx context.Context, runID string) ([]domain.IndexRecord, error)

	// GetFrequencies retrieves the n-gram table of a run.
	// Returns domain.ErrNotFound if the run stored no table for n.
	GetFrequencies(ctx context.Context, runID string, n int) (*domain.FrequencyTable, error)
}
