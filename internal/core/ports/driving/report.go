package driving

import (
	"context"

	"github.com/custodia-labs/energy-index/internal/core/domain"
)

// ReportService provides read-only access to the results of past runs
type ReportService interface {
	// GetReport retrieves the latest index report for a corpus
	GetReport(ctx context.Context, corpus string) (*domain.PolicyIndexReport, error)

	// GetFrequencies retrieves the latest n-gram table for a corpus, cut to top entries (0 = all)
	GetFrequencies(ctx context.Context, corpus string, n, top int) (*domain.FrequencyTable, error)

	// GetRun retrieves a persisted run by ID
	GetRun(ctx context.Context, id string) (*domain.Run, error)
}
