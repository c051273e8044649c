package driving

import (
	"context"

	"github.com/custodia-labs/energy-index/internal/core/domain"
)

// RunOrchestrator executes the full analysis of one corpus
type RunOrchestrator interface {
	// Run loads the corpus, renders frequency charts, builds and stores the index report
	Run(ctx context.Context, job domain.Job) (*domain.RunResult, error)
}

// ChartService renders the EIA state comparison charts
type ChartService interface {
	// RenderStateCharts renders one bar chart per dataset and returns the file paths
	RenderStateCharts(ctx context.Context) ([]string, error)
}

// ImportService copies corpus files into the bill store
type ImportService interface {
	// Import loads each job's file and replaces the stored bills of its corpus.
	// It returns the number of bills stored per corpus.
	Import(ctx context.Context, jobs []domain.Job) (map[string]int, error)
}
