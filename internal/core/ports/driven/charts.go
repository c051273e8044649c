package driven

import (
	"context"
	"io"

	"github.com/custodia-labs/energy-index/internal/core/domain"
)

// StatsLoader reads a cleaned EIA state dataset
type StatsLoader interface {
	// Load returns the dataset for a metric.
	// Returns domain.ErrNotFound if the dataset file does not exist.
	Load(ctx context.Context, metric domain.StatMetric) (*domain.StatDataset, error)
}

// ChartRenderer renders chart images
type ChartRenderer interface {
	// RenderStateChart draws a bar chart comparing states for one dataset
	RenderStateChart(dataset *domain.StatDataset, w io.Writer) error

	// RenderFrequencyChart draws the n-grams of a frequency table by count
	RenderFrequencyChart(table *domain.FrequencyTable, w io.Writer) error
}

// ArtifactSink opens named output files for rendered artifacts
type ArtifactSink interface {
	// Create opens a writer for the named artifact. Closing the writer
	// commits the artifact; Abort discards it.
	Create(name string) (Artifact, error)
}

// Artifact is an output file being written
type Artifact interface {
	io.WriteCloser

	// Path returns where the artifact is stored once committed
	Path() string

	// Abort discards the artifact
	Abort() error
}
