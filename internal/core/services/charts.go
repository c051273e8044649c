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

// Ensure chartService implements ChartService
var _ driving.ChartService = (*chartService)(nil)

// chartService renders the EIA state comparison charts.
type chartService struct {
	loader   driven.StatsLoader
	renderer driven.ChartRenderer
	sink     driven.ArtifactSink
	metrics  []domain.StatMetric
	logger   *slog.Logger
}

// NewChartService creates a new ChartService rendering every EIA dataset.
func NewChartService(loader driven.StatsLoader, renderer driven.ChartRenderer, sink driven.ArtifactSink, logger *slog.Logger) driving.ChartService {
	if logger == nil {
		logger = slog.Default()
	}
	return &chartService{
		loader:   loader,
		renderer: renderer,
		sink:     sink,
		metrics:  domain.AllStatMetrics(),
		logger:   logger,
	}
}

// RenderStateCharts renders one bar chart per dataset and returns the file paths.
// Missing or empty datasets are skipped with a warning.
func (s *chartService) RenderStateCharts(ctx context.Context) ([]string, error) {
	var paths []string

	for _, metric := range s.metrics {
		if err := ctx.Err(); err != nil {
			return paths, err
		}

		dataset, err := s.loader.Load(ctx, metric)
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("dataset not found, skipping chart", "metric", metric)
			continue
		}
		if err != nil {
			return paths, fmt.Errorf("failed to load %s dataset: %w", metric, err)
		}
		if len(dataset.Rows) == 0 {
			s.logger.Warn("dataset is empty, skipping chart", "metric", metric)
			continue
		}

		path, err := s.render(dataset)
		if err != nil {
			return paths, fmt.Errorf("failed to render %s chart: %w", metric, err)
		}

		s.logger.Info("chart rendered", "metric", metric, "states", len(dataset.Rows), "path", path)
		paths = append(paths, path)
	}

	return paths, nil
}

func (s *chartService) render(dataset *domain.StatDataset) (string, error) {
	artifact, err := s.sink.Create(StateChartName(dataset.Metric))
	if err != nil {
		return "", err
	}
	if err := s.renderer.RenderStateChart(dataset, artifact); err != nil {
		_ = artifact.Abort()
		return "", err
	}
	if err := artifact.Close(); err != nil {
		return "", err
	}
	return artifact.Path(), nil
}

// StateChartName returns the artifact name of an EIA chart, e.g. emissions_graph.png.
func StateChartName(metric domain.StatMetric) string {
	return string(metric) + "_graph.png"
}
