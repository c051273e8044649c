package filesystem

import (
	"context"
	"fmt"

	"github.com/custodia-labs/energy-index/internal/core/domain"
	"github.com/custodia-labs/energy-index/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ReportWriter = (*ReportWriter)(nil)

// ReportWriter writes index tables as table_<corpus>.json.
type ReportWriter struct {
	sink *ArtifactDir
}

// NewReportWriter creates a report writer over an artifact directory.
func NewReportWriter(sink *ArtifactDir) *ReportWriter {
	return &ReportWriter{sink: sink}
}

// WriteReport writes the records as a bare JSON array and returns the path.
func (w *ReportWriter) WriteReport(ctx context.Context, report *domain.PolicyIndexReport) (string, error) {
	if report == nil || report.Corpus == "" {
		return "", fmt.Errorf("%w: report has no corpus", domain.ErrInvalidInput)
	}

	data, err := report.MarshalTable()
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	artifact, err := w.sink.Create(TableName(report.Corpus))
	if err != nil {
		return "", err
	}
	if _, err := artifact.Write(data); err != nil {
		_ = artifact.Abort()
		return "", fmt.Errorf("write report: %w", err)
	}
	if err := artifact.Close(); err != nil {
		return "", fmt.Errorf("commit report: %w", err)
	}

	return artifact.Path(), nil
}

// TableName returns the report file name for a corpus.
func TableName(corpus string) string {
	return "table_" + corpus + ".json"
}
