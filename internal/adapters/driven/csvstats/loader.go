// Package csvstats loads the cleaned EIA state tables.
package csvstats

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/custodia-labs/energy-index/internal/core/domain"
	"github.com/custodia-labs/energy-index/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.StatsLoader = (*Loader)(nil)

// Loader reads cleaned_<metric>.txt files from a directory.
//
// Each file is a CSV with a header row holding "State" and "Rank" columns
// plus two numeric columns at positions 2 and 3: the metric itself and the
// state's share of the U.S. total.
type Loader struct {
	dir string
}

// NewLoader creates a loader reading from dir.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// Path returns the file read for a metric.
func (l *Loader) Path(metric domain.StatMetric) string {
	return filepath.Join(l.dir, "cleaned_"+string(metric)+".txt")
}

// Load reads the dataset for a metric.
func (l *Loader) Load(ctx context.Context, metric domain.StatMetric) (*domain.StatDataset, error) {
	path := l.Path(metric)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	ds, err := Parse(ctx, metric, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// Parse decodes a cleaned EIA table.
// Emissions and production plot the share column and show the metric
// alongside; the other datasets plot the metric.
func Parse(ctx context.Context, metric domain.StatMetric, r io.Reader) (*domain.StatDataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", domain.ErrInvalidInput, err)
	}
	if len(header) < 4 {
		return nil, fmt.Errorf("%w: expected at least 4 columns, got %d", domain.ErrInvalidInput, len(header))
	}

	stateCol, rankCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "state":
			stateCol = i
		case "rank":
			rankCol = i
		}
	}
	if stateCol < 0 || rankCol < 0 {
		return nil, fmt.Errorf("%w: header needs State and Rank columns", domain.ErrInvalidInput)
	}

	valueCol, extraCol := 2, 3
	if metric == domain.StatMetricEmissions || metric == domain.StatMetricProduction {
		valueCol, extraCol = 3, 2
	}

	ds := &domain.StatDataset{
		Metric:     metric,
		ValueLabel: strings.TrimSpace(header[valueCol]),
		ExtraLabel: strings.TrimSpace(header[extraCol]),
	}

	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}

		row, err := parseRow(rec, stateCol, rankCol, valueCol, extraCol)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", domain.ErrInvalidInput, line, err)
		}
		ds.Rows = append(ds.Rows, row)
	}

	return ds, nil
}

func parseRow(rec []string, stateCol, rankCol, valueCol, extraCol int) (domain.StateStat, error) {
	state := strings.TrimSpace(rec[stateCol])
	if state == "" {
		return domain.StateStat{}, errors.New("empty state")
	}
	rank, err := strconv.Atoi(strings.TrimSpace(rec[rankCol]))
	if err != nil {
		return domain.StateStat{}, fmt.Errorf("rank: %w", err)
	}
	value, err := parseNumber(rec[valueCol])
	if err != nil {
		return domain.StateStat{}, fmt.Errorf("value: %w", err)
	}
	extra, err := parseNumber(rec[extraCol])
	if err != nil {
		return domain.StateStat{}, fmt.Errorf("extra: %w", err)
	}
	return domain.StateStat{State: state, Rank: rank, Value: value, Extra: extra}, nil
}

// parseNumber accepts EIA formatting such as "1,234.5", "$4,021" and "12.3%".
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer(",", "", "$", "", "%", "").Replace(s)
	return strconv.ParseFloat(s, 64)
}
