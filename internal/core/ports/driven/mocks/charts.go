package mocks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/custodia-labs/energy-index/internal/core/domain"
	"github.com/custodia-labs/energy-index/internal/core/ports/driven"
)

var (
	_ driven.StatsLoader   = (*MockStatsLoader)(nil)
	_ driven.ChartRenderer = (*MockChartRenderer)(nil)
	_ driven.ArtifactSink  = (*MockArtifactSink)(nil)
)

// MockStatsLoader serves datasets by metric; unknown metrics are not found.
type MockStatsLoader struct {
	Datasets map[domain.StatMetric]*domain.StatDataset
	Errors   map[domain.StatMetric]error
}

// NewMockStatsLoader creates a loader serving the given datasets.
func NewMockStatsLoader(datasets ...*domain.StatDataset) *MockStatsLoader {
	m := &MockStatsLoader{
		Datasets: make(map[domain.StatMetric]*domain.StatDataset),
		Errors:   make(map[domain.StatMetric]error),
	}
	for _, d := range datasets {
		m.Datasets[d.Metric] = d
	}
	return m
}

func (m *MockStatsLoader) Load(ctx context.Context, metric domain.StatMetric) (*domain.StatDataset, error) {
	if err := m.Errors[metric]; err != nil {
		return nil, err
	}
	d, ok := m.Datasets[metric]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return d, nil
}

// MockChartRenderer writes a one-line description instead of an image.
type MockChartRenderer struct {
	mu     sync.Mutex
	Titles []string

	RenderErr error
}

// NewMockChartRenderer creates a new MockChartRenderer
func NewMockChartRenderer() *MockChartRenderer {
	return &MockChartRenderer{}
}

func (m *MockChartRenderer) RenderStateChart(dataset *domain.StatDataset, w io.Writer) error {
	if m.RenderErr != nil {
		return m.RenderErr
	}
	m.record(dataset.Metric.Title())
	_, err := fmt.Fprintf(w, "state chart %s: %d bars", dataset.Metric, len(dataset.Rows))
	return err
}

func (m *MockChartRenderer) RenderFrequencyChart(table *domain.FrequencyTable, w io.Writer) error {
	if m.RenderErr != nil {
		return m.RenderErr
	}
	m.record(fmt.Sprintf("%s %d-grams", table.Corpus, table.N))
	_, err := fmt.Fprintf(w, "frequency chart %s n=%d: %d bars", table.Corpus, table.N, len(table.Entries))
	return err
}

func (m *MockChartRenderer) record(title string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Titles = append(m.Titles, title)
}

// MockArtifactSink keeps committed artifacts in memory, keyed by name.
type MockArtifactSink struct {
	mu        sync.Mutex
	Committed map[string][]byte
	Aborted   []string

	CreateErr error
}

// NewMockArtifactSink creates a new MockArtifactSink
func NewMockArtifactSink() *MockArtifactSink {
	return &MockArtifactSink{Committed: make(map[string][]byte)}
}

func (m *MockArtifactSink) Create(name string) (driven.Artifact, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	return &mockArtifact{sink: m, name: name}, nil
}

// Names returns the committed artifact names.
func (m *MockArtifactSink) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.Committed))
	for n := range m.Committed {
		names = append(names, n)
	}
	return names
}

type mockArtifact struct {
	sink *MockArtifactSink
	name string
	buf  bytes.Buffer
	done bool
}

func (a *mockArtifact) Write(p []byte) (int, error) {
	if a.done {
		return 0, errors.New("artifact closed")
	}
	return a.buf.Write(p)
}

func (a *mockArtifact) Close() error {
	if a.done {
		return nil
	}
	a.done = true
	a.sink.mu.Lock()
	defer a.sink.mu.Unlock()
	a.sink.Committed[a.name] = a.buf.Bytes()
	return nil
}

func (a *mockArtifact) Abort() error {
	if a.done {
		return nil
	}
	a.done = true
	a.sink.mu.Lock()
	defer a.sink.mu.Unlock()
	a.sink.Aborted = append(a.sink.Aborted, a.name)
	return nil
}

func (a *mockArtifact) Path() string {
	return "out/" + a.name
}
