package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/energy-index/internal/core/domain"
	"github.com/custodia-labs/energy-index/internal/core/ports/driven"
)

var (
	_ driven.CorpusLoader = (*MockCorpusLoader)(nil)
	_ driven.ReportWriter = (*MockReportWriter)(nil)
	_ driven.ReportCache  = (*MockReportCache)(nil)
	_ driven.RunStore     = (*MockRunStore)(nil)
	_ driven.BillStore    = (*MockBillStore)(nil)
)

// MockCorpusLoader returns corpora registered by name.
type MockCorpusLoader struct {
	mu      sync.Mutex
	corpora map[string]*domain.Corpus
	jobs    []domain.Job

	LoadErr error
}

// NewMockCorpusLoader creates a loader serving the given corpora.
func NewMockCorpusLoader(corpora ...*domain.Corpus) *MockCorpusLoader {
	m := &MockCorpusLoader{corpora: make(map[string]*domain.Corpus)}
	for _, c := range corpora {
		m.corpora[c.Name] = c
	}
	return m
}

func (m *MockCorpusLoader) Load(ctx context.Context, job domain.Job) (*domain.Corpus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.jobs = append(m.jobs, job)
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	c, ok := m.corpora[job.Corpus]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

// Jobs returns the jobs passed to Load.
func (m *MockCorpusLoader) Jobs() []domain.Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Job(nil), m.jobs...)
}

// MockReportWriter keeps written reports in memory.
type MockReportWriter struct {
	mu      sync.Mutex
	Reports map[string]*domain.PolicyIndexReport

	WriteErr error
}

// NewMockReportWriter creates a new MockReportWriter
func NewMockReportWriter() *MockReportWriter {
	return &MockReportWriter{Reports: make(map[string]*domain.PolicyIndexReport)}
}

func (m *MockReportWriter) WriteReport(ctx context.Context, report *domain.PolicyIndexReport) (string, error) {
	if m.WriteErr != nil {
		return "", m.WriteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	path := fmt.Sprintf("out/table_%s.json", report.Corpus)
	m.Reports[path] = report
	return path, nil
}

// MockReportCache is an in-memory ReportCache.
type MockReportCache struct {
	mu          sync.Mutex
	reports     map[string]*domain.PolicyIndexReport
	frequencies map[string]*domain.FrequencyTable

	GetErr  error
	SaveErr error
}

// NewMockReportCache creates a new MockReportCache
func NewMockReportCache() *MockReportCache {
	return &MockReportCache{
		reports:     make(map[string]*domain.PolicyIndexReport),
		frequencies: make(map[string]*domain.FrequencyTable),
	}
}

func (m *MockReportCache) SaveReport(ctx context.Context, report *domain.PolicyIndexReport) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports[report.Corpus] = report
	return nil
}

func (m *MockReportCache) GetReport(ctx context.Context, corpus string) (*domain.PolicyIndexReport, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reports[corpus]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

func (m *MockReportCache) SaveFrequencies(ctx context.Context, table *domain.FrequencyTable) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frequencies[frequencyKey(table.Corpus, table.N)] = table
	return nil
}

func (m *MockReportCache) GetFrequencies(ctx context.Context, corpus string, n int) (*domain.FrequencyTable, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.frequencies[frequencyKey(corpus, n)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

func (m *MockReportCache) Ping(ctx context.Context) error {
	return nil
}

func frequencyKey(corpus string, n int) string {
	return fmt.Sprintf("%s/%d", corpus, n)
}

// MockRunStore is an in-memory RunStore.
type MockRunStore struct {
	mu      sync.Mutex
	runs    map[string]*domain.Run
	order   []string
	records map[string][]domain.IndexRecord
	tables  map[string]*domain.FrequencyTable

	// Statuses records every status passed to SaveRun, in order
	Statuses []domain.RunStatus

	SaveRecordsErr     error
	SaveFrequenciesErr error
}

// NewMockRunStore creates a new MockRunStore
func NewMockRunStore() *MockRunStore {
	return &MockRunStore{
		runs:    make(map[string]*domain.Run),
		records: make(map[string][]domain.IndexRecord),
		tables:  make(map[string]*domain.FrequencyTable),
	}
}

func (m *MockRunStore) SaveRun(ctx context.Context, run *domain.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.runs[run.ID]; !ok {
		m.order = append(m.order, run.ID)
	}
	cp := *run
	m.runs[run.ID] = &cp
	m.Statuses = append(m.Statuses, run.Status)
	return nil
}

func (m *MockRunStore) SaveRecords(ctx context.Context, runID string, records []domain.IndexRecord) error {
	if m.SaveRecordsErr != nil {
		return m.SaveRecordsErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[runID] = append([]domain.IndexRecord(nil), records...)
	return nil
}

func (m *MockRunStore) SaveFrequencies(ctx context.Context, runID string, tables []*domain.FrequencyTable) error {
	if m.SaveFrequenciesErr != nil {
		return m.SaveFrequenciesErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range tables {
		m.tables[frequencyKey(runID, t.N)] = t
	}
	return nil
}

func (m *MockRunStore) GetFrequencies(ctx context.Context, runID string, n int) (*domain.FrequencyTable, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tables[frequencyKey(runID, n)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

func (m *MockRunStore) GetRun(ctx context.Context, id string) (*domain.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.runs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

func (m *MockRunStore) LatestRun(ctx context.Context, corpus string) (*domain.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.order) - 1; i >= 0; i-- {
		r := m.runs[m.order[i]]
		if r.Corpus == corpus && r.Status == domain.RunStatusCompleted {
			return r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockRunStore) GetRecords(ctx context.Context, runID string) ([]domain.IndexRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	recs, ok := m.records[runID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return recs, nil
}

// MockBillStore is an in-memory BillStore.
type MockBillStore struct {
	mu      sync.Mutex
	corpora map[string]*domain.Corpus

	SaveErr error
}

// NewMockBillStore creates a new MockBillStore
func NewMockBillStore() *MockBillStore {
	return &MockBillStore{corpora: make(map[string]*domain.Corpus)}
}

func (m *MockBillStore) Load(ctx context.Context, job domain.Job) (*domain.Corpus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.corpora[job.Corpus]
	if !ok {
		return domain.NewCorpus(job.Corpus, nil), nil
	}
	return domain.NewCorpus(job.Corpus, append([]*domain.Bill(nil), c.Bills...)), nil
}

func (m *MockBillStore) SaveCorpus(ctx context.Context, corpus *domain.Corpus) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.corpora[corpus.Name] = domain.NewCorpus(corpus.Name, append([]*domain.Bill(nil), corpus.Bills...))
	return nil
}

func (m *MockBillStore) Count(ctx context.Context, corpus string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.corpora[corpus].Len(), nil
}
