// Package memory provides single-instance fallbacks for the Redis adapters.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/energy-index/internal/core/domain"
	"github.com/custodia-labs/energy-index/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ReportCache = (*ReportCache)(nil)

// ReportCache holds the latest results in process memory.
// Stored values are shared, so callers must treat them as read-only.
type ReportCache struct {
	mu          sync.RWMutex
	reports     map[string]*domain.PolicyIndexReport
	frequencies map[string]*domain.FrequencyTable
}

// NewReportCache creates an empty cache.
func NewReportCache() *ReportCache {
	return &ReportCache{
		reports:     make(map[string]*domain.PolicyIndexReport),
		frequencies: make(map[string]*domain.FrequencyTable),
	}
}

func (c *ReportCache) SaveReport(ctx context.Context, report *domain.PolicyIndexReport) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reports[report.Corpus] = report
	return nil
}

func (c *ReportCache) GetReport(ctx context.Context, corpus string) (*domain.PolicyIndexReport, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if r, ok := c.reports[corpus]; ok {
		return r, nil
	}
	return nil, domain.ErrNotFound
}

func (c *ReportCache) SaveFrequencies(ctx context.Context, table *domain.FrequencyTable) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frequencies[tableKey(table.Corpus, table.N)] = table
	return nil
}

func (c *ReportCache) GetFrequencies(ctx context.Context, corpus string, n int) (*domain.FrequencyTable, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if t, ok := c.frequencies[tableKey(corpus, n)]; ok {
		return t, nil
	}
	return nil, domain.ErrNotFound
}

func (c *ReportCache) Ping(ctx context.Context) error {
	return nil
}

func tableKey(corpus string, n int) string {
	return fmt.Sprintf("%s:%d", corpus, n)
}
