package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/energy-index/internal/core/domain"
	"github.com/custodia-labs/energy-index/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ReportCache = (*ReportCache)(nil)

const (
	reportPrefix    = "energy-index:report:"
	frequencyPrefix = "energy-index:freq:"
)

// ReportCache keeps the latest report and n-gram tables of each corpus as
// JSON values, so every API instance serves the same results.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration // 0 keeps entries until the next run overwrites them
}

// NewReportCache creates a new Redis-backed ReportCache.
func NewReportCache(client *redis.Client, ttl time.Duration) *ReportCache {
	return &ReportCache{client: client, ttl: ttl}
}

// SaveReport stores the report under its corpus.
func (c *ReportCache) SaveReport(ctx context.Context, report *domain.PolicyIndexReport) error {
	return c.set(ctx, reportPrefix+report.Corpus, report)
}

// GetReport loads the latest report of a corpus.
func (c *ReportCache) GetReport(ctx context.Context, corpus string) (*domain.PolicyIndexReport, error) {
	var report domain.PolicyIndexReport
	if err := c.get(ctx, reportPrefix+corpus, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// SaveFrequencies stores a table under its corpus and n.
func (c *ReportCache) SaveFrequencies(ctx context.Context, table *domain.FrequencyTable) error {
	return c.set(ctx, frequencyKey(table.Corpus, table.N), table)
}

// GetFrequencies loads the table of a corpus for n.
func (c *ReportCache) GetFrequencies(ctx context.Context, corpus string, n int) (*domain.FrequencyTable, error) {
	var table domain.FrequencyTable
	if err := c.get(ctx, frequencyKey(corpus, n), &table); err != nil {
		return nil, err
	}
	return &table, nil
}

// Ping checks if Redis is reachable.
func (c *ReportCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *ReportCache) set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

func (c *ReportCache) get(ctx context.Context, key string, v any) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return nil
}

func frequencyKey(corpus string, n int) string {
	return frequencyPrefix + corpus + ":" + strconv.Itoa(n)
}
