// Package runtime connects the optional infrastructure and picks the
// adapters each port runs on.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/energy-index/internal/adapters/driven/memory"
	"github.com/custodia-labs/energy-index/internal/adapters/driven/postgres"
	redisadapter "github.com/custodia-labs/energy-index/internal/adapters/driven/redis"
	"github.com/custodia-labs/energy-index/internal/core/domain"
	"github.com/custodia-labs/energy-index/internal/core/ports/driven"
)

// Options selects which backends to connect. Empty URLs disable a backend.
type Options struct {
	DatabaseURL     string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	InitSchema      bool

	RedisURL string
	CacheTTL time.Duration

	Logger *slog.Logger
}

// Pinger is a backend health check
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services holds the adapters chosen at startup.
// Read-only after Connect; Close is safe to call more than once.
type Services struct {
	config *domain.RuntimeConfig

	cache     driven.ReportCache
	lock      driven.DistributedLock
	runStore  driven.RunStore  // nil without PostgreSQL
	billStore driven.BillStore // nil without PostgreSQL
	pingers   map[string]Pinger

	mu      sync.Mutex
	closers []func() error
}

// Connect opens the configured connections. Redis takes the cache and the
// lock; PostgreSQL takes runs and bills, and the lock when Redis is absent.
// Without either, in-memory adapters are used.
func Connect(ctx context.Context, opts Options) (*Services, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Services{
		config:  domain.NewRuntimeConfig(opts.RedisURL != "", opts.DatabaseURL != ""),
		pingers: make(map[string]Pinger),
	}

	// PostgreSQL
	var db *postgres.DB
	if opts.DatabaseURL != "" {
		cfg := postgres.DefaultConfig(opts.DatabaseURL)
		if opts.MaxOpenConns > 0 {
			cfg.MaxOpenConns = opts.MaxOpenConns
		}
		if opts.MaxIdleConns > 0 {
			cfg.MaxIdleConns = opts.MaxIdleConns
		}
		if opts.ConnMaxLifetime > 0 {
			cfg.ConnMaxLifetime = opts.ConnMaxLifetime
		}
		if opts.ConnMaxIdleTime > 0 {
			cfg.ConnMaxIdleTime = opts.ConnMaxIdleTime
		}

		var err error
		db, err = postgres.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		s.addCloser(db.Close)

		if opts.InitSchema {
			if err := db.InitSchema(ctx); err != nil {
				_ = s.Close()
				return nil, err
			}
		}

		s.runStore = postgres.NewRunStore(db)
		s.billStore = postgres.NewBillStore(db)
		s.pingers[domain.BackendPostgres] = db
		logger.Info("postgres connected", "schema_initialized", opts.InitSchema)
	}

	// Redis
	var client *redis.Client
	if opts.RedisURL != "" {
		redisOpts, err := redis.ParseURL(opts.RedisURL)
		if err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		client = redis.NewClient(redisOpts)
		s.addCloser(client.Close)

		if err := client.Ping(ctx).Err(); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		s.pingers[domain.BackendRedis] = redisadapter.NewReportCache(client, opts.CacheTTL)
		logger.Info("redis connected")
	}

	switch s.config.CacheBackend {
	case domain.BackendRedis:
		s.cache = redisadapter.NewReportCache(client, opts.CacheTTL)
	default:
		s.cache = memory.NewReportCache()
	}

	switch s.config.LockBackend {
	case domain.BackendRedis:
		s.lock = redisadapter.NewLock(client)
	case domain.BackendPostgres:
		s.lock = postgres.NewAdvisoryLock(db)
	default:
		s.lock = memory.NewLock()
	}

	logger.Info("runtime backends",
		"cache", s.config.CacheBackend,
		"store", s.config.StoreBackend,
		"lock", s.config.LockBackend)

	return s, nil
}

// Config returns the runtime configuration
func (s *Services) Config() *domain.RuntimeConfig {
	return s.config
}

// Cache returns the report cache
func (s *Services) Cache() driven.ReportCache {
	return s.cache
}

// Lock returns the run lock
func (s *Services) Lock() driven.DistributedLock {
	return s.lock
}

// RunStore returns the run store, or nil when runs are not persisted
func (s *Services) RunStore() driven.RunStore {
	return s.runStore
}

// BillStore returns the bill store, or nil without PostgreSQL
func (s *Services) BillStore() driven.BillStore {
	return s.billStore
}

// Pingers returns a health check per connected backend
func (s *Services) Pingers() map[string]Pinger {
	out := make(map[string]Pinger, len(s.pingers))
	for name, p := range s.pingers {
		out[name] = p
	}
	return out
}

// Close closes connections in reverse order of opening
func (s *Services) Close() error {
	s.mu.Lock()
	closers := s.closers
	s.closers = nil
	s.mu.Unlock()

	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Services) addCloser(fn func() error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closers = append(s.closers, fn)
}
