package domain

// Backend names reported by RuntimeConfig
const (
	BackendNone     = "none"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// RuntimeConfig tracks which optional infrastructure is available.
// It is determined at startup and read-only afterwards.
type RuntimeConfig struct {
	CacheBackend string // "redis" or "memory"
	StoreBackend string // "postgres" or "none"
	LockBackend  string // "redis", "postgres" or "memory"
}

// NewRuntimeConfig derives backends from which connections were configured
func NewRuntimeConfig(redisAvailable, postgresAvailable bool) *RuntimeConfig {
	cfg := &RuntimeConfig{
		CacheBackend: BackendMemory,
		StoreBackend: BackendNone,
		LockBackend:  BackendMemory,
	}
	if postgresAvailable {
		cfg.StoreBackend = BackendPostgres
		cfg.LockBackend = BackendPostgres
	}
	if redisAvailable {
		cfg.CacheBackend = BackendRedis
		cfg.LockBackend = BackendRedis
	}
	return cfg
}

// PersistenceAvailable returns true if runs and reports are stored durably
func (c *RuntimeConfig) PersistenceAvailable() bool {
	return c.StoreBackend != BackendNone
}

// SharedCache returns true if cached reports are visible to other instances
func (c *RuntimeConfig) SharedCache() bool {
	return c.CacheBackend == BackendRedis
}
