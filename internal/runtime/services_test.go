package runtime

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/energy-index/internal/adapters/driven/memory"
	redisadapter "github.com/custodia-labs/energy-index/internal/adapters/driven/redis"
	"github.com/custodia-labs/energy-index/internal/core/domain"
)

func TestConnect_NothingConfigured(t *testing.T) {
	ctx := context.Background()

	s, err := Connect(ctx, Options{})
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, domain.BackendMemory, s.Config().CacheBackend)
	assert.Equal(t, domain.BackendNone, s.Config().StoreBackend)
	assert.False(t, s.Config().PersistenceAvailable())

	assert.IsType(t, &memory.ReportCache{}, s.Cache())
	assert.IsType(t, &memory.Lock{}, s.Lock())
	assert.Nil(t, s.RunStore())
	assert.Nil(t, s.BillStore())
	assert.Empty(t, s.Pingers())
}

func TestConnect_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	s, err := Connect(ctx, Options{RedisURL: "redis://" + mr.Addr(), CacheTTL: time.Hour})
	require.NoError(t, err)

	assert.Equal(t, domain.BackendRedis, s.Config().CacheBackend)
	assert.Equal(t, domain.BackendRedis, s.Config().LockBackend)
	assert.IsType(t, &redisadapter.ReportCache{}, s.Cache())
	assert.IsType(t, &redisadapter.Lock{}, s.Lock())
	assert.Contains(t, s.Pingers(), domain.BackendRedis)

	// Cache writes land in Redis with the configured TTL
	report := domain.NewPolicyIndexReport("texas", nil, 0, 0)
	require.NoError(t, s.Cache().SaveReport(ctx, report))
	assert.Equal(t, time.Hour, mr.TTL("energy-index:report:texas"))

	pinger := s.Pingers()[domain.BackendRedis]
	require.NoError(t, pinger.Ping(ctx))

	mr.Close()
	assert.Error(t, pinger.Ping(ctx))

	require.NoError(t, s.Close())
	assert.NoError(t, s.Close(), "second close is a no-op")
}

func TestConnect_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := Connect(context.Background(), Options{RedisURL: "redis://" + addr})
	assert.ErrorContains(t, err, "failed to connect to Redis")
}

func TestConnect_BadRedisURL(t *testing.T) {
	_, err := Connect(context.Background(), Options{RedisURL: "://nope"})
	assert.ErrorContains(t, err, "failed to parse Redis URL")
}

func TestServices_PingersIsCopy(t *testing.T) {
	mr := miniredis.RunT(t)

	s, err := Connect(context.Background(), Options{RedisURL: "redis://" + mr.Addr()})
	require.NoError(t, err)
	defer s.Close()

	p := s.Pingers()
	delete(p, domain.BackendRedis)
	assert.Contains(t, s.Pingers(), domain.BackendRedis)
}
