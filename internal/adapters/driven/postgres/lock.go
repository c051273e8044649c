package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/energy-index/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.DistributedLock = (*AdvisoryLock)(nil)

// AdvisoryLock implements DistributedLock with PostgreSQL session advisory locks.
//
// Advisory locks belong to a connection, so each held lock pins one
// connection from the pool until Release. The TTL is ignored: a lock lives
// until it is released or its connection drops. Extend only checks that the
// lock is still held.
type AdvisoryLock struct {
	db   *DB
	mu   sync.Mutex
	held map[string]heldLock
}

type heldLock struct {
	conn  *sql.Conn
	token string
}

// NewAdvisoryLock creates a new PostgreSQL advisory lock adapter.
func NewAdvisoryLock(db *DB) *AdvisoryLock {
	return &AdvisoryLock{db: db, held: make(map[string]heldLock)}
}

// LockKey maps a lock name to its 64-bit advisory lock key using FNV-1a.
func LockKey(name string) int64 {
	h := fnv.New64a()
	h.Write([]byte("energy-index:lock:" + name))
	return int64(h.Sum64())
}

// Acquire tries pg_try_advisory_lock without blocking.
func (l *AdvisoryLock) Acquire(ctx context.Context, name string, ttl time.Duration) (string, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, held := l.held[name]; held {
		return "", false, nil
	}

	conn, err := l.db.Conn(ctx)
	if err != nil {
		return "", false, fmt.Errorf("lock connection: %w", err)
	}

	var acquired bool
	if err := conn.QueryRowContext(ctx, "SELECT pg_try_advisory_lock($1)", LockKey(name)).Scan(&acquired); err != nil {
		conn.Close()
		return "", false, err
	}
	if !acquired {
		conn.Close()
		return "", false, nil
	}

	token := uuid.NewString()
	l.held[name] = heldLock{conn: conn, token: token}
	return token, true, nil
}

// Release unlocks on the pinned connection and returns it to the pool.
// Safe to call when the lock is not held under token.
func (l *AdvisoryLock) Release(ctx context.Context, name, token string) error {
	l.mu.Lock()
	h, held := l.held[name]
	if !held || h.token != token {
		l.mu.Unlock()
		return nil
	}
	delete(l.held, name)
	l.mu.Unlock()

	defer h.conn.Close()

	var released bool
	return h.conn.QueryRowContext(ctx, "SELECT pg_advisory_unlock($1)", LockKey(name)).Scan(&released)
}

// Extend verifies the lock is held under token. Advisory locks do not expire.
func (l *AdvisoryLock) Extend(ctx context.Context, name, token string, ttl time.Duration) error {
	l.mu.Lock()
	h, held := l.held[name]
	l.mu.Unlock()

	if !held || h.token != token {
		return fmt.Errorf("lock %s not held", name)
	}
	return h.conn.PingContext(ctx)
}

// Ping checks if the PostgreSQL backend is healthy.
func (l *AdvisoryLock) Ping(ctx context.Context) error {
	return l.db.PingContext(ctx)
}
