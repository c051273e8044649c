package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/energy-index/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.DistributedLock = (*Lock)(nil)

type lease struct {
	token   string
	expires time.Time
}

// Lock is a process-local lock with expiry, used when no Redis or
// PostgreSQL is configured.
type Lock struct {
	mu     sync.Mutex
	leases map[string]lease
	now    func() time.Time
}

// NewLock creates a new in-memory lock.
func NewLock() *Lock {
	return &Lock{leases: make(map[string]lease), now: time.Now}
}

func (l *Lock) Acquire(ctx context.Context, name string, ttl time.Duration) (string, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if cur, held := l.leases[name]; held && now.Before(cur.expires) {
		return "", false, nil
	}
	token := uuid.NewString()
	l.leases[name] = lease{token: token, expires: now.Add(ttl)}
	return token, true, nil
}

func (l *Lock) Release(ctx context.Context, name, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if cur, held := l.leases[name]; held && cur.token == token {
		delete(l.leases, name)
	}
	return nil
}

func (l *Lock) Extend(ctx context.Context, name, token string, ttl time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cur, held := l.leases[name]
	if !held || cur.token != token || !now.Before(cur.expires) {
		return fmt.Errorf("lock %s not held", name)
	}
	l.leases[name] = lease{token: token, expires: now.Add(ttl)}
	return nil
}

func (l *Lock) Ping(ctx context.Context) error {
	return nil
}
