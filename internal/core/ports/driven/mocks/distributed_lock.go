package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/energy-index/internal/core/ports/driven"
)

var _ driven.DistributedLock = (*MockDistributedLock)(nil)

type mockLease struct {
	token   string
	expires time.Time
}

// MockDistributedLock is an in-memory DistributedLock for testing.
// Locks expire after their TTL; AcquireErr forces Acquire to fail.
type MockDistributedLock struct {
	mu       sync.Mutex
	leases   map[string]mockLease
	seq      int
	released []string
	extends  int

	AcquireErr error
	ExtendErr  error
	PingErr    error
}

// NewMockDistributedLock creates a new mock distributed lock.
func NewMockDistributedLock() *MockDistributedLock {
	return &MockDistributedLock{leases: make(map[string]mockLease)}
}

func (m *MockDistributedLock) Acquire(ctx context.Context, name string, ttl time.Duration) (string, bool, error) {
	if m.AcquireErr != nil {
		return "", false, m.AcquireErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if l, ok := m.leases[name]; ok && time.Now().Before(l.expires) {
		return "", false, nil
	}
	m.seq++
	token := fmt.Sprintf("token-%d", m.seq)
	m.leases[name] = mockLease{token: token, expires: time.Now().Add(ttl)}
	return token, true, nil
}

func (m *MockDistributedLock) Release(ctx context.Context, name, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if l, ok := m.leases[name]; ok && l.token == token {
		delete(m.leases, name)
	}
	m.released = append(m.released, name)
	return nil
}

func (m *MockDistributedLock) Extend(ctx context.Context, name, token string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.extends++
	if m.ExtendErr != nil {
		return m.ExtendErr
	}
	l, ok := m.leases[name]
	if !ok || l.token != token || time.Now().After(l.expires) {
		return fmt.Errorf("lock %s not held", name)
	}
	m.leases[name] = mockLease{token: token, expires: time.Now().Add(ttl)}
	return nil
}

func (m *MockDistributedLock) Ping(ctx context.Context) error {
	return m.PingErr
}

// Hold marks a lock as held by another instance.
func (m *MockDistributedLock) Hold(name string, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leases[name] = mockLease{token: "held-elsewhere", expires: time.Now().Add(ttl)}
}

// IsHeld reports whether a lock is currently held.
func (m *MockDistributedLock) IsHeld(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.leases[name]
	return ok && time.Now().Before(l.expires)
}

// Released returns the lock names released so far, in order.
func (m *MockDistributedLock) Released() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.released...)
}

// Extends returns how many times Extend was called.
func (m *MockDistributedLock) Extends() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.extends
}
