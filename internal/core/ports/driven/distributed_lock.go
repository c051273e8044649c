package driven

import (
	"context"
	"time"
)

// DistributedLock guards a corpus run so that two instances (or an API
// trigger and a scheduled batch) never analyse the same corpus at once.
//
// Every successful Acquire returns a fresh token. Release and Extend only
// act on the lock while it still carries that token, so a holder whose lock
// lapsed cannot free or prolong the lock of whoever took it next.
type DistributedLock interface {
	// Acquire takes the named lock without blocking. ok is false when
	// another holder has it. The lock lapses after ttl if never released.
	Acquire(ctx context.Context, name string, ttl time.Duration) (token string, ok bool, err error)

	// Release drops the lock if it is still held under token.
	// Releasing a lock that is not held, or held by someone else, is a no-op.
	Release(ctx context.Context, name, token string) error

	// Extend pushes the expiry of a lock held under token out to ttl from now.
	// Backends without expiry only confirm the lock is still held.
	Extend(ctx context.Context, name, token string, ttl time.Duration) error

	Ping(ctx context.Context) error
}
