// Package kvx provides a small TTL'd key-value store used for ephemeral
// security state: login-attempt counters and email verification codes.
//
// The default driver is an in-memory map scoped to the process; a Redis
// driver exists for deployments that run more than one instance. Both apply
// expiry lazily on read, so behavior is testable without wall-clock waits.
package kvx

import (
	"context"
	"time"
)

// Store is a TTL'd key-value store. Implementations must be safe for
// concurrent use.
type Store interface {
	// Get returns the value for key, or ok=false when the key is absent or
	// its TTL has lapsed.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Set stores value under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// ExpireAt moves the expiry of an existing key. It is a no-op when the
	// key is absent.
	ExpireAt(ctx context.Context, key string, at time.Time) error
}
