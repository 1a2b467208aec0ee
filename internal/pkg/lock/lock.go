// Package lock provides short-lived mutual exclusion keyed by string.
package lock

import (
	"context"
	"errors"
	"time"
)

// ErrNotAcquired is returned when the key is already held by someone else.
var ErrNotAcquired = errors.New("lock: already held")

// Locker acquires exclusive leases on keys.
type Locker interface {
	// Acquire takes the lease on key for at most ttl. The returned func
	// releases it; releasing an expired or stolen lease is a no-op.
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, err error)
}
