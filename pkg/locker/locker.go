// Package locker provides mutual exclusion for background jobs that may run
// on several service instances at once.
package locker

import (
	"context"
	"time"
)

// Locker hands out expiring, non-blocking locks.
// Implementations must be safe for concurrent use.
//
// Typical usage:
//
//	acquired, err := l.Acquire(ctx, "popular:warmer", interval)
//	if err != nil || !acquired {
//	    return
//	}
//	// work; call Release only to end the hold early
type Locker interface {
	// Acquire tries once to take the lock. It returns false, nil when the
	// lock is held elsewhere. The lock expires after ttl unless released.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Release drops a lock taken by this Locker. Releasing a lock it does
	// not hold is a no-op.
	Release(ctx context.Context, key string) error
}
