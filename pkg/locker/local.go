package locker

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// LocalLocker implements Locker inside one process. It is used when no Redis
// server is configured and only a single instance runs.
type LocalLocker struct {
	locks  *gocache.Cache
	logger *zap.Logger
}

// NewLocalLocker creates a LocalLocker.
func NewLocalLocker(logger *zap.Logger) *LocalLocker {
	return &LocalLocker{
		locks:  gocache.New(gocache.NoExpiration, time.Minute),
		logger: logger,
	}
}

// Acquire implements Locker.
func (l *LocalLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	// Add fails while an unexpired entry exists.
	if err := l.locks.Add(key, struct{}{}, ttl); err != nil {
		l.logger.Debug("lock held", zap.String("key", key))
		return false, nil
	}

	l.logger.Debug("lock acquired", zap.String("key", key), zap.Duration("ttl", ttl))

	return true, nil
}

// Release implements Locker.
func (l *LocalLocker) Release(_ context.Context, key string) error {
	l.locks.Delete(key)
	return nil
}
