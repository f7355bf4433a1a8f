// Package job provides background job schedulers.
package job

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"movie-search-service/internal/domain"
	"movie-search-service/pkg/locker"
)

const warmerLockKey = "popular:warmer"

// PopularRefresher recomputes and caches one popular list.
// Implementations: service.PopularService
type PopularRefresher interface {
	Refresh(ctx context.Context, filters domain.PopularFilters) (*domain.PopularResult, error)
}

// WarmerConfig holds warmer configuration.
type WarmerConfig struct {
	Interval  time.Duration
	Timeout   time.Duration // per run, shared by all presets
	OnStartup bool
	Presets   []domain.PopularFilters
}

// PopularWarmer periodically refreshes the cached popular lists for a fixed
// set of filter presets, so visitors rarely pay for the upstream fan-out.
// A lock keeps concurrent instances from warming at the same time.
type PopularWarmer struct {
	refresher PopularRefresher
	cfg       WarmerConfig
	locker    locker.Locker
	logger    *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewPopularWarmer creates a new PopularWarmer. An empty preset list warms
// the unfiltered list only.
func NewPopularWarmer(
	refresher PopularRefresher,
	cfg WarmerConfig,
	l locker.Locker,
	logger *zap.Logger,
) *PopularWarmer {
	if len(cfg.Presets) == 0 {
		cfg.Presets = []domain.PopularFilters{{}}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = cfg.Interval
	}

	return &PopularWarmer{
		refresher: refresher,
		cfg:       cfg,
		locker:    l,
		logger:    logger,
	}
}

// Start begins the background loop.
func (w *PopularWarmer) Start() {
	w.ctx, w.cancel = context.WithCancel(context.Background())

	w.logger.Info("starting popular warmer",
		zap.Duration("interval", w.cfg.Interval),
		zap.Int("presets", len(w.cfg.Presets)),
		zap.Bool("run_on_startup", w.cfg.OnStartup),
	)

	w.wg.Add(1)
	go w.run()
}

// Stop cancels the loop and waits for an in-flight run to finish.
// It is a no-op on a nil or never-started warmer.
func (w *PopularWarmer) Stop() {
	if w == nil || w.cancel == nil {
		return
	}

	w.logger.Info("stopping popular warmer")
	w.cancel()
	w.wg.Wait()
	w.logger.Info("popular warmer stopped")
}

func (w *PopularWarmer) run() {
	defer w.wg.Done()

	if w.cfg.OnStartup {
		w.execute(w.ctx)
	}

	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.execute(w.ctx)
		}
	}
}

// execute refreshes every preset under the warmer lock.
//
// The lock TTL equals the interval: after a clean run it is left to expire so
// no instance warms again before the next tick. Any failed preset releases it
// at once so another instance may retry.
func (w *PopularWarmer) execute(parent context.Context) {
	acquired, err := w.locker.Acquire(parent, warmerLockKey, w.cfg.Interval)
	if err != nil {
		w.logger.Error("failed to acquire warmer lock", zap.Error(err))
		return
	}
	if !acquired {
		w.logger.Debug("popular lists are being warmed elsewhere, skipping")
		return
	}

	ctx, cancel := context.WithTimeout(parent, w.cfg.Timeout)
	defer cancel()

	start := time.Now()
	warmed, failed := 0, 0
	for _, preset := range w.cfg.Presets {
		if ctx.Err() != nil {
			failed += len(w.cfg.Presets) - warmed - failed
			break
		}

		result, err := w.refresher.Refresh(ctx, preset)
		if err != nil {
			failed++
			w.logger.Warn("popular preset refresh failed",
				zap.String("key", preset.CacheKey()),
				zap.Error(err),
			)
			continue
		}

		warmed++
		w.logger.Debug("popular preset warmed",
			zap.String("key", preset.CacheKey()),
			zap.Int("count", result.Total()),
		)
	}

	if failed > 0 {
		if err := w.locker.Release(context.WithoutCancel(parent), warmerLockKey); err != nil {
			w.logger.Error("failed to release warmer lock", zap.Error(err))
		}
		w.logger.Info("popular warm-up finished with failures, lock released",
			zap.Int("warmed", warmed),
			zap.Int("failed", failed),
			zap.Duration("duration", time.Since(start)),
		)
		return
	}

	w.logger.Info("popular warm-up finished, lock held for cooldown",
		zap.Int("warmed", warmed),
		zap.Duration("cooldown", w.cfg.Interval),
		zap.Duration("duration", time.Since(start)),
	)
}
