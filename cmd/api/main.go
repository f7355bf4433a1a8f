// Package main is the entry point for the movie-search-service API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"movie-search-service/internal/app/service"
	"movie-search-service/internal/config"
	"movie-search-service/internal/domain"
	"movie-search-service/internal/infra/memory"
	"movie-search-service/internal/infra/provider/registry"
	rediscache "movie-search-service/internal/infra/redis"
	"movie-search-service/internal/job"
	"movie-search-service/internal/logger"
	"movie-search-service/internal/transport/httpserver"
	"movie-search-service/internal/transport/httpserver/handler"
	"movie-search-service/internal/transport/httpserver/middleware"
	"movie-search-service/internal/validator"
	"movie-search-service/pkg/locker"
)

func main() {
	// Load configuration
	cfg, err := config.Load(os.Getenv("APP_CONFIG_FILE"))
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(
		logger.Config{
			Service: cfg.App.Name,
			Level:   cfg.Logger.Level,
			Format:  cfg.Logger.Format,
			Output:  cfg.Logger.Output,
		},
		logger.SentryConfig{
			Enabled:     cfg.Sentry.Enabled,
			DSN:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			SampleRate:  cfg.Sentry.SampleRate,
		},
	)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting movie-search-service",
		zap.String("env", cfg.App.Env),
		zap.Int("port", cfg.App.Port),
		zap.String("cache_driver", cfg.Cache.Driver),
	)

	// Connect to Redis
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisClient.Ping(ctx).Err()
		cancel()
		if err != nil {
			log.Fatal("failed to connect to Redis", zap.Error(err))
		}
		defer func() { _ = redisClient.Close() }()

		log.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr()))
	}

	// Response cache
	var (
		cache domain.Cache
		ready []middleware.Pinger
	)
	switch cfg.Cache.Driver {
	case config.CacheDriverRedis:
		redisCache := rediscache.NewCache(redisClient, log.Named("cache").Logger, cfg.Cache.KeyPrefix)
		cache, ready = redisCache, append(ready, redisCache)
	case config.CacheDriverMemory:
		cache = memory.NewCache(cfg.Cache.PopularTTL, cfg.Cache.CleanupInterval, log.Named("cache").Logger)
	default:
		log.Info("cache disabled")
	}

	ttl := service.CacheTTLs{
		Search:  cfg.Cache.SearchTTL,
		Detail:  cfg.Cache.DetailTTL,
		Popular: cfg.Cache.PopularTTL,
	}

	// Create services
	omdbClient := registry.NewMovieProvider(cfg.OMDB, log.Logger)
	movieSvc := service.NewMovieService(omdbClient, cache, ttl, log.Logger)
	popularSvc := service.NewPopularService(movieSvc, cache, ttl.Popular, popularConfig(cfg.Popular), log.Logger)
	log.Info("movie provider configured",
		zap.String("provider", movieSvc.ProviderName()),
		zap.String("base_url", cfg.OMDB.BaseURL),
		zap.Bool("parallel_search", cfg.Popular.ParallelSearch),
	)

	// Create validator
	v := validator.New()

	// Create HTTP server
	server := httpserver.NewServer(
		httpserver.ServerConfig{
			AppName:      cfg.App.Name,
			BodyLimit:    1024 * 1024, // 1MB
			Debug:        cfg.App.Debug,
			TemplatesDir: cfg.App.TemplatesDir,
			StaticDir:    cfg.App.StaticDir,
			CORSOrigins:  cfg.App.CORSOrigins,
			Pages: handler.PageConfig{
				MinQueryLength: cfg.UI.MinQueryLength,
				Genres:         cfg.UI.Genres,
			},
		},
		movieSvc,
		popularSvc,
		v,
		log.Logger,
		ready...,
	)

	// Keep the popular lists warm; only one replica refreshes per interval
	var warmer *job.PopularWarmer
	if cfg.Warmer.Enabled {
		var distLocker locker.Locker
		if redisClient != nil {
			distLocker = locker.NewRedisLocker(redisClient, cfg.Cache.KeyPrefix, log.Logger)
		} else {
			distLocker = locker.NewLocalLocker(log.Logger)
		}

		warmer = job.NewPopularWarmer(
			popularSvc,
			job.WarmerConfig{
				Interval:  cfg.Warmer.Interval,
				Timeout:   cfg.Warmer.Timeout,
				OnStartup: cfg.Warmer.OnStartup,
				Presets:   warmerPresets(cfg.Warmer.Presets),
			},
			distLocker,
			log.Named("warmer").Logger,
		)
		warmer.Start()
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("shutdown signal received")

		if warmer != nil {
			warmer.Stop()
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.App.ShutdownWithContext(ctx); err != nil {
			log.Error("server shutdown error", zap.Error(err))
		}
	}()

	// Start server
	if err := server.Start(cfg.App.Port); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}

func popularConfig(cfg config.PopularConfig) service.PopularConfig {
	pools := domain.DefaultTermPools()
	if len(cfg.QualityTerms) > 0 {
		pools.Quality = cfg.QualityTerms
	}
	if len(cfg.BaseTerms) > 0 {
		pools.Base = cfg.BaseTerms
	}
	if cfg.MaxQuality > 0 {
		pools.MaxQuality = cfg.MaxQuality
	}
	if cfg.MaxBase > 0 {
		pools.MaxBase = cfg.MaxBase
	}
	if cfg.MaxTerms > 0 {
		pools.MaxTerms = cfg.MaxTerms
	}

	return service.PopularConfig{
		Pools:             pools,
		MaxSearchTerms:    cfg.MaxSearchTerms,
		MaxEnrich:         cfg.MaxEnrich,
		PageSize:          cfg.PageSize,
		EnrichConcurrency: cfg.EnrichConcurrency,
		ParallelSearch:    cfg.ParallelSearch,
	}
}

func warmerPresets(presets []config.WarmerPreset) []domain.PopularFilters {
	filters := make([]domain.PopularFilters, 0, len(presets))
	for _, p := range presets {
		filters = append(filters, domain.PopularFilters{
			Year:  p.Year,
			Type:  domain.MovieType(p.Type),
			Genre: p.Genre,
		})
	}
	return filters
}
