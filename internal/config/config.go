// Package config provides application configuration management using Viper.
// Configuration is loaded from YAML files and environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Cache drivers.
const (
	CacheDriverMemory = "memory"
	CacheDriverRedis  = "redis"
	CacheDriverNone   = "none"
)

// Config holds all application configuration.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	OMDB    OMDBConfig    `mapstructure:"omdb"`
	Popular PopularConfig `mapstructure:"popular"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Warmer  WarmerConfig  `mapstructure:"warmer"`
	UI      UIConfig      `mapstructure:"ui"`
	Logger  LoggerConfig  `mapstructure:"logger"`
	Sentry  SentryConfig  `mapstructure:"sentry"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name         string   `mapstructure:"name"`
	Env          string   `mapstructure:"env"` // development, staging, production
	Port         int      `mapstructure:"port"`
	Debug        bool     `mapstructure:"debug"`
	TemplatesDir string   `mapstructure:"templates_dir"`
	StaticDir    string   `mapstructure:"static_dir"`
	CORSOrigins  []string `mapstructure:"cors_origins"`
}

// OMDBConfig holds the upstream movie database settings.
type OMDBConfig struct {
	BaseURL   string          `mapstructure:"base_url"`
	APIKey    string          `mapstructure:"api_key"`
	Timeout   time.Duration   `mapstructure:"timeout"`
	Retry     RetryConfig     `mapstructure:"retry"`
	CB        CBConfig        `mapstructure:"circuit_breaker"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// RetryConfig holds retry settings.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	WaitTime    time.Duration `mapstructure:"wait_time"`
	MaxWaitTime time.Duration `mapstructure:"max_wait_time"`
}

// CBConfig holds circuit breaker settings.
type CBConfig struct {
	MaxRequests  uint32        `mapstructure:"max_requests"`
	Interval     time.Duration `mapstructure:"interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
	FailureRatio float64       `mapstructure:"failure_ratio"`
	MinRequests  uint32        `mapstructure:"min_requests"`
}

// RateLimitConfig holds outbound rate limit settings.
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// PopularConfig holds the popular-list pipeline settings.
type PopularConfig struct {
	QualityTerms      []string `mapstructure:"quality_terms"`
	BaseTerms         []string `mapstructure:"base_terms"`
	MaxQuality        int      `mapstructure:"max_quality"`
	MaxBase           int      `mapstructure:"max_base"`
	MaxTerms          int      `mapstructure:"max_terms"`
	MaxSearchTerms    int      `mapstructure:"max_search_terms"`
	MaxEnrich         int      `mapstructure:"max_enrich"`
	PageSize          int      `mapstructure:"page_size"`
	EnrichConcurrency int      `mapstructure:"enrich_concurrency"`
	ParallelSearch    bool     `mapstructure:"parallel_search"`
}

// CacheConfig holds response cache settings.
type CacheConfig struct {
	Driver          string        `mapstructure:"driver"` // memory, redis, none
	SearchTTL       time.Duration `mapstructure:"search_ttl"`
	DetailTTL       time.Duration `mapstructure:"detail_ttl"`
	PopularTTL      time.Duration `mapstructure:"popular_ttl"`
	KeyPrefix       string        `mapstructure:"key_prefix"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// RedisConfig holds Redis connection settings for caching and distributed locking.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the host:port address.
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// WarmerConfig holds popular-list warmer settings.
type WarmerConfig struct {
	Enabled   bool           `mapstructure:"enabled"`
	Interval  time.Duration  `mapstructure:"interval"`
	Timeout   time.Duration  `mapstructure:"timeout"`
	OnStartup bool           `mapstructure:"on_startup"`
	Presets   []WarmerPreset `mapstructure:"presets"`
}

// WarmerPreset is one filter combination kept warm.
type WarmerPreset struct {
	Year  string `mapstructure:"year"`
	Type  string `mapstructure:"type"`
	Genre string `mapstructure:"genre"`
}

// UIConfig holds HTML view settings.
type UIConfig struct {
	MinQueryLength int      `mapstructure:"min_query_length"`
	Genres         []string `mapstructure:"genres"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
	Output string `mapstructure:"output"` // stdout, stderr, file path
}

// SentryConfig holds Sentry error tracking settings.
type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

// Load reads configuration from file and environment variables.
// Priority: env vars > config file > defaults
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Config file not found, continue with defaults + env vars
	}

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	c.Cache.Driver = strings.ToLower(strings.TrimSpace(c.Cache.Driver))

	switch c.Cache.Driver {
	case CacheDriverMemory, CacheDriverNone:
	case CacheDriverRedis:
		if !c.Redis.Enabled {
			return errors.New("invalid config: cache.driver redis requires redis.enabled")
		}
	default:
		return fmt.Errorf("invalid config: unknown cache.driver %q", c.Cache.Driver)
	}

	if c.OMDB.BaseURL == "" {
		return errors.New("invalid config: omdb.base_url is required")
	}
	if c.Warmer.Enabled && c.Warmer.Interval <= 0 {
		return errors.New("invalid config: warmer.interval must be positive")
	}

	return nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "movie-search-service")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.debug", true)
	v.SetDefault("app.templates_dir", "./web/templates")
	v.SetDefault("app.static_dir", "./web/static")
	v.SetDefault("app.cors_origins", []string{"*"})

	// OMDB defaults
	v.SetDefault("omdb.base_url", "http://www.omdbapi.com")
	v.SetDefault("omdb.api_key", "demo")
	v.SetDefault("omdb.timeout", "10s")
	v.SetDefault("omdb.retry.max_attempts", 0)
	v.SetDefault("omdb.retry.wait_time", "500ms")
	v.SetDefault("omdb.retry.max_wait_time", "2s")
	v.SetDefault("omdb.circuit_breaker.max_requests", 3)
	v.SetDefault("omdb.circuit_breaker.interval", "60s")
	v.SetDefault("omdb.circuit_breaker.timeout", "30s")
	v.SetDefault("omdb.circuit_breaker.failure_ratio", 0.5)
	v.SetDefault("omdb.circuit_breaker.min_requests", 3)
	v.SetDefault("omdb.rate_limit.requests_per_second", 0)
	v.SetDefault("omdb.rate_limit.burst", 1)

	// Popular pipeline defaults
	v.SetDefault("popular.quality_terms", []string{
		"popular", "acclaimed", "award", "winning", "hit",
		"successful", "top", "best", "famous", "great",
	})
	v.SetDefault("popular.base_terms", []string{"movie", "film", "cinema", "entertainment"})
	v.SetDefault("popular.max_quality", 5)
	v.SetDefault("popular.max_base", 3)
	v.SetDefault("popular.max_terms", 10)
	v.SetDefault("popular.max_search_terms", 6)
	v.SetDefault("popular.max_enrich", 30)
	v.SetDefault("popular.page_size", 10)
	v.SetDefault("popular.enrich_concurrency", 0)
	v.SetDefault("popular.parallel_search", false)

	// Cache defaults
	v.SetDefault("cache.driver", CacheDriverMemory)
	v.SetDefault("cache.search_ttl", "5m")
	v.SetDefault("cache.detail_ttl", "30m")
	v.SetDefault("cache.popular_ttl", "10m")
	v.SetDefault("cache.key_prefix", "movie-search")
	v.SetDefault("cache.cleanup_interval", "10m")

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Warmer defaults
	v.SetDefault("warmer.enabled", false)
	v.SetDefault("warmer.interval", "9m")
	v.SetDefault("warmer.timeout", "1m")
	v.SetDefault("warmer.on_startup", true)
	v.SetDefault("warmer.presets", []map[string]string{{}})

	// UI defaults
	v.SetDefault("ui.min_query_length", 2)
	v.SetDefault("ui.genres", []string{
		"Action", "Adventure", "Comedy", "Drama", "Horror",
		"Romance", "Sci-Fi", "Thriller", "Animation", "Crime",
	})

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output", "stdout")

	// Sentry defaults
	v.SetDefault("sentry.enabled", false)
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "development")
	v.SetDefault("sentry.sample_rate", 1.0)
}
