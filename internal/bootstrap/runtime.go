// Package bootstrap wires process-level runtime dependencies for the commands.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"dailyverse/internal/cache"
	"dailyverse/internal/config"
	"dailyverse/internal/database"
	"dailyverse/internal/middleware"
	"dailyverse/internal/observability"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SkipRedis leaves the Redis client nil, for one-shot jobs that never read the cache.
	SkipRedis bool
}

// InitRuntime configures logging, connects to the DB and, unless skipped,
// Redis. A nil Redis client means the cache is unavailable.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	if cfg == nil {
		return nil, nil, errors.New("bootstrap requires a config")
	}

	middleware.ConfigureLogger(cfg.Env, cfg.LogLevel)

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	if opts.SkipRedis {
		return db, nil, nil
	}

	return db, ConnectRedis(context.Background(), cfg.RedisURL), nil
}

// ConnectRedis returns a live client for addr, or nil with a warning logged
// when Redis cannot be reached.
func ConnectRedis(ctx context.Context, addr string) *redis.Client {
	rdb, err := cache.Connect(ctx, addr)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "Redis unavailable, continuing without cache",
			slog.String("error", err.Error()))
		return nil
	}
	middleware.Logger.InfoContext(ctx, "Redis connected")
	return rdb
}

// TracingConfig maps application config onto the tracer settings for one service.
func TracingConfig(cfg *config.Config, serviceName string) observability.TracingConfig {
	exporter := cfg.TracingExporter
	if exporter == "" && cfg.OTLPEndpoint != "" {
		exporter = "otlp"
	}
	return observability.TracingConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       exporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SamplerRatio:   cfg.TracingSampleRatio,
	}
}
