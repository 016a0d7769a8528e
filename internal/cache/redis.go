// Package cache provides Redis caching utilities for the application.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dailyverse/internal/observability"

	"github.com/redis/go-redis/v9"
)

// Key families reported on Redis error metrics.
const (
	FamilyProfile     = "profile"
	FamilyEngagement  = "engagement"
	FamilyFeatureFlag = "featureflags"
	FamilyRateLimit   = "ratelimit"
	FamilyOther       = "other"
)

// KeyFamily maps a key built by this package onto its metric label.
func KeyFamily(key string) string {
	prefix, _, _ := strings.Cut(key, ":")
	switch prefix {
	case "identity":
		return FamilyProfile
	case "engagement":
		return FamilyEngagement
	case "featureflags":
		return FamilyFeatureFlag
	case "rl":
		return FamilyRateLimit
	}
	return FamilyOther
}

func commandFamily(cmd redis.Cmder) string {
	args := cmd.Args()
	if len(args) < 2 {
		return FamilyOther
	}
	key, ok := args[1].(string)
	if !ok {
		return FamilyOther
	}
	return KeyFamily(key)
}

type metricsHook struct{}

func (metricsHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (metricsHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && !errors.Is(err, redis.Nil) {
			observability.RedisErrors.WithLabelValues(cmd.Name(), commandFamily(cmd)).Inc()
		}
		return err
	}
}

func (metricsHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			family := FamilyOther
			if len(cmds) > 0 {
				family = commandFamily(cmds[0])
			}
			observability.RedisErrors.WithLabelValues("pipeline", family).Inc()
		}
		return err
	}
}

// Connect opens a client for addr, which is either host:port or a redis://
// URL, and pings it. On failure the client is closed and nil is returned;
// callers run without a cache in that case.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	opts := &redis.Options{Addr: addr}
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		opts = parsed
	}

	client := redis.NewClient(opts)
	client.AddHook(metricsHook{})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", opts.Addr, err)
	}
	return client, nil
}
