// Package middleware provides request-scoped Fiber middleware: logging, auth,
// rate limiting, metrics and tracing.
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"dailyverse/internal/cache"
	"dailyverse/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// FailPolicy defines the behavior when the rate limit store (Redis) is unavailable.
type FailPolicy int

const (
	// FailOpen allows the request to proceed if Redis is unavailable.
	FailOpen FailPolicy = iota
	// FailClosed blocks the request (503 Service Unavailable) if Redis is unavailable.
	FailClosed
)

// Limiter counts requests per resource and caller in Redis.
type Limiter struct {
	rdb    *redis.Client
	bypass bool
}

// NewLimiter returns a Limiter for the configured environment. Limits are not
// enforced when env is "test" or "development"; an empty env counts as
// development.
func NewLimiter(rdb *redis.Client, env string) *Limiter {
	if env == "" {
		env = "development"
	}
	return &Limiter{rdb: rdb, bypass: env == "test" || env == "development"}
}

// Check reports whether id may make another request against resource.
func (l *Limiter) Check(ctx context.Context, resource, id string, limit int, window time.Duration) (bool, error) {
	if l.bypass {
		return true, nil
	}
	if l.rdb == nil {
		return false, fmt.Errorf("redis client is nil")
	}

	key := cache.RateLimitKey(resource, id)

	cnt, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if cnt == 1 {
		l.rdb.Expire(ctx, key, window)
	}
	return cnt <= int64(limit), nil
}

// RateLimit returns a Fiber middleware enforcing `limit` requests per `window`.
// It keys by authenticated userID (if set in c.Locals("userID")) otherwise by remote IP.
// It defaults to FailOpen policy.
func (l *Limiter) RateLimit(limit int, window time.Duration, name ...string) fiber.Handler {
	return l.RateLimitWithPolicy(limit, window, FailOpen, name...)
}

// RateLimitWithPolicy returns a Fiber middleware enforcing `limit` requests per `window` with a specific failure policy.
func (l *Limiter) RateLimitWithPolicy(limit int, window time.Duration, policy FailPolicy, name ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var id string
		if uid, ok := c.Locals("userID").(string); ok && uid != "" {
			id = "user:" + uid
		} else {
			id = "ip:" + c.IP()
		}

		resource := c.Path()
		if len(name) > 0 {
			resource = name[0]
		}

		allowed, err := l.Check(c.UserContext(), resource, id, limit, window)
		if err != nil {
			if policy == FailClosed {
				Logger.WarnContext(c.UserContext(), "rate limit store unavailable, failing closed",
					slog.String("resource", resource),
					slog.String("error", err.Error()),
				)
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"error": "rate limit unavailable",
				})
			}
			return c.Next()
		}

		if !allowed {
			observability.RateLimitRejections.WithLabelValues(resource).Inc()
			c.Set(fiber.HeaderRetryAfter, fmt.Sprintf("%d", int(window.Seconds())))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "rate limit exceeded",
				"code":  "RATE_LIMITED",
			})
		}
		return c.Next()
	}
}
