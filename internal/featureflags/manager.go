// Package featureflags evaluates rollout flags from config with optional
// Redis overrides.
package featureflags

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"strconv"
	"strings"

	"dailyverse/internal/cache"
	"dailyverse/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// FlagLivePosts gates live post creation. It is on unless configured off.
const FlagLivePosts = "live_posts"

// Manager evaluates feature flags defined in a simple key=value list.
// Example: "live_posts=on,new_feed=25%,legacy_ui=off"
type Manager struct {
	flags    map[string]string
	defaults map[string]bool
	rdb      *redis.Client
}

// Option configures a Manager.
type Option func(*Manager)

// WithDefault sets the value used when a flag is configured nowhere.
func WithDefault(name string, enabled bool) Option {
	return func(m *Manager) {
		m.defaults[normalize(name)] = enabled
	}
}

// WithRedis reads per-flag overrides from the FeatureFlagsKey hash. Override
// values use the same syntax as the config string.
func WithRedis(rdb *redis.Client) Option {
	return func(m *Manager) {
		m.rdb = rdb
	}
}

// NewManager creates a feature-flag manager from a comma-separated config string.
func NewManager(raw string, opts ...Option) *Manager {
	m := &Manager{
		flags:    parse(raw),
		defaults: map[string]bool{FlagLivePosts: true},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func parse(raw string) map[string]string {
	out := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := normalize(parts[0])
		value := normalize(parts[1])
		if key == "" || value == "" {
			continue
		}
		out[key] = value
	}
	return out
}

// Enabled returns whether a flag is enabled for a given user.
// Supported values:
// - on/true/1
// - off/false/0
// - N% (deterministic user rollout, e.g. 25%)
//
// A Redis override wins over the config string. When Redis is unreachable
// the config string is used.
func (m *Manager) Enabled(ctx context.Context, name, userID string) bool {
	if m == nil {
		return false
	}
	name = normalize(name)

	value, ok := m.override(ctx, name)
	if !ok {
		value, ok = m.flags[name]
	}
	if !ok {
		return m.defaults[name]
	}
	return evaluate(name, value, userID)
}

func (m *Manager) override(ctx context.Context, name string) (string, bool) {
	if m.rdb == nil {
		return "", false
	}
	value, err := m.rdb.HGet(ctx, cache.FeatureFlagsKey, name).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			middleware.Logger.WarnContext(ctx, "Feature flag override unavailable",
				slog.String("flag", name), slog.String("error", err.Error()))
		}
		return "", false
	}
	value = normalize(value)
	return value, value != ""
}

func evaluate(name, value, userID string) bool {
	switch value {
	case "on", "true", "1":
		return true
	case "off", "false", "0":
		return false
	}

	if strings.HasSuffix(value, "%") {
		pct, err := strconv.Atoi(strings.TrimSuffix(value, "%"))
		if err != nil || pct <= 0 {
			return false
		}
		if pct >= 100 {
			return true
		}
		if userID == "" {
			return false
		}
		return rolloutBucket(name, userID) < pct
	}

	return false
}

// Raw returns a copy of configured flags.
func (m *Manager) Raw() map[string]string {
	out := make(map[string]string, len(m.flags))
	for k, v := range m.flags {
		out[k] = v
	}
	return out
}

// Snapshot returns evaluated flag status for one user, covering configured
// flags and flags with defaults.
func (m *Manager) Snapshot(ctx context.Context, userID string) map[string]bool {
	out := make(map[string]bool, len(m.flags)+len(m.defaults))
	for name := range m.defaults {
		out[name] = m.Enabled(ctx, name, userID)
	}
	for name := range m.flags {
		out[name] = m.Enabled(ctx, name, userID)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func rolloutBucket(name, userID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(fmt.Sprintf("%s:%s", normalize(name), userID)))
	return int(h.Sum32() % 100)
}
