package identity

import (
	"context"
	"time"

	"dailyverse/internal/cache"

	"github.com/redis/go-redis/v9"
)

// Profile is the provider-side profile of a user.
type Profile struct {
	DisplayName string `json:"display_name,omitempty"`
	Email       string `json:"email,omitempty"`
	PhotoURL    string `json:"photo_url,omitempty"`
}

// Directory looks up provider profiles by user id.
type Directory interface {
	LookupProfile(ctx context.Context, uid string) (Profile, error)
}

// RedisDirectory keeps the last verified claims of each caller in Redis so the
// live post path can resolve provider profile fields without another network
// round trip to the identity provider. A nil client makes every lookup a miss.
type RedisDirectory struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisDirectory returns a directory backed by rdb.
func NewRedisDirectory(rdb *redis.Client) *RedisDirectory {
	return &RedisDirectory{rdb: rdb, ttl: cache.ProfileTTL}
}

// Remember stores the profile carried by a verified identity.
func (d *RedisDirectory) Remember(ctx context.Context, id *Identity) error {
	if id == nil || id.UID == "" {
		return nil
	}
	return cache.SetJSON(ctx, d.rdb, cache.ProfileKey(id.UID), id.Profile(), d.ttl)
}

// LookupProfile returns the remembered profile, or a zero Profile when unknown.
func (d *RedisDirectory) LookupProfile(ctx context.Context, uid string) (Profile, error) {
	var p Profile
	if _, err := cache.GetJSON(ctx, d.rdb, cache.ProfileKey(uid), &p); err != nil {
		return Profile{}, err
	}
	return p, nil
}
