package identity

import (
	"context"
	"testing"

	"dailyverse/internal/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisDirectory_RememberAndLookup(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	ctx := context.Background()
	dir := NewRedisDirectory(rdb)

	miss, err := dir.LookupProfile(ctx, "uid-1")
	require.NoError(t, err)
	assert.Equal(t, Profile{}, miss)

	require.NoError(t, dir.Remember(ctx, &Identity{UID: "uid-1", DisplayName: "Ruth", Email: "ruth@example.com"}))
	assert.True(t, mr.Exists(cache.ProfileKey("uid-1")))
	assert.Equal(t, cache.ProfileTTL, mr.TTL(cache.ProfileKey("uid-1")))

	hit, err := dir.LookupProfile(ctx, "uid-1")
	require.NoError(t, err)
	assert.Equal(t, Profile{DisplayName: "Ruth", Email: "ruth@example.com"}, hit)
}

func TestRedisDirectory_NilClient(t *testing.T) {
	ctx := context.Background()
	dir := NewRedisDirectory(nil)

	require.NoError(t, dir.Remember(ctx, &Identity{UID: "uid-1", DisplayName: "Ruth"}))
	p, err := dir.LookupProfile(ctx, "uid-1")
	require.NoError(t, err)
	assert.Equal(t, Profile{}, p)
}
