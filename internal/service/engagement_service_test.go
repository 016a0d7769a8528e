package service

import (
	"context"
	"testing"
	"time"

	"dailyverse/internal/cache"
	"dailyverse/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var engagementStart = time.Date(2026, 8, 1, 7, 15, 0, 0, time.UTC)

func newEngagementService(t *testing.T, rdb *redis.Client) (*EngagementService, *testClock) {
	t.Helper()
	store, _ := newTestStore(t)
	clock := newTestClock(engagementStart)
	return NewEngagementService(store, rdb, testRules(), clock.Now), clock
}

func TestEngagementService_MarkActiveTwiceSameDay(t *testing.T) {
	ctx := context.Background()
	svc, clock := newEngagementService(t, nil)

	first, err := svc.MarkActiveToday(ctx, "u1")
	require.NoError(t, err)
	clock.Advance(10 * time.Hour)
	second, err := svc.MarkActiveToday(ctx, "u1")
	require.NoError(t, err)

	want := &models.StreakSummary{Today: "2026-08-01", CurrentStreak: 1, BestStreak: 1}
	assert.Equal(t, want, first)
	assert.Equal(t, want, second)
}

func TestEngagementService_StreakSequence(t *testing.T) {
	ctx := context.Background()
	svc, clock := newEngagementService(t, nil)

	s, err := svc.MarkActiveToday(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, s.CurrentStreak)

	clock.Advance(24 * time.Hour)
	s, err = svc.CompleteAllMissions(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, s.CurrentStreak)
	assert.Equal(t, 2, s.BestStreak)

	clock.Advance(48 * time.Hour)
	s, err = svc.MarkActiveToday(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "2026-08-04", s.Today)
	assert.Equal(t, 1, s.CurrentStreak)
	assert.Equal(t, 2, s.BestStreak)

	stats, err := svc.GetStats(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"2026-08-01": true, "2026-08-02": true, "2026-08-04": true}, stats.ActiveDays())
	assert.Zero(t, stats.VersesReadTotal+stats.PrayersCompletedTotal+stats.PostsCreatedTotal,
		"streak operations leave counters untouched")
}

func TestEngagementService_ActiveDaysWindow(t *testing.T) {
	ctx := context.Background()
	svc, clock := newEngagementService(t, nil)

	var last *models.StreakSummary
	for i := 0; i < 40; i++ {
		s, err := svc.MarkActiveToday(ctx, "u1")
		require.NoError(t, err)
		last = s
		clock.Advance(24 * time.Hour)
	}
	assert.Equal(t, 40, last.CurrentStreak)
	assert.Equal(t, 40, last.BestStreak)

	stats, err := svc.GetStats(ctx, "u1")
	require.NoError(t, err)
	days := stats.ActiveDays()
	assert.Len(t, days, 30)
	assert.True(t, days[last.Today])
	assert.False(t, days[engagementStart.AddDate(0, 0, 9).Format(models.DateLayout)])
	assert.True(t, days[engagementStart.AddDate(0, 0, 10).Format(models.DateLayout)])
}

func TestEngagementService_IncrementsCreateRecordLazily(t *testing.T) {
	ctx := context.Background()
	svc, _ := newEngagementService(t, nil)

	require.NoError(t, svc.IncrementVerseRead(ctx, "u1"))

	stats, err := svc.store.Repos().Engagement.Get(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, 1, stats.CurrentStreak)
	assert.Equal(t, 1, stats.BestStreak)
	assert.Equal(t, "2026-08-01", stats.LastActiveDate)
	assert.Equal(t, map[string]bool{"2026-08-01": true}, stats.ActiveDays())
	assert.Equal(t, int64(1), stats.VersesReadTotal)

	require.NoError(t, svc.IncrementVerseRead(ctx, "u1"))
	require.NoError(t, svc.IncrementPrayerCompleted(ctx, "u1"))
	require.NoError(t, svc.IncrementPostCreated(ctx, "u1"))
	require.NoError(t, svc.IncrementPostCreated(ctx, "u1"))
	require.NoError(t, svc.IncrementPostCreated(ctx, "u1"))

	stats, err = svc.store.Repos().Engagement.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.VersesReadTotal)
	assert.Equal(t, int64(1), stats.PrayersCompletedTotal)
	assert.Equal(t, int64(3), stats.PostsCreatedTotal)
	assert.Equal(t, 1, stats.CurrentStreak, "increments do not advance the streak")
}

func TestEngagementService_RequiresUser(t *testing.T) {
	svc, _ := newEngagementService(t, nil)

	_, err := svc.MarkActiveToday(context.Background(), "")
	assert.True(t, models.IsCode(err, models.CodeUnauthorized))
	assert.True(t, models.IsCode(svc.IncrementVerseRead(context.Background(), ""), models.CodeUnauthorized))
}

func TestEngagementService_GetStatsCache(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	svc, _ := newEngagementService(t, rdb)

	empty, err := svc.GetStats(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", empty.UserID)
	assert.Zero(t, empty.CurrentStreak)
	assert.True(t, mr.Exists(cache.EngagementKey("u1")))

	_, err = svc.MarkActiveToday(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, mr.Exists(cache.EngagementKey("u1")), "writes invalidate the cached view")

	stats, err := svc.GetStats(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.CurrentStreak)
	assert.Equal(t, cache.EngagementTTL, mr.TTL(cache.EngagementKey("u1")))
}
