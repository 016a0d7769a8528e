package service

import (
	"context"

	"dailyverse/internal/cache"
	"dailyverse/internal/config"
	"dailyverse/internal/models"
	"dailyverse/internal/repository"

	"github.com/redis/go-redis/v9"
)

// EngagementService tracks daily streaks and activity counters.
type EngagementService struct {
	store repository.Store
	rdb   *redis.Client
	rules config.Rules
	now   Clock
}

// NewEngagementService returns a new EngagementService. rdb may be nil, in
// which case GetStats always reads the database.
func NewEngagementService(store repository.Store, rdb *redis.Client, rules config.Rules, now Clock) *EngagementService {
	return &EngagementService{
		store: store,
		rdb:   rdb,
		rules: rules,
		now:   clockOrDefault(now),
	}
}

// MarkActiveToday records activity for the current UTC day.
func (s *EngagementService) MarkActiveToday(ctx context.Context, uid string) (*models.StreakSummary, error) {
	return s.advance(ctx, "mark_active_today", uid)
}

// CompleteAllMissions records that uid finished every daily mission, which
// counts as activity for the day.
func (s *EngagementService) CompleteAllMissions(ctx context.Context, uid string) (*models.StreakSummary, error) {
	return s.advance(ctx, "complete_all_missions", uid)
}

func (s *EngagementService) advance(ctx context.Context, op, uid string) (summary *models.StreakSummary, err error) {
	defer func() { recordOutcome(op, err, false) }()

	if uid == "" {
		return nil, models.NewUnauthorizedError("Authentication required")
	}

	err = s.store.RunTransaction(ctx, op, func(r *repository.Repositories) error {
		now := s.now()
		today, yesterday := dayKeys(now)

		if err := r.Users.Ensure(ctx, uid); err != nil {
			return err
		}
		stats, err := r.Engagement.Lock(ctx, uid)
		if err != nil {
			return err
		}
		isNew := stats == nil
		if isNew {
			stats = &models.EngagementStats{UserID: uid}
		}

		next := AdvanceStreak(streakState(stats), today, yesterday)
		stats.LastActiveDate = next.LastActiveDate
		stats.CurrentStreak = next.CurrentStreak
		stats.BestStreak = next.BestStreak

		days := stats.ActiveDays()
		days[today] = true
		stats.SetActiveDays(PruneActiveDays(days, now, s.rules.StreakWindowDays))

		if isNew {
			err = r.Engagement.Create(ctx, stats)
		} else {
			err = r.Engagement.SaveStreak(ctx, stats)
		}
		if err != nil {
			return err
		}

		summary = &models.StreakSummary{
			Today:         today,
			CurrentStreak: stats.CurrentStreak,
			BestStreak:    stats.BestStreak,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	cache.Invalidate(ctx, s.rdb, cache.EngagementKey(uid))
	return summary, nil
}

// IncrementVerseRead adds one to the verses-read total.
func (s *EngagementService) IncrementVerseRead(ctx context.Context, uid string) error {
	return s.increment(ctx, "increment_verse_read", uid, repository.CounterVersesRead)
}

// IncrementPrayerCompleted adds one to the prayers-completed total.
func (s *EngagementService) IncrementPrayerCompleted(ctx context.Context, uid string) error {
	return s.increment(ctx, "increment_prayer_completed", uid, repository.CounterPrayersCompleted)
}

// IncrementPostCreated adds one to the posts-created total.
func (s *EngagementService) IncrementPostCreated(ctx context.Context, uid string) error {
	return s.increment(ctx, "increment_post_created", uid, repository.CounterPostsCreated)
}

// increment bumps a single counter. A user without stats gets a fresh record
// with today marked and a streak of 1 first.
func (s *EngagementService) increment(ctx context.Context, op, uid, column string) (err error) {
	defer func() { recordOutcome(op, err, false) }()

	if uid == "" {
		return models.NewUnauthorizedError("Authentication required")
	}

	err = s.store.RunTransaction(ctx, op, func(r *repository.Repositories) error {
		if err := r.Users.Ensure(ctx, uid); err != nil {
			return err
		}
		stats, err := r.Engagement.Lock(ctx, uid)
		if err != nil {
			return err
		}
		if stats == nil {
			today, _ := dayKeys(s.now())
			stats = &models.EngagementStats{
				UserID:         uid,
				LastActiveDate: today,
				CurrentStreak:  1,
				BestStreak:     1,
			}
			stats.SetActiveDays(map[string]bool{today: true})
			if err := r.Engagement.Create(ctx, stats); err != nil {
				return err
			}
		}
		return r.Engagement.Increment(ctx, uid, column)
	})
	if err != nil {
		return err
	}

	cache.Invalidate(ctx, s.rdb, cache.EngagementKey(uid))
	return nil
}

// GetStats returns the user's engagement record, or a zero view when the user
// has no activity yet. Results are cached briefly in Redis.
func (s *EngagementService) GetStats(ctx context.Context, uid string) (*models.EngagementStats, error) {
	if uid == "" {
		return nil, models.NewUnauthorizedError("Authentication required")
	}

	var stats models.EngagementStats
	err := cache.Aside(ctx, s.rdb, cache.EngagementKey(uid), &stats, cache.EngagementTTL, func() error {
		found, err := s.store.Repos().Engagement.Get(ctx, uid)
		if err != nil {
			return models.NewInternalError(err)
		}
		if found == nil {
			stats = models.EngagementStats{UserID: uid}
			stats.SetActiveDays(map[string]bool{})
			return nil
		}
		stats = *found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
