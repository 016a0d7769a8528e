package service

import (
	"context"
	"log/slog"
	"time"

	"dailyverse/internal/config"
	"dailyverse/internal/middleware"
	"dailyverse/internal/models"
	"dailyverse/internal/observability"
	"dailyverse/internal/repository"
	"dailyverse/internal/validation"

	"github.com/google/uuid"
)

// ProfileResolver yields the denormalized author profile for a new post.
type ProfileResolver interface {
	Resolve(ctx context.Context, uid string) (models.AuthorProfile, error)
}

// LivePostService creates rate-limited live posts and ends expired ones.
type LivePostService struct {
	store    repository.Store
	profiles ProfileResolver
	rules    config.Rules
	now      Clock
}

// NewLivePostService returns a new LivePostService. A nil clock uses the
// wall clock in UTC.
func NewLivePostService(store repository.Store, profiles ProfileResolver, rules config.Rules, now Clock) *LivePostService {
	return &LivePostService{
		store:    store,
		profiles: profiles,
		rules:    rules,
		now:      clockOrDefault(now),
	}
}

// CreateLivePost publishes text for uid unless the author posted within the
// cooldown. The cooldown check and the insert share one transaction.
func (s *LivePostService) CreateLivePost(ctx context.Context, uid, raw string) (post *models.LivePost, err error) {
	const op = "create_live_post"
	defer func() {
		recordOutcome(op, err, false)
		if models.IsCode(err, models.CodeRateLimited) {
			observability.RateLimitRejections.WithLabelValues("live_post_cooldown").Inc()
		}
	}()

	if uid == "" {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	text, err := validation.LivePostText(raw, s.rules.PostMinChars, s.rules.PostMaxChars)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	profile := models.AuthorProfile{Name: uid, Fallback: true}
	if s.profiles != nil {
		resolved, err := s.profiles.Resolve(ctx, uid)
		if err != nil {
			middleware.Logger.WarnContext(ctx, "Author profile lookup failed, using uid",
				slog.String("error", err.Error()))
		} else {
			profile = resolved
		}
	}
	profile = profile.Bounded()

	var created *models.LivePost
	err = s.store.RunTransaction(ctx, op, func(r *repository.Repositories) error {
		now := s.now()

		if err := r.Users.Ensure(ctx, uid); err != nil {
			return err
		}
		user, err := r.Users.Lock(ctx, uid)
		if err != nil {
			return err
		}

		if user.LastPostAt != nil {
			if elapsed := now.Sub(*user.LastPostAt); elapsed < s.rules.PostCooldown {
				return models.NewRateLimitError(s.rules.PostCooldown - elapsed)
			}
		}

		candidate := &models.LivePost{
			ID:             uuid.NewString(),
			Text:           text,
			AuthorUID:      uid,
			AuthorName:     profile.Name,
			AuthorUsername: profile.Username,
			AuthorPhoto:    profile.PhotoURL,
			Status:         models.LivePostStatusActive,
			CreatedAt:      now,
			LiveUntil:      now.Add(s.rules.PostLiveWindow),
			EndAt:          now.Add(s.rules.PostTTL),
		}
		if err := r.LivePosts.Create(ctx, candidate); err != nil {
			return err
		}
		if err := r.Users.RecordLivePost(ctx, uid, now, profile); err != nil {
			return err
		}
		created = candidate
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetLivePost returns a single post.
func (s *LivePostService) GetLivePost(ctx context.Context, id string) (*models.LivePost, error) {
	return s.store.Repos().LivePosts.GetByID(ctx, id)
}

// ExpireLivePosts ends at most one batch of active posts whose end time is at
// or before now and returns how many were ended. Running it again with the
// same now ends nothing further.
func (s *LivePostService) ExpireLivePosts(ctx context.Context, now time.Time) (count int64, err error) {
	const op = "expire_live_posts"
	defer func() { recordOutcome(op, err, err == nil && count == 0) }()

	now = now.UTC()
	err = s.store.RunTransaction(ctx, op, func(r *repository.Repositories) error {
		ids, err := r.LivePosts.FindExpiredIDs(ctx, now, s.rules.ExpireBatchSize)
		if err != nil {
			return err
		}
		count, err = r.LivePosts.MarkEnded(ctx, ids, now)
		return err
	})
	if err != nil {
		return 0, err
	}

	if count > 0 {
		observability.LivePostsExpired.Add(float64(count))
		middleware.Logger.InfoContext(ctx, "Expired live posts", slog.Int64("count", count))
	}
	return count, nil
}
