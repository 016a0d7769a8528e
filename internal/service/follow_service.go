package service

import (
	"context"
	"strings"

	"dailyverse/internal/models"
	"dailyverse/internal/repository"
)

// FollowService maintains the follow graph and its denormalized counters.
type FollowService struct {
	store repository.Store
}

// NewFollowService returns a new FollowService.
func NewFollowService(store repository.Store) *FollowService {
	return &FollowService{store: store}
}

func validateEdge(uid, target string) error {
	if uid == "" {
		return models.NewUnauthorizedError("Authentication required")
	}
	if strings.TrimSpace(target) == "" {
		return models.NewValidationError("Target user is required")
	}
	if uid == target {
		return models.NewValidationError("You cannot follow yourself")
	}
	return nil
}

// Follow creates the uid -> target edge. Following an already followed user
// changes nothing.
func (s *FollowService) Follow(ctx context.Context, uid, target string) (err error) {
	const op = "follow"
	noop := false
	defer func() { recordOutcome(op, err, noop) }()

	if err := validateEdge(uid, target); err != nil {
		return err
	}

	return s.store.RunTransaction(ctx, op, func(r *repository.Repositories) error {
		noop = false
		if _, err := r.Users.Lock(ctx, target); err != nil {
			return err
		}
		if err := r.Users.Ensure(ctx, uid); err != nil {
			return err
		}

		exists, err := r.Follows.Exists(ctx, uid, target)
		if err != nil {
			return err
		}
		if exists {
			noop = true
			return nil
		}

		if err := r.Follows.Create(ctx, uid, target); err != nil {
			return err
		}
		if err := r.Users.AdjustCounter(ctx, target, repository.CounterFollowers, 1); err != nil {
			return err
		}
		return r.Users.AdjustCounter(ctx, uid, repository.CounterFollowing, 1)
	})
}

// Unfollow removes the uid -> target edge. Removing a missing edge changes
// nothing.
func (s *FollowService) Unfollow(ctx context.Context, uid, target string) (err error) {
	const op = "unfollow"
	noop := false
	defer func() { recordOutcome(op, err, noop) }()

	if err := validateEdge(uid, target); err != nil {
		return err
	}

	return s.store.RunTransaction(ctx, op, func(r *repository.Repositories) error {
		noop = false
		exists, err := r.Follows.Exists(ctx, uid, target)
		if err != nil {
			return err
		}
		if !exists {
			noop = true
			return nil
		}

		if err := r.Follows.Delete(ctx, uid, target); err != nil {
			return err
		}
		if err := r.Users.AdjustCounter(ctx, target, repository.CounterFollowers, -1); err != nil {
			return err
		}
		return r.Users.AdjustCounter(ctx, uid, repository.CounterFollowing, -1)
	})
}

// ListFollowers returns the users following uid, newest first.
func (s *FollowService) ListFollowers(ctx context.Context, uid string, limit, offset int) ([]models.Follower, error) {
	return s.store.Repos().Follows.ListFollowers(ctx, uid, limit, offset)
}

// ListFollowing returns the users uid follows, newest first.
func (s *FollowService) ListFollowing(ctx context.Context, uid string, limit, offset int) ([]models.Following, error) {
	return s.store.Repos().Follows.ListFollowing(ctx, uid, limit, offset)
}
