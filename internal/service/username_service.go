package service

import (
	"context"
	"log/slog"

	"dailyverse/internal/middleware"
	"dailyverse/internal/models"
	"dailyverse/internal/repository"
	"dailyverse/internal/validation"
)

// ClaimResult is returned by ClaimUsername.
type ClaimResult struct {
	Username string `json:"username"`
	// Changed is false when the caller already held the name.
	Changed bool `json:"changed"`
}

// UsernameService owns the username registry.
type UsernameService struct {
	store repository.Store
}

// NewUsernameService returns a new UsernameService.
func NewUsernameService(store repository.Store) *UsernameService {
	return &UsernameService{store: store}
}

// ClaimUsername assigns the normalized name to uid. The reservation and the
// user's username move together, and a previous reservation held by uid is
// released in the same transaction.
func (s *UsernameService) ClaimUsername(ctx context.Context, uid, raw string) (result *ClaimResult, err error) {
	const op = "claim_username"
	noop := false
	defer func() { recordOutcome(op, err, noop) }()

	if uid == "" {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	name, err := validation.NormalizeUsername(raw)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	err = s.store.RunTransaction(ctx, op, func(r *repository.Repositories) error {
		noop = false
		if err := r.Users.Ensure(ctx, uid); err != nil {
			return err
		}
		user, err := r.Users.Lock(ctx, uid)
		if err != nil {
			return err
		}

		reservation, err := r.Usernames.Get(ctx, name)
		if err != nil {
			return err
		}

		if user.UsernameLower == name {
			noop = true
			return nil
		}

		if reservation != nil && reservation.UID != uid {
			return models.NewConflictError("username taken")
		}
		if reservation == nil {
			if err := r.Usernames.Reserve(ctx, name, uid); err != nil {
				return err
			}
		}
		if user.UsernameLower != "" {
			if err := r.Usernames.Release(ctx, user.UsernameLower, uid); err != nil {
				return err
			}
		}
		return r.Users.SetUsername(ctx, uid, name)
	})
	if err != nil {
		return nil, err
	}

	if !noop {
		middleware.Logger.InfoContext(ctx, "Username claimed", slog.String("username", name))
	}
	return &ClaimResult{Username: name, Changed: !noop}, nil
}
