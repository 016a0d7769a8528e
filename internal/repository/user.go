package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dailyverse/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Counter columns on users that AdjustCounter may touch.
const (
	CounterFollowers = "followers_count"
	CounterFollowing = "following_count"
	CounterPosts     = "posts_count"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// FindByID returns nil, nil when the user does not exist.
	FindByID(ctx context.Context, id string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	// Ensure inserts an empty row for id unless one exists.
	Ensure(ctx context.Context, id string) error
	// Lock selects the row for update. Missing rows are a NotFoundError.
	Lock(ctx context.Context, id string) (*models.User, error)
	SetUsername(ctx context.Context, id, username string) error
	AdjustCounter(ctx context.Context, id, column string, delta int64) error
	RecordLivePost(ctx context.Context, id string, at time.Time, profile models.AuthorProfile) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := readDB(r.db).WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user %s: %w", id, err)
	}
	return &user, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return &user, nil
}

func (r *userRepository) Ensure(ctx context.Context, id string) error {
	user := models.User{ID: id, Plan: "free"}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&user).Error; err != nil {
		return fmt.Errorf("ensure user %s: %w", id, err)
	}
	return nil
}

func (r *userRepository) Lock(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := forUpdate(r.db.WithContext(ctx)).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, fmt.Errorf("lock user %s: %w", id, err)
	}
	return &user, nil
}

func (r *userRepository) SetUsername(ctx context.Context, id, username string) error {
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"username":       username,
		"username_lower": username,
	}).Error
	if err != nil {
		return fmt.Errorf("set username for %s: %w", id, err)
	}
	return nil
}

func (r *userRepository) AdjustCounter(ctx context.Context, id, column string, delta int64) error {
	switch column {
	case CounterFollowers, CounterFollowing, CounterPosts:
	default:
		return fmt.Errorf("unknown user counter %q", column)
	}

	err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		Update(column, gorm.Expr(column+" + ?", delta)).Error
	if err != nil {
		return fmt.Errorf("adjust %s for %s: %w", column, id, err)
	}
	return nil
}

// RecordLivePost stamps last_post_at, bumps posts_count and fills display
// name and photo only where the stored value is empty. A fallback name is
// never stored.
func (r *userRepository) RecordLivePost(ctx context.Context, id string, at time.Time, profile models.AuthorProfile) error {
	updates := map[string]interface{}{
		"last_post_at": at,
		"posts_count":  gorm.Expr("posts_count + ?", 1),
		"photo_url":    gorm.Expr("CASE WHEN photo_url = '' THEN ? ELSE photo_url END", profile.PhotoURL),
	}
	if !profile.Fallback {
		updates["display_name"] = gorm.Expr("CASE WHEN display_name = '' THEN ? ELSE display_name END", profile.Name)
	}

	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return fmt.Errorf("record live post for %s: %w", id, err)
	}
	return nil
}
