package repository

import (
	"context"
	"fmt"

	"dailyverse/internal/models"

	"gorm.io/gorm"
)

// FollowRepository maintains the mirrored followers/following edge rows.
type FollowRepository interface {
	Exists(ctx context.Context, uid, target string) (bool, error)
	// Create writes following/{uid}/{target} and followers/{target}/{uid}.
	Create(ctx context.Context, uid, target string) error
	// Delete removes both mirrored rows.
	Delete(ctx context.Context, uid, target string) error
	ListFollowers(ctx context.Context, uid string, limit, offset int) ([]models.Follower, error)
	ListFollowing(ctx context.Context, uid string, limit, offset int) ([]models.Following, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository returns a new FollowRepository implementation.
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Exists(ctx context.Context, uid, target string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Following{}).
		Where("user_id = ? AND target_id = ?", uid, target).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check follow %s -> %s: %w", uid, target, err)
	}
	return count > 0, nil
}

func (r *followRepository) Create(ctx context.Context, uid, target string) error {
	db := r.db.WithContext(ctx)
	if err := db.Create(&models.Following{UserID: uid, TargetID: target}).Error; err != nil {
		return fmt.Errorf("create following %s -> %s: %w", uid, target, err)
	}
	if err := db.Create(&models.Follower{UserID: target, FollowerID: uid}).Error; err != nil {
		return fmt.Errorf("create follower %s <- %s: %w", target, uid, err)
	}
	return nil
}

func (r *followRepository) Delete(ctx context.Context, uid, target string) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("user_id = ? AND target_id = ?", uid, target).Delete(&models.Following{}).Error; err != nil {
		return fmt.Errorf("delete following %s -> %s: %w", uid, target, err)
	}
	if err := db.Where("user_id = ? AND follower_id = ?", target, uid).Delete(&models.Follower{}).Error; err != nil {
		return fmt.Errorf("delete follower %s <- %s: %w", target, uid, err)
	}
	return nil
}

func (r *followRepository) ListFollowers(ctx context.Context, uid string, limit, offset int) ([]models.Follower, error) {
	var rows []models.Follower
	err := readDB(r.db).WithContext(ctx).
		Where("user_id = ?", uid).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return rows, nil
}

func (r *followRepository) ListFollowing(ctx context.Context, uid string, limit, offset int) ([]models.Following, error) {
	var rows []models.Following
	err := readDB(r.db).WithContext(ctx).
		Where("user_id = ?", uid).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return rows, nil
}
