package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dailyverse/internal/models"

	"gorm.io/gorm"
)

// LivePostRepository persists live posts and their expiry transitions.
type LivePostRepository interface {
	Create(ctx context.Context, post *models.LivePost) error
	GetByID(ctx context.Context, id string) (*models.LivePost, error)
	// FindExpiredIDs returns up to limit active posts whose end_at is at or
	// before now, oldest first.
	FindExpiredIDs(ctx context.Context, now time.Time, limit int) ([]string, error)
	// MarkEnded ends the given posts that are still active and returns how
	// many rows changed.
	MarkEnded(ctx context.Context, ids []string, now time.Time) (int64, error)
}

type livePostRepository struct {
	db *gorm.DB
}

// NewLivePostRepository returns a new LivePostRepository implementation.
func NewLivePostRepository(db *gorm.DB) LivePostRepository {
	return &livePostRepository{db: db}
}

func (r *livePostRepository) Create(ctx context.Context, post *models.LivePost) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return fmt.Errorf("create live post: %w", err)
	}
	return nil
}

func (r *livePostRepository) GetByID(ctx context.Context, id string) (*models.LivePost, error) {
	var post models.LivePost
	if err := readDB(r.db).WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("LivePost", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *livePostRepository) FindExpiredIDs(ctx context.Context, now time.Time, limit int) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&models.LivePost{}).
		Where("status = ? AND end_at <= ?", models.LivePostStatusActive, now).
		Order("end_at ASC").
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("find expired live posts: %w", err)
	}
	return ids, nil
}

func (r *livePostRepository) MarkEnded(ctx context.Context, ids []string, now time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Model(&models.LivePost{}).
		Where("id IN ? AND status = ?", ids, models.LivePostStatusActive).
		Updates(map[string]interface{}{
			"status":   models.LivePostStatusEnded,
			"ended_at": now,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("mark live posts ended: %w", result.Error)
	}
	return result.RowsAffected, nil
}
