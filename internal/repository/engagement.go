package repository

import (
	"context"
	"errors"
	"fmt"

	"dailyverse/internal/models"

	"gorm.io/gorm"
)

// Counter columns on engagement_stats that Increment may touch.
const (
	CounterVersesRead       = "verses_read_total"
	CounterPrayersCompleted = "prayers_completed_total"
	CounterPostsCreated     = "posts_created_total"
)

// EngagementRepository persists per-user streak and activity counters.
type EngagementRepository interface {
	// Lock returns nil, nil when the user has no stats yet.
	Lock(ctx context.Context, uid string) (*models.EngagementStats, error)
	// Get returns nil, nil when the user has no stats yet.
	Get(ctx context.Context, uid string) (*models.EngagementStats, error)
	Create(ctx context.Context, stats *models.EngagementStats) error
	// SaveStreak writes the streak fields and active days, leaving the
	// counters untouched.
	SaveStreak(ctx context.Context, stats *models.EngagementStats) error
	Increment(ctx context.Context, uid, column string) error
}

type engagementRepository struct {
	db *gorm.DB
}

// NewEngagementRepository returns a new EngagementRepository implementation.
func NewEngagementRepository(db *gorm.DB) EngagementRepository {
	return &engagementRepository{db: db}
}

func (r *engagementRepository) Lock(ctx context.Context, uid string) (*models.EngagementStats, error) {
	return r.find(forUpdate(r.db.WithContext(ctx)), uid)
}

func (r *engagementRepository) Get(ctx context.Context, uid string) (*models.EngagementStats, error) {
	return r.find(readDB(r.db).WithContext(ctx), uid)
}

func (r *engagementRepository) find(db *gorm.DB, uid string) (*models.EngagementStats, error) {
	var stats models.EngagementStats
	if err := db.Where("user_id = ?", uid).First(&stats).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get engagement for %s: %w", uid, err)
	}
	return &stats, nil
}

func (r *engagementRepository) Create(ctx context.Context, stats *models.EngagementStats) error {
	if err := r.db.WithContext(ctx).Create(stats).Error; err != nil {
		return fmt.Errorf("create engagement for %s: %w", stats.UserID, err)
	}
	return nil
}

func (r *engagementRepository) SaveStreak(ctx context.Context, stats *models.EngagementStats) error {
	err := r.db.WithContext(ctx).Model(&models.EngagementStats{}).Where("user_id = ?", stats.UserID).Updates(map[string]interface{}{
		"last_active_date": stats.LastActiveDate,
		"current_streak":   stats.CurrentStreak,
		"best_streak":      stats.BestStreak,
		"active_days_map":  stats.ActiveDaysMap,
	}).Error
	if err != nil {
		return fmt.Errorf("save streak for %s: %w", stats.UserID, err)
	}
	return nil
}

func (r *engagementRepository) Increment(ctx context.Context, uid, column string) error {
	switch column {
	case CounterVersesRead, CounterPrayersCompleted, CounterPostsCreated:
	default:
		return fmt.Errorf("unknown engagement counter %q", column)
	}

	err := r.db.WithContext(ctx).Model(&models.EngagementStats{}).Where("user_id = ?", uid).
		Update(column, gorm.Expr(column+" + ?", 1)).Error
	if err != nil {
		return fmt.Errorf("increment %s for %s: %w", column, uid, err)
	}
	return nil
}
