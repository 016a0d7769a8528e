package models

import (
	"time"

	"gorm.io/datatypes"
)

// DateLayout is the UTC calendar-day key format used by engagement tracking.
const DateLayout = "2006-01-02"

// EngagementStats is the per-user daily activity record.
type EngagementStats struct {
	UserID                string                              `gorm:"primaryKey;size:128" json:"user_id"`
	LastActiveDate        string                              `gorm:"size:10" json:"last_active_date"`
	CurrentStreak         int                                 `gorm:"not null;default:0" json:"current_streak"`
	BestStreak            int                                 `gorm:"not null;default:0" json:"best_streak"`
	ActiveDaysMap         datatypes.JSONType[map[string]bool] `gorm:"not null" json:"active_days_map"`
	PrayersCompletedTotal int64                               `gorm:"not null;default:0" json:"prayers_completed_total"`
	VersesReadTotal       int64                               `gorm:"not null;default:0" json:"verses_read_total"`
	PostsCreatedTotal     int64                               `gorm:"not null;default:0" json:"posts_created_total"`
	CreatedAt             time.Time                           `json:"created_at"`
	UpdatedAt             time.Time                           `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (EngagementStats) TableName() string {
	return "engagement_stats"
}

// ActiveDays returns the stored set of active days, never nil.
func (s *EngagementStats) ActiveDays() map[string]bool {
	days := s.ActiveDaysMap.Data()
	if days == nil {
		return map[string]bool{}
	}
	return days
}

// SetActiveDays replaces the stored set of active days.
func (s *EngagementStats) SetActiveDays(days map[string]bool) {
	s.ActiveDaysMap = datatypes.NewJSONType(days)
}

// StreakSummary is returned by the streak-advancing operations.
type StreakSummary struct {
	Today         string `json:"today"`
	CurrentStreak int    `json:"current_streak"`
	BestStreak    int    `json:"best_streak"`
}
