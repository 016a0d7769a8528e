package service

import (
	"time"

	"dailyverse/internal/models"
)

// StreakState is the part of EngagementStats the streak machine reads and writes.
type StreakState struct {
	LastActiveDate string
	CurrentStreak  int
	BestStreak     int
}

// AdvanceStreak applies one day of activity. today and yesterday are UTC day
// keys. Marking the same day twice is idempotent, a gap of more than one day
// restarts the streak at 1, and BestStreak never decreases.
func AdvanceStreak(prev StreakState, today, yesterday string) StreakState {
	next := prev
	switch prev.LastActiveDate {
	case today:
		if next.CurrentStreak == 0 {
			next.CurrentStreak = 1
		}
	case yesterday:
		next.CurrentStreak = prev.CurrentStreak + 1
	default:
		next.CurrentStreak = 1
	}
	next.LastActiveDate = today
	if next.CurrentStreak > next.BestStreak {
		next.BestStreak = next.CurrentStreak
	}
	return next
}

// PruneActiveDays returns the keys of days that fall inside the trailing
// window ending at today. A window of 30 keeps today and the 29 days before it.
func PruneActiveDays(days map[string]bool, today time.Time, window int) map[string]bool {
	cutoff := today.UTC().AddDate(0, 0, -(window - 1)).Format(models.DateLayout)
	out := make(map[string]bool, len(days))
	for day, active := range days {
		if active && day >= cutoff {
			out[day] = true
		}
	}
	return out
}

func dayKeys(now time.Time) (today, yesterday string) {
	now = now.UTC()
	return now.Format(models.DateLayout), now.AddDate(0, 0, -1).Format(models.DateLayout)
}

func streakState(stats *models.EngagementStats) StreakState {
	return StreakState{
		LastActiveDate: stats.LastActiveDate,
		CurrentStreak:  stats.CurrentStreak,
		BestStreak:     stats.BestStreak,
	}
}
