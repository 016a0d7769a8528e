package database

import "dailyverse/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.UsernameReservation{},
		&models.Follower{},
		&models.Following{},
		&models.LivePost{},
		&models.EngagementStats{},
	}
}
