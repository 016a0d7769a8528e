// Package repository implements the data access layer for the application.
package repository

import (
	"dailyverse/internal/database"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func readDB(primary *gorm.DB) *gorm.DB {
	if db := database.GetReadDB(); db != nil {
		return db
	}
	return primary
}

// forUpdate locks the selected rows until the surrounding transaction ends.
// SQLite ignores the clause and relies on its database-level write lock.
func forUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
}
