package models

import "time"

// Follower records that FollowerID follows UserID, stored under the followed user.
type Follower struct {
	UserID     string    `gorm:"primaryKey;size:128" json:"user_id"`
	FollowerID string    `gorm:"primaryKey;size:128;index" json:"follower_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (Follower) TableName() string {
	return "followers"
}

// Following mirrors Follower under the following user.
type Following struct {
	UserID    string    `gorm:"primaryKey;size:128" json:"user_id"`
	TargetID  string    `gorm:"primaryKey;size:128;index" json:"target_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (Following) TableName() string {
	return "following"
}
