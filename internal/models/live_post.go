package models

import "time"

// LivePostStatus is the lifecycle state of a live post.
type LivePostStatus string

const (
	// LivePostStatusActive is set at creation.
	LivePostStatusActive LivePostStatus = "active"
	// LivePostStatusEnded is terminal.
	LivePostStatusEnded LivePostStatus = "ended"
)

// LivePost is an ephemeral post. Author fields are copied at creation time.
type LivePost struct {
	ID             string         `gorm:"primaryKey;size:36" json:"id"`
	Text           string         `gorm:"type:text;not null" json:"text"`
	AuthorUID      string         `gorm:"column:author_uid;size:128;not null;index" json:"author_uid"`
	AuthorName     string         `gorm:"size:120;not null" json:"author_name"`
	AuthorUsername string         `gorm:"size:20" json:"author_username,omitempty"`
	AuthorPhoto    string         `gorm:"size:1024" json:"author_photo,omitempty"`
	Status         LivePostStatus `gorm:"type:varchar(10);not null;default:'active';index:idx_live_posts_status_end_at,priority:1" json:"status"`
	CreatedAt      time.Time      `json:"created_at"`
	LiveUntil      time.Time      `gorm:"not null" json:"live_until"`
	EndAt          time.Time      `gorm:"not null;index:idx_live_posts_status_end_at,priority:2" json:"end_at"`
	EndedAt        *time.Time     `json:"ended_at,omitempty"`
	LikeCount      int64          `gorm:"not null;default:0" json:"like_count"`
	JoinCount      int64          `gorm:"not null;default:0" json:"join_count"`
	CommentCount   int64          `gorm:"not null;default:0" json:"comment_count"`
}

// TableName specifies the table name for GORM
func (LivePost) TableName() string {
	return "live_posts"
}
