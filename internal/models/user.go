// Package models contains data structures for the application's domain models.
package models

import (
	"time"
	"unicode/utf8"
)

// User is the profile row keyed by the identity provider's stable user id.
// Username uniqueness is owned by UsernameReservation; the columns here only
// mirror the currently claimed handle.
type User struct {
	ID             string     `gorm:"primaryKey;size:128" json:"id"`
	Username       string     `gorm:"size:20;index" json:"username"`
	UsernameLower  string     `gorm:"size:20;index" json:"username_lower"`
	DisplayName    string     `gorm:"size:120" json:"display_name"`
	PhotoURL       string     `gorm:"size:1024" json:"photo_url"`
	Plan           string     `gorm:"size:20;not null;default:'free'" json:"plan"`
	FollowersCount int64      `gorm:"not null;default:0;check:followers_count >= 0" json:"followers_count"`
	FollowingCount int64      `gorm:"not null;default:0;check:following_count >= 0" json:"following_count"`
	PostsCount     int64      `gorm:"not null;default:0;check:posts_count >= 0" json:"posts_count"`
	LastPostAt     *time.Time `json:"last_post_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// Column widths shared by users and live_posts, in characters.
const (
	MaxDisplayNameLen = 120
	MaxUsernameLen    = 20
	MaxPhotoURLLen    = 1024
)

// AuthorProfile is the denormalized author snapshot stored on live posts.
type AuthorProfile struct {
	Name     string `json:"name"`
	Username string `json:"username,omitempty"`
	PhotoURL string `json:"photo_url,omitempty"`
	// Fallback marks a name that is only the uid because no real profile was
	// found. It is shown on the post but never saved as the display name.
	Fallback bool `json:"-"`
}

// Bounded returns p fitted to the stored column widths. Names are cut at
// a character boundary; a photo URL that does not fit is dropped.
func (p AuthorProfile) Bounded() AuthorProfile {
	p.Name = truncateRunes(p.Name, MaxDisplayNameLen)
	p.Username = truncateRunes(p.Username, MaxUsernameLen)
	if utf8.RuneCountInString(p.PhotoURL) > MaxPhotoURLLen {
		p.PhotoURL = ""
	}
	return p
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
