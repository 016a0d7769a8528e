package models

import "time"

// UsernameReservation claims a normalized handle for exactly one user.
type UsernameReservation struct {
	Username  string    `gorm:"primaryKey;size:20" json:"username"`
	UID       string    `gorm:"column:uid;size:128;not null;index" json:"uid"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (UsernameReservation) TableName() string {
	return "username_reservations"
}
