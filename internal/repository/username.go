package repository

import (
	"context"
	"errors"
	"fmt"

	"dailyverse/internal/models"

	"gorm.io/gorm"
)

// UsernameRepository persists username reservations. A reservation row is
// the authority on who owns a name.
type UsernameRepository interface {
	// Get returns nil, nil when the name is free.
	Get(ctx context.Context, username string) (*models.UsernameReservation, error)
	// Reserve inserts the reservation. A concurrent claim surfaces as a
	// unique violation.
	Reserve(ctx context.Context, username, uid string) error
	// Release deletes the reservation only if uid owns it.
	Release(ctx context.Context, username, uid string) error
}

type usernameRepository struct {
	db *gorm.DB
}

// NewUsernameRepository returns a new UsernameRepository implementation.
func NewUsernameRepository(db *gorm.DB) UsernameRepository {
	return &usernameRepository{db: db}
}

func (r *usernameRepository) Get(ctx context.Context, username string) (*models.UsernameReservation, error) {
	var reservation models.UsernameReservation
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&reservation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get username %s: %w", username, err)
	}
	return &reservation, nil
}

func (r *usernameRepository) Reserve(ctx context.Context, username, uid string) error {
	reservation := models.UsernameReservation{Username: username, UID: uid}
	if err := r.db.WithContext(ctx).Create(&reservation).Error; err != nil {
		return fmt.Errorf("reserve username %s: %w", username, err)
	}
	return nil
}

func (r *usernameRepository) Release(ctx context.Context, username, uid string) error {
	err := r.db.WithContext(ctx).
		Where("username = ? AND uid = ?", username, uid).
		Delete(&models.UsernameReservation{}).Error
	if err != nil {
		return fmt.Errorf("release username %s: %w", username, err)
	}
	return nil
}
