package testutil

import (
	"testing"
	"time"

	"dailyverse/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewUser builds an unsaved user with a random uid and profile.
func NewUser(overrides ...func(*models.User)) *models.User {
	user := &models.User{
		ID:          gofakeit.UUID(),
		DisplayName: gofakeit.Name(),
		PhotoURL:    gofakeit.URL(),
		Plan:        "free",
	}
	for _, override := range overrides {
		override(user)
	}
	return user
}

// CreateUser persists a user built by NewUser.
func CreateUser(t testing.TB, db *gorm.DB, overrides ...func(*models.User)) *models.User {
	t.Helper()
	user := NewUser(overrides...)
	require.NoError(t, db.Create(user).Error)
	return user
}

// Username returns a random name that passes username validation.
func Username() string {
	return gofakeit.Regex(`[a-z][a-z0-9_]{5,12}`)
}

// LivePostText returns a sentence long enough to be a valid live post.
func LivePostText() string {
	text := gofakeit.Sentence(8)
	for len([]rune(text)) < 10 {
		text += " " + gofakeit.Word()
	}
	if r := []rune(text); len(r) > 600 {
		text = string(r[:600])
	}
	return text
}

// NewLivePost builds an unsaved active post created now by a random author.
func NewLivePost(overrides ...func(*models.LivePost)) *models.LivePost {
	now := time.Now().UTC()
	post := &models.LivePost{
		ID:         uuid.NewString(),
		Text:       LivePostText(),
		AuthorUID:  gofakeit.UUID(),
		AuthorName: gofakeit.Name(),
		Status:     models.LivePostStatusActive,
		CreatedAt:  now,
		LiveUntil:  now.Add(time.Minute),
		EndAt:      now.Add(24 * time.Hour),
	}
	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreateLivePost persists a post built by NewLivePost.
func CreateLivePost(t testing.TB, db *gorm.DB, overrides ...func(*models.LivePost)) *models.LivePost {
	t.Helper()
	post := NewLivePost(overrides...)
	require.NoError(t, db.Create(post).Error)
	return post
}
