package repository

import (
	"context"
	"testing"
	"time"

	"dailyverse/internal/models"
	"dailyverse/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_EnsureIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t)
	repo := NewUserRepository(db)

	existing := testutil.CreateUser(t, db)

	require.NoError(t, repo.Ensure(ctx, existing.ID))
	require.NoError(t, repo.Ensure(ctx, "fresh"))
	require.NoError(t, repo.Ensure(ctx, "fresh"))

	got, err := repo.GetByID(ctx, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, existing.DisplayName, got.DisplayName, "Ensure must not overwrite")

	fresh, err := repo.Lock(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, "free", fresh.Plan)
	assert.Zero(t, fresh.PostsCount)
}

func TestUserRepository_MissingUser(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(testutil.NewSQLiteDB(t))

	user, err := repo.FindByID(ctx, "ghost")
	require.NoError(t, err)
	assert.Nil(t, user)

	_, err = repo.GetByID(ctx, "ghost")
	assert.True(t, models.IsCode(err, models.CodeNotFound))

	_, err = repo.Lock(ctx, "ghost")
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestUserRepository_AdjustCounter(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t)
	repo := NewUserRepository(db)
	user := testutil.CreateUser(t, db)

	require.NoError(t, repo.AdjustCounter(ctx, user.ID, CounterFollowers, 1))
	require.NoError(t, repo.AdjustCounter(ctx, user.ID, CounterFollowers, 1))
	require.NoError(t, repo.AdjustCounter(ctx, user.ID, CounterFollowers, -1))

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.FollowersCount)

	assert.Error(t, repo.AdjustCounter(ctx, user.ID, "plan", 1))
}

func TestUserRepository_RecordLivePostMergesEmptyFields(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t)
	repo := NewUserRepository(db)

	named := testutil.CreateUser(t, db)
	blank := testutil.CreateUser(t, db, func(u *models.User) {
		u.DisplayName = ""
		u.PhotoURL = ""
	})

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	profile := models.AuthorProfile{Name: "Resolved", PhotoURL: "https://img.example/p.png"}

	require.NoError(t, repo.RecordLivePost(ctx, named.ID, at, profile))
	require.NoError(t, repo.RecordLivePost(ctx, blank.ID, at, profile))

	got, err := repo.GetByID(ctx, named.ID)
	require.NoError(t, err)
	assert.Equal(t, named.DisplayName, got.DisplayName)
	assert.Equal(t, named.PhotoURL, got.PhotoURL)
	assert.Equal(t, int64(1), got.PostsCount)
	require.NotNil(t, got.LastPostAt)
	assert.True(t, at.Equal(*got.LastPostAt))

	got, err = repo.GetByID(ctx, blank.ID)
	require.NoError(t, err)
	assert.Equal(t, "Resolved", got.DisplayName)
	assert.Equal(t, "https://img.example/p.png", got.PhotoURL)
	assert.Empty(t, got.Username)
}

func TestUserRepository_RecordLivePostSkipsFallbackName(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t)
	repo := NewUserRepository(db)

	blank := testutil.CreateUser(t, db, func(u *models.User) {
		u.DisplayName = ""
		u.PhotoURL = ""
	})

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.RecordLivePost(ctx, blank.ID, at, models.AuthorProfile{Name: blank.ID, Fallback: true}))

	got, err := repo.GetByID(ctx, blank.ID)
	require.NoError(t, err)
	assert.Empty(t, got.DisplayName)
	assert.Equal(t, int64(1), got.PostsCount)

	require.NoError(t, repo.RecordLivePost(ctx, blank.ID, at.Add(time.Minute), models.AuthorProfile{Name: "Later Name"}))
	got, err = repo.GetByID(ctx, blank.ID)
	require.NoError(t, err)
	assert.Equal(t, "Later Name", got.DisplayName)
}

func TestUsernameRepository_ReserveAndRelease(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t)
	repo := NewUsernameRepository(db)
	name := testutil.Username()

	got, err := repo.Get(ctx, name)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, repo.Reserve(ctx, name, "u1"))
	err = repo.Reserve(ctx, name, "u2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UNIQUE constraint failed")

	require.NoError(t, repo.Release(ctx, name, "u2"))
	got, err = repo.Get(ctx, name)
	require.NoError(t, err)
	require.NotNil(t, got, "release by a non-owner is a no-op")
	assert.Equal(t, "u1", got.UID)

	require.NoError(t, repo.Release(ctx, name, "u1"))
	got, err = repo.Get(ctx, name)
	require.NoError(t, err)
	assert.Nil(t, got)
}
