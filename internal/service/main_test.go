package service

import (
	"sync"
	"testing"
	"time"

	"dailyverse/internal/config"
	"dailyverse/internal/repository"
	"dailyverse/internal/testutil"

	"gorm.io/gorm"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock(start time.Time) *testClock {
	return &testClock{now: start}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestStore(t *testing.T) (repository.Store, *gorm.DB) {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	return repository.NewStore(db, repository.TxOptions{MaxAttempts: 5, InitialBackoff: time.Millisecond}), db
}

func testRules() config.Rules {
	return config.DefaultRules()
}
