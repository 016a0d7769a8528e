package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"dailyverse/internal/database"
	"dailyverse/internal/middleware"
	"dailyverse/internal/models"
	"dailyverse/internal/observability"

	"github.com/cenkalti/backoff/v5"
	"gorm.io/gorm"
)

// Repositories groups the repositories bound to one database handle, either
// the root connection or an open transaction.
type Repositories struct {
	Users      UserRepository
	Usernames  UsernameRepository
	Follows    FollowRepository
	LivePosts  LivePostRepository
	Engagement EngagementRepository
}

// NewRepositories binds every repository to db.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:      NewUserRepository(db),
		Usernames:  NewUsernameRepository(db),
		Follows:    NewFollowRepository(db),
		LivePosts:  NewLivePostRepository(db),
		Engagement: NewEngagementRepository(db),
	}
}

// Store runs all-or-nothing units of work against the database.
type Store interface {
	// Repos returns repositories outside any transaction, for reads.
	Repos() *Repositories
	// RunTransaction runs fn in a transaction and retries the whole unit on
	// serialization failures, deadlocks, unique violations and busy errors.
	// Typed errors returned by fn roll back and are returned unchanged.
	RunTransaction(ctx context.Context, name string, fn func(*Repositories) error) error
}

// TxOptions bounds transaction retries.
type TxOptions struct {
	MaxAttempts    int
	InitialBackoff time.Duration
}

type gormStore struct {
	db    *gorm.DB
	repos *Repositories
	opts  TxOptions
}

// NewStore returns a Store over db.
func NewStore(db *gorm.DB, opts TxOptions) Store {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	if opts.InitialBackoff <= 0 {
		opts.InitialBackoff = 20 * time.Millisecond
	}
	return &gormStore{db: db, repos: NewRepositories(db), opts: opts}
}

func (s *gormStore) Repos() *Repositories {
	return s.repos
}

func (s *gormStore) txOptions() []*sql.TxOptions {
	if s.db.Name() == "postgres" {
		return []*sql.TxOptions{{Isolation: sql.LevelSerializable}}
	}
	return nil
}

func (s *gormStore) RunTransaction(ctx context.Context, name string, fn func(*Repositories) error) error {
	span, ctx := observability.StartTransaction(ctx, name)
	defer span.End()
	defer observability.TrackTransaction(name)()

	attempts := 0
	operation := func() (struct{}, error) {
		attempts++
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(NewRepositories(tx))
		}, s.txOptions()...)
		if err == nil {
			return struct{}{}, nil
		}
		if _, ok := models.AsAppError(err); ok {
			return struct{}{}, backoff.Permanent(err)
		}
		if !database.IsRetryable(err) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.opts.InitialBackoff
	b.MaxInterval = 40 * s.opts.InitialBackoff

	_, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(s.opts.MaxAttempts)),
		backoff.WithNotify(func(err error, next time.Duration) {
			reason := database.RetryReason(err)
			observability.TransactionRetries.WithLabelValues(name, reason).Inc()
			middleware.Logger.WarnContext(ctx, "Retrying transaction",
				slog.String("operation", name),
				slog.String("reason", reason),
				slog.Int("attempt", attempts),
				slog.Duration("backoff", next),
			)
		}),
	)

	span.SetAttempts(attempts)
	if err == nil {
		return nil
	}

	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		err = permanent.Unwrap()
	}
	if _, ok := models.AsAppError(err); ok {
		return err
	}

	span.SetError(err)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	middleware.Logger.ErrorContext(ctx, "Transaction failed",
		slog.String("operation", name),
		slog.Int("attempts", attempts),
		slog.String("trace_id", span.TraceID()),
		slog.String("error", err.Error()),
	)
	return models.NewInternalError(err)
}
