package database

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres SQLSTATE codes the transaction layer reacts to.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgUniqueViolation      = "23505"
)

// RetryReason classifies err as a transient concurrency conflict. It returns
// "" for errors that must not be retried.
func RetryReason(err error) string {
	if err == nil {
		return ""
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFailure:
			return "serialization_failure"
		case pgDeadlockDetected:
			return "deadlock"
		case pgUniqueViolation:
			return "unique_violation"
		}
		return ""
	}

	// sqlite reports through plain error strings.
	msg := err.Error()
	switch {
	case strings.Contains(msg, "database is locked"), strings.Contains(msg, "SQLITE_BUSY"):
		return "busy"
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return "unique_violation"
	}
	return ""
}

// IsRetryable reports whether err is a transient concurrency conflict.
func IsRetryable(err error) bool {
	return RetryReason(err) != ""
}

// IsUniqueViolation reports whether err is a unique or primary key violation.
func IsUniqueViolation(err error) bool {
	return RetryReason(err) == "unique_violation"
}
