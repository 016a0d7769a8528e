// Package service implements the transactional state transitions behind the API.
package service

import (
	"time"

	"dailyverse/internal/models"
	"dailyverse/internal/observability"
)

// Clock returns the current time. Services read it once per operation.
type Clock func() time.Time

func utcNow() time.Time {
	return time.Now().UTC()
}

func clockOrDefault(now Clock) Clock {
	if now == nil {
		return utcNow
	}
	return func() time.Time { return now().UTC() }
}

// recordOutcome classifies err for the operations counter. Typed client
// errors are rejections, anything else is an error.
func recordOutcome(operation string, err error, noop bool) {
	switch {
	case err == nil && noop:
		observability.RecordOperation(operation, observability.OutcomeNoop)
	case err == nil:
		observability.RecordOperation(operation, observability.OutcomeOK)
	case models.IsCode(err, models.CodeInternal):
		observability.RecordOperation(operation, observability.OutcomeError)
	default:
		if _, ok := models.AsAppError(err); ok {
			observability.RecordOperation(operation, observability.OutcomeRejected)
			return
		}
		observability.RecordOperation(operation, observability.OutcomeError)
	}
}
