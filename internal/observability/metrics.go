package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for OperationsTotal.
const (
	OutcomeOK       = "ok"
	OutcomeNoop     = "noop"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

var (
	// OperationsTotal counts state-transition operations by name and outcome.
	OperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dailyverse_operations_total",
		Help: "Total number of state-transition operations by name and outcome",
	}, []string{"operation", "outcome"})

	// TransactionDuration records end-to-end transaction latency including retries.
	TransactionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dailyverse_transaction_duration_seconds",
		Help:    "Transaction latency in seconds, including retries",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	// TransactionRetries counts retried transaction attempts by operation and reason.
	TransactionRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dailyverse_transaction_retries_total",
		Help: "Total number of retried transaction attempts",
	}, []string{"operation", "reason"})

	// LivePostsExpired counts posts moved from active to ended by the sweep.
	LivePostsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dailyverse_live_posts_expired_total",
		Help: "Total number of live posts transitioned to ended",
	})

	// RedisErrors counts Redis errors by command and key family.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dailyverse_redis_errors_total",
		Help: "Total number of Redis errors by command and key family",
	}, []string{"command", "family"})

	// RateLimitRejections counts requests rejected by the redis request limiter.
	RateLimitRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dailyverse_rate_limit_rejections_total",
		Help: "Total number of requests rejected by the request rate limiter",
	}, []string{"resource"})
)

// RecordOperation increments OperationsTotal.
func RecordOperation(operation, outcome string) {
	OperationsTotal.WithLabelValues(operation, outcome).Inc()
}

// TrackTransaction returns a function that records transaction latency when called (e.g. defer).
func TrackTransaction(operation string) func() {
	start := time.Now()
	return func() {
		TransactionDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}
