// Package metrics defines and registers all custom Prometheus metrics for the
// storefront API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation and exposed on /metrics next to the echoprometheus request
// metrics.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/99minutos/storefront-api/internal/core/domain"
)

const namespace = "storefront"

// Outcome labels shared by every metric below.
const (
	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts authentication attempts.
// Labels:
//   - operation: "register", "login" or "verify"
//   - result: "success", "rejected" (bad credentials, taken email, bad token) or "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of authentication attempts, by operation and result.",
	},
	[]string{"operation", "result"},
)

// ── Directory metrics ─────────────────────────────────────────────────────────

// DirectoryOperationsTotal counts account and catalog directory calls.
// Labels:
//   - directory: "accounts" or "catalog"
//   - operation: "list", "get", "create", "update" or "delete"
//   - result: see AuthAttemptsTotal
var DirectoryOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "directory_operations_total",
		Help:      "Total number of directory operations, by directory, operation and result.",
	},
	[]string{"directory", "operation", "result"},
)

// DirectoryOperationDuration measures directory calls including store round trips.
var DirectoryOperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "directory_operation_duration_seconds",
		Help:      "Duration of directory operations including record store round trips.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"directory", "operation"},
)

// Result classifies err into an outcome label. Caller mistakes are
// "rejected"; store outages and anything unexpected are "error".
func Result(err error) string {
	switch {
	case err == nil:
		return ResultSuccess
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrInvalidRole):
		return ResultRejected
	default:
		return ResultError
	}
}

// ObserveAuth records one authentication attempt.
func ObserveAuth(operation string, err error) {
	AuthAttemptsTotal.WithLabelValues(operation, Result(err)).Inc()
}

// ObserveDirectory records one directory call that started at start.
func ObserveDirectory(directory, operation string, start time.Time, err error) {
	DirectoryOperationsTotal.WithLabelValues(directory, operation, Result(err)).Inc()
	DirectoryOperationDuration.WithLabelValues(directory, operation).Observe(time.Since(start).Seconds())
}
