// Package observability holds the prometheus metrics and the tracer
// provider used by the journal engine and the HTTP API.
package observability

import (
	"errors"
	"time"

	"github.com/Joseda-hg/lazydiary/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "lazydiary"

// Outcome labels.
const (
	OutcomeOK         = "ok"
	OutcomeNotFound   = "not_found"
	OutcomeConflict   = "conflict"
	OutcomeValidation = "invalid"
	OutcomeError      = "error"
)

// Metrics groups the journal and HTTP metrics. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	// OperationsTotal counts journal operations.
	// Labels: operation (rollover, copy, migrate, edit, history), outcome
	OperationsTotal *prometheus.CounterVec

	// OperationDurationSeconds measures one journal transaction.
	// Labels: operation
	OperationDurationSeconds *prometheus.HistogramVec

	// TasksCarriedTotal counts task instances cloned onto another page.
	// Labels: operation (rollover, copy, migrate, edit)
	TasksCarriedTotal *prometheus.CounterVec

	// HTTPRequestsTotal counts API requests.
	// Labels: method, route, status
	HTTPRequestsTotal *prometheus.CounterVec
}

// NewMetrics registers all metrics on reg. Passing a fresh registry keeps
// tests independent of the global one.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		OperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "journal",
				Name:      "operations_total",
				Help:      "Journal operations by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		OperationDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: "journal",
				Name:      "operation_duration_seconds",
				Help:      "Duration of one journal transaction",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
			},
			[]string{"operation"},
		),
		TasksCarriedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "journal",
				Name:      "tasks_carried_total",
				Help:      "Task instances cloned onto another page",
			},
			[]string{"operation"},
		),
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "API requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
	}
}

func (m *Metrics) ObserveOperation(operation string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	m.OperationsTotal.WithLabelValues(operation, Outcome(err)).Inc()
	m.OperationDurationSeconds.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *Metrics) AddCarried(operation string, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.TasksCarriedTotal.WithLabelValues(operation).Add(float64(count))
}

func (m *Metrics) ObserveRequest(method, route, status string) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
}

// Outcome classifies err into one of the outcome labels.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, model.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, model.ErrConflict):
		return OutcomeConflict
	case errors.Is(err, model.ErrValidation):
		return OutcomeValidation
	default:
		return OutcomeError
	}
}
