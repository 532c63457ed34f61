package observability

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Joseda-hg/lazydiary/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestOutcome(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, OutcomeOK},
		{fmt.Errorf("diary 3: %w", model.ErrNotFound), OutcomeNotFound},
		{fmt.Errorf("page exists: %w", model.ErrConflict), OutcomeConflict},
		{fmt.Errorf("blank status: %w", model.ErrValidation), OutcomeValidation},
		{errors.New("disk full"), OutcomeError},
	}
	for _, tc := range cases {
		if got := Outcome(tc.err); got != tc.want {
			t.Fatalf("Outcome(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestMetricsRecordOperations(t *testing.T) {
	metrics := NewMetrics(prometheus.NewRegistry())

	metrics.ObserveOperation("rollover", nil, time.Millisecond)
	metrics.ObserveOperation("rollover", model.ErrConflict, time.Millisecond)
	metrics.AddCarried("rollover", 3)
	metrics.AddCarried("rollover", 0)
	metrics.ObserveRequest("POST", "/api/pages", "201")

	if got := testutil.ToFloat64(metrics.OperationsTotal.WithLabelValues("rollover", OutcomeOK)); got != 1 {
		t.Fatalf("expected 1 ok rollover, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.OperationsTotal.WithLabelValues("rollover", OutcomeConflict)); got != 1 {
		t.Fatalf("expected 1 conflicting rollover, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.TasksCarriedTotal.WithLabelValues("rollover")); got != 3 {
		t.Fatalf("expected 3 carried tasks, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues("POST", "/api/pages", "201")); got != 1 {
		t.Fatalf("expected 1 request, got %v", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var metrics *Metrics
	metrics.ObserveOperation("copy", nil, time.Second)
	metrics.AddCarried("copy", 2)
	metrics.ObserveRequest("GET", "/health", "200")
}
