package paramcheck

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// validationsTotal counts Validate and ValidateParameter calls.
	//
	// Labels:
	//   - has_error: "true" when the call returned validation failures,
	//     "false" when the input validated cleanly.
	//
	// Example PromQL query:
	//   sum(rate(parameter_validation_calls_total{has_error="true"}[5m]))
	//     / sum(rate(parameter_validation_calls_total[5m]))
	validationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "parameter_validation_calls_total",
		Help: "The total number of parameter validation calls",
	}, []string{"has_error"})

	// validationFailures counts individual failures by kind, so dashboards
	// can show which contract rules documents trip most.
	//
	// Labels:
	//   - kind: the failure kind, e.g. "out_of_range" or "unknown_field".
	validationFailures = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "parameter_validation_failures_total",
		Help: "The total number of individual validation failures, by kind",
	}, []string{"kind"})

	// validationTime tracks validation duration in milliseconds. The
	// contract is checked entirely in memory, so the buckets lean
	// sub-millisecond; anything in the upper buckets points at pathological
	// documents.
	validationTime = promauto.NewHistogramVec(prometheus.HistogramOpts{ //nolint:gochecknoglobals
		Name: "parameter_validation_time_millis",
		Help: "The time it takes to validate a parameter document, in milliseconds",
		Buckets: []float64{
			0.01, 0.05, 0.1, 0.5, 1, 5, 10, 50, 100,
		},
	}, []string{"has_error"})
)

// init pre-initializes every label combination, so rate() queries and alerts
// see complete time series from process start instead of gaps until the
// first failure of each kind occurs.
func init() {
	validationsTotal.WithLabelValues("true").Add(0)
	validationsTotal.WithLabelValues("false").Add(0)

	for _, kind := range Kinds() {
		validationFailures.WithLabelValues(string(kind)).Add(0)
	}
}

// observeValidation records one validation call and its failures.
func observeValidation(start time.Time, aggregate *Errors) {
	hasError := "false"
	if aggregate.Len() > 0 {
		hasError = "true"
	}

	elapsed := float64(time.Since(start).Microseconds()) / 1000.0

	validationsTotal.WithLabelValues(hasError).Inc()
	validationTime.WithLabelValues(hasError).Observe(elapsed)

	for _, failure := range aggregate.All() {
		validationFailures.WithLabelValues(string(failure.Kind)).Inc()
	}
}
