package batch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// runsTotal counts batch validation runs.
	runsTotal = promauto.NewCounter(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "batch_validation_runs_total",
		Help: "The total number of batch validation runs",
	})

	// documentsTotal counts documents processed by batch runs.
	//
	// Labels:
	//   - outcome: "valid" or "invalid".
	documentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "batch_validation_documents_total",
		Help: "The total number of documents processed by batch validation runs",
	}, []string{"outcome"})

	// runTime tracks whole-run duration in seconds. Runs are memory-bound
	// once the corpus is loaded, so long tails point at oversized corpora
	// or starved worker pools.
	runTime = promauto.NewHistogram(prometheus.HistogramOpts{ //nolint:gochecknoglobals
		Name:    "batch_validation_run_time_seconds",
		Help:    "The time it takes to complete a batch validation run, in seconds",
		Buckets: prometheus.DefBuckets,
	})
)

const (
	outcomeValid   = "valid"
	outcomeInvalid = "invalid"
)

// init pre-initializes the outcome label set, so rate() queries see complete
// time series from process start.
func init() {
	documentsTotal.WithLabelValues(outcomeValid).Add(0)
	documentsTotal.WithLabelValues(outcomeInvalid).Add(0)
}
