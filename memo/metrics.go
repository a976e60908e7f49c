package memo

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// hitCounter counts validations answered from the cache.
	//
	// Example PromQL query:
	//   rate(modelparams_memo_hits_total[5m]) /
	//     (rate(modelparams_memo_hits_total[5m]) + rate(modelparams_memo_misses_total[5m]))
	hitCounter = promauto.NewCounter(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Namespace: "modelparams",
		Subsystem: "memo",
		Name:      "hits_total",
		Help:      "Total number of validations answered from the cache",
	})

	// missCounter counts validations that had to run the checker.
	missCounter = promauto.NewCounter(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Namespace: "modelparams",
		Subsystem: "memo",
		Name:      "misses_total",
		Help:      "Total number of validations that ran the checker",
	})

	// uncachableCounter counts documents that could not be fingerprinted and
	// so bypassed the cache entirely.
	uncachableCounter = promauto.NewCounter(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Namespace: "modelparams",
		Subsystem: "memo",
		Name:      "uncachable_total",
		Help:      "Total number of validations that bypassed the cache",
	})

	// entriesGauge tracks the number of memoized outcomes.
	entriesGauge = promauto.NewGauge(prometheus.GaugeOpts{ //nolint:gochecknoglobals
		Namespace: "modelparams",
		Subsystem: "memo",
		Name:      "entries",
		Help:      "Number of memoized validation outcomes",
	})
)
