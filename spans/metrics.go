package spans

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// spanWithoutTracerCounter tracks the number of times a span was attempted
// without a tracer in the context. This identifies instrumentation gaps
// where spans.WithTracer() was never called on the request path.
//
// Metric name: modelparams_spans_without_tracer_total
// Labels:
//   - span_name: The name of the span that was attempted
var spanWithoutTracerCounter = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "modelparams",
		Subsystem: "spans",
		Name:      "without_tracer_total",
		Help:      "Total number of span executions without a tracer in context",
	},
	[]string{"span_name"},
)
