// Package metrics wraps Prometheus collectors for evaluation outcomes and
// cache lookups.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/funvibe/evalkit/internal/config"
)

// Evaluation outcomes, used as the "outcome" label.
const (
	OutcomeCalled      = "called"
	OutcomePassthrough = "passthrough"
	OutcomeInert       = "inert"
	OutcomeNoMatch     = "no_match"
	OutcomeFailed      = "failed"
	OutcomeStatic      = "static"
)

// Collector implements cache.Observer and evaluator.Observer.
type Collector struct {
	registry *prometheus.Registry

	evaluations  *prometheus.CounterVec
	cacheLookups *prometheus.CounterVec
	frames       prometheus.Histogram
}

// NewCollector registers evalkit's metrics on a fresh registry.
func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = config.DefaultMetricsNamespace
	}

	c := &Collector{registry: prometheus.NewRegistry()}

	c.evaluations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "evaluator",
			Name:      "evaluations_total",
			Help:      "Evaluations by outcome (called, passthrough, inert, no_match, failed, static)",
		},
		[]string{"outcome"},
	)

	c.cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Cache lookups by cache and result (hit, miss)",
		},
		[]string{"cache", "result"},
	)

	c.frames = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "traceback",
			Name:      "frames",
			Help:      "Number of frames in reconstructed synthetic tracebacks",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 8), // 1 to 128
		},
	)

	c.registry.MustRegister(c.evaluations, c.cacheLookups, c.frames)
	return c
}

// Registry returns the registry holding the collectors.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Evaluated counts one evaluation outcome.
func (c *Collector) Evaluated(outcome string) {
	c.evaluations.WithLabelValues(outcome).Inc()
}

// CacheLookup counts one cache hit or miss.
func (c *Collector) CacheLookup(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	c.cacheLookups.WithLabelValues(cache, result).Inc()
}

// TracebackBuilt records the depth of a reconstructed traceback.
func (c *Collector) TracebackBuilt(frames int) {
	c.frames.Observe(float64(frames))
}
