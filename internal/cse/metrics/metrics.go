// Package metrics exports access decisions as Prometheus metrics via the
// decision observer hook.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"colmto/internal/vehicle"
)

type Metrics struct {
	DecisionsTotal  *prometheus.CounterVec
	DecisionLatency prometheus.Histogram
}

// New creates and registers the decision metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		DecisionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "colmto_cse_decisions_total",
			Help: "Total number of OTL access decisions by access class",
		}, []string{"class"}),
		DecisionLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "colmto_cse_decision_duration_seconds",
			Help:    "Latency of a single vehicle evaluation against the rule set",
			Buckets: prometheus.ExponentialBuckets(1e-7, 10, 8),
		}),
	}
}

// ObserveDecision implements the CSE decision observer.
func (m *Metrics) ObserveDecision(_ string, class vehicle.AccessClass, duration time.Duration) {
	m.DecisionsTotal.WithLabelValues(class.String()).Inc()
	m.DecisionLatency.Observe(duration.Seconds())
}
