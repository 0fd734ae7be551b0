package pending

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Completion outcomes recorded by the registry.
const (
	OutcomeResolved = "resolved"
	OutcomeRejected = "rejected"
	OutcomeDropped  = "dropped"
)

type metrics struct {
	pending     prometheus.Gauge
	completions *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "indywasm",
			Subsystem: "bridge",
			Name:      "pending_calls",
			Help:      "Native calls registered and awaiting their completion.",
		}),
		completions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "indywasm",
			Subsystem: "bridge",
			Name:      "completions_total",
			Help:      "Native completions by outcome.",
		}, []string{"outcome"}),
	}
	if reg != nil {
		reg.MustRegister(m.pending, m.completions)
	}
	return m
}

func (m *metrics) completed(outcome string) {
	m.completions.WithLabelValues(outcome).Inc()
}
