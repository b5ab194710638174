package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Roll outcomes
const (
	OutcomeExecuted = "executed"
	OutcomeBlocked  = "blocked"
	OutcomeFailed   = "failed"
)

// Webhook dispatch results
const (
	DispatchSent   = "sent"
	DispatchFailed = "failed"
)

// Metrics are the roll engine's Prometheus collectors
type Metrics struct {
	registry *prometheus.Registry

	rolls      *prometheus.CounterVec
	dispatches *prometheus.CounterVec
	totals     prometheus.Histogram
}

// NewMetrics registers the collectors on a private registry
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		rolls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storycraft_rolls_total",
			Help: "Action and formula rolls by outcome.",
		}, []string{"outcome"}),
		dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storycraft_webhook_dispatch_total",
			Help: "Webhook posts by result.",
		}, []string{"result"}),
		totals: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "storycraft_roll_total_value",
			Help:    "Distribution of roll totals.",
			Buckets: prometheus.LinearBuckets(-10, 5, 14),
		}),
	}
	m.registry.MustRegister(m.rolls, m.dispatches, m.totals)
	return m
}

// RollExecuted counts a finished roll and observes its total
func (m *Metrics) RollExecuted(total int) {
	if m == nil {
		return
	}
	m.rolls.WithLabelValues(OutcomeExecuted).Inc()
	m.totals.Observe(float64(total))
}

// RollBlocked counts a roll refused for lack of HP or MP
func (m *Metrics) RollBlocked() {
	if m == nil {
		return
	}
	m.rolls.WithLabelValues(OutcomeBlocked).Inc()
}

// RollFailed counts a roll that errored
func (m *Metrics) RollFailed() {
	if m == nil {
		return
	}
	m.rolls.WithLabelValues(OutcomeFailed).Inc()
}

// Dispatch counts a webhook post attempt
func (m *Metrics) Dispatch(result string) {
	if m == nil {
		return
	}
	m.dispatches.WithLabelValues(result).Inc()
}

// Registry exposes the registry for tests and custom exporters
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
