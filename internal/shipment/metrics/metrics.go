package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the lifecycle stores.
type Metrics struct {
	// Recompute cycles by aggregate kind ("import", "export")
	Recomputes *prometheus.CounterVec

	// Duration of a full recompute-and-publish cycle
	RecomputeLatency *prometheus.HistogramVec

	// Derived states observed after each publication
	StateObserved *prometheus.CounterVec

	// Section saves rejected by the transition guard
	TransitionDenials *prometheus.CounterVec

	// Updates folded into an earlier pending update of the same section
	CoalescedUpdates prometheus.Counter
}

// New registers all lifecycle metrics with the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers with reg; tests pass a fresh registry.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Recomputes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "clearance_recomputes_total",
			Help: "Total recompute cycles by aggregate kind",
		}, []string{"kind"}),

		RecomputeLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "clearance_recompute_duration_seconds",
			Help:    "Duration of a recompute-and-publish cycle",
			Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05},
		}, []string{"kind"}),

		StateObserved: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "clearance_state_observed_total",
			Help: "Derived lifecycle states observed after publication",
		}, []string{"kind", "state"}),

		TransitionDenials: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "clearance_transition_denials_total",
			Help: "Section saves rejected by the transition guard",
		}, []string{"section", "state"}),

		CoalescedUpdates: factory.NewCounter(prometheus.CounterOpts{
			Name: "clearance_coalesced_updates_total",
			Help: "Updates superseded by a later update of the same section before flush",
		}),
	}
}

// ObserveRecompute records one cycle and the state it produced.
func (m *Metrics) ObserveRecompute(kind, state string, d time.Duration) {
	if m != nil {
		m.Recomputes.WithLabelValues(kind).Inc()
		m.RecomputeLatency.WithLabelValues(kind).Observe(d.Seconds())
		m.StateObserved.WithLabelValues(kind, state).Inc()
	}
}

// IncrementDenial records a rejected section save.
func (m *Metrics) IncrementDenial(section, state string) {
	if m != nil {
		m.TransitionDenials.WithLabelValues(section, state).Inc()
	}
}

// AddCoalesced records updates superseded within a burst.
func (m *Metrics) AddCoalesced(n int) {
	if m != nil && n > 0 {
		m.CoalescedUpdates.Add(float64(n))
	}
}
