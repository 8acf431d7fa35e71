package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts eligibility outcomes.
type Metrics struct {
	Evaluations *prometheus.CounterVec
	Duration    prometheus.Histogram
}

// New registers the eligibility metrics on the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the metrics on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Evaluations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "helptoheat_eligibility_evaluations_total",
			Help: "Eligibility evaluations by outcome (none, gbis, gbis_eco4)",
		}, []string{"outcome"}),
		Duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "helptoheat_eligibility_duration_seconds",
			Help:    "Duration of eligibility evaluations",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.01},
		}),
	}
}

// ObserveOutcome records an evaluation. Safe on a nil receiver.
func (m *Metrics) ObserveOutcome(outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.Evaluations.WithLabelValues(outcome).Inc()
	m.Duration.Observe(time.Since(start).Seconds())
}
