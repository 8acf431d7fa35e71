package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Rejected        *prometheus.CounterVec
	FallbackChecks  prometheus.Counter
	BreakerOpenings prometheus.Counter
}

func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Rejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "helptoheat_ratelimit_rejected_total",
			Help: "Requests rejected by the rate limiter by endpoint class",
		}, []string{"class"}),
		FallbackChecks: factory.NewCounter(prometheus.CounterOpts{
			Name: "helptoheat_ratelimit_fallback_checks_total",
			Help: "Rate limit checks answered by the in-process fallback",
		}),
		BreakerOpenings: factory.NewCounter(prometheus.CounterOpts{
			Name: "helptoheat_ratelimit_breaker_opened_total",
			Help: "Times the shared limiter store was taken out of service",
		}),
	}
}

func (m *Metrics) IncrementRejected(class string) {
	if m == nil {
		return
	}
	m.Rejected.WithLabelValues(class).Inc()
}

func (m *Metrics) IncrementFallback() {
	if m == nil {
		return
	}
	m.FallbackChecks.Inc()
}

func (m *Metrics) IncrementBreakerOpened() {
	if m == nil {
		return
	}
	m.BreakerOpenings.Inc()
}
