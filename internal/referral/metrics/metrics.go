package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks referral creation, duplicate checks and exports.
type Metrics struct {
	Created         *prometheus.CounterVec
	DuplicateChecks *prometheus.CounterVec
	Downloads       prometheus.Counter
	PublishFailures prometheus.Counter
}

func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Created: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "helptoheat_referrals_created_total",
			Help: "Referrals created by receiving supplier",
		}, []string{"supplier"}),
		DuplicateChecks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "helptoheat_referral_duplicate_checks_total",
			Help: "Duplicate referral checks by result (none, same_supplier, other_supplier)",
		}, []string{"result"}),
		Downloads: factory.NewCounter(prometheus.CounterOpts{
			Name: "helptoheat_referral_downloads_total",
			Help: "Referral download batches created",
		}),
		PublishFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "helptoheat_referral_publish_failures_total",
			Help: "Referrals that could not be published to the lead topic",
		}),
	}
}

func (m *Metrics) IncrementCreated(supplier string) {
	if m == nil {
		return
	}
	m.Created.WithLabelValues(supplier).Inc()
}

func (m *Metrics) IncrementDuplicateCheck(result string) {
	if m == nil {
		return
	}
	m.DuplicateChecks.WithLabelValues(result).Inc()
}

func (m *Metrics) IncrementDownloads() {
	if m == nil {
		return
	}
	m.Downloads.Inc()
}

func (m *Metrics) IncrementPublishFailures() {
	if m == nil {
		return
	}
	m.PublishFailures.Inc()
}
