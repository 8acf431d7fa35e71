package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts questionnaire traffic per page.
type Metrics struct {
	Submissions       *prometheus.CounterVec
	MissingAnswers    *prometheus.CounterVec
	ClosedSessionHits prometheus.Counter
}

// New registers the frontdoor metrics on the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the metrics on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "helptoheat_frontdoor_page_submissions_total",
			Help: "Accepted page submissions by page and next page",
		}, []string{"page", "next"}),
		MissingAnswers: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "helptoheat_frontdoor_missing_answers_total",
			Help: "Page submissions rejected for missing compulsory answers",
		}, []string{"page"}),
		ClosedSessionHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "helptoheat_frontdoor_closed_session_requests_total",
			Help: "Requests for a session whose referral was already submitted",
		}),
	}
}

func (m *Metrics) IncrementSubmission(page, next string) {
	if m == nil {
		return
	}
	m.Submissions.WithLabelValues(page, next).Inc()
}

func (m *Metrics) IncrementMissingAnswers(page string) {
	if m == nil {
		return
	}
	m.MissingAnswers.WithLabelValues(page).Inc()
}

func (m *Metrics) IncrementClosedSession() {
	if m == nil {
		return
	}
	m.ClosedSessionHits.Inc()
}
