package eligibility

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"helptoheat/internal/eligibility/metrics"
	q "helptoheat/internal/questionnaire"
)

const tracerName = "helptoheat/eligibility"

// Service evaluates eligibility with metrics and tracing around Calculate.
type Service struct {
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

// NewService builds a Service. A nil metrics disables counting.
func NewService(m *metrics.Metrics) *Service {
	return &Service{metrics: m, tracer: otel.Tracer(tracerName)}
}

// Evaluate returns the schemes the answers qualify for.
func (s *Service) Evaluate(ctx context.Context, answers q.Answers) []Scheme {
	start := time.Now()
	_, span := s.tracer.Start(ctx, "eligibility.Evaluate")
	defer span.End()

	schemes := Calculate(answers)
	outcome := Outcome(schemes)

	span.SetAttributes(
		attribute.String("eligibility.country", answers.String(q.FieldCountry)),
		attribute.String("eligibility.outcome", outcome),
	)
	s.metrics.ObserveOutcome(outcome, start)
	return schemes
}

// Outcome is a metric-friendly label for a scheme set.
func Outcome(schemes []Scheme) string {
	if len(schemes) == 0 {
		return "none"
	}
	parts := make([]string, len(schemes))
	for i, s := range schemes {
		parts[i] = strings.ToLower(string(s))
	}
	return strings.Join(parts, "_")
}
