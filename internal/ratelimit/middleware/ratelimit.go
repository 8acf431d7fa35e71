package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"helptoheat/internal/ratelimit/metrics"
	"helptoheat/internal/ratelimit/models"
	dErrors "helptoheat/pkg/domain-errors"
	"helptoheat/pkg/platform/circuit"
	"helptoheat/pkg/platform/httputil"
	"helptoheat/pkg/requestcontext"
)

// HeaderStatus is set to "degraded" while checks run on the fallback store.
const HeaderStatus = "X-RateLimit-Status"

// DefaultProbeInterval spaces out primary checks while the breaker is open.
const DefaultProbeInterval = 5 * time.Second

type Store interface {
	Allow(ctx context.Context, key string, limit models.Limit) (*models.Result, error)
}

// Middleware limits requests per client IP. When the primary store keeps
// failing the breaker opens and checks move to the fallback store until the
// primary recovers.
type Middleware struct {
	primary  Store
	fallback Store
	breaker  *circuit.Breaker
	limits   map[models.EndpointClass]models.Limit
	logger   *slog.Logger
	metrics  *metrics.Metrics
	disabled bool

	probeInterval time.Duration
	probeMu       sync.Mutex
	nextProbe     time.Time
}

type Option func(*Middleware)

func WithFallback(store Store) Option {
	return func(m *Middleware) { m.fallback = store }
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(m *Middleware) { m.breaker = b }
}

func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Middleware) { m.metrics = mt }
}

// WithProbeInterval sets how often an open breaker lets one request through
// to the primary store. Non-positive values are ignored.
func WithProbeInterval(d time.Duration) Option {
	return func(m *Middleware) {
		if d > 0 {
			m.probeInterval = d
		}
	}
}

// WithDisabled turns every check into a pass-through.
func WithDisabled(disabled bool) Option {
	return func(m *Middleware) { m.disabled = disabled }
}

func New(primary Store, limits map[models.EndpointClass]models.Limit, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{
		primary: primary,
		limits:  limits,
		logger:  logger,
		breaker: circuit.New("ratelimit"),

		probeInterval: DefaultProbeInterval,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.disabled {
		logger.Info("rate limiting disabled")
	}
	return m
}

// Limit enforces the budget of class on the wrapped routes. Classes without
// a configured budget are not limited.
func (m *Middleware) Limit(class models.EndpointClass) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limit, ok := m.limits[class]
			if m.disabled || !ok || limit.Requests <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			result, degraded, err := m.check(ctx, models.Key(class, requestcontext.ClientIP(ctx)), limit)
			if err != nil {
				// Checks fail open.
				m.logger.ErrorContext(ctx, "rate limit check failed",
					"request_id", requestcontext.RequestID(ctx),
					"class", string(class),
					"error", err,
				)
				next.ServeHTTP(w, r)
				return
			}

			addHeaders(w, result)
			if degraded {
				w.Header().Set(HeaderStatus, "degraded")
			}
			if !result.Allowed {
				m.metrics.IncrementRejected(string(class))
				w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
				httputil.WriteError(w, dErrors.New(dErrors.CodeRateLimited, "Too many requests. Please try again later."))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (m *Middleware) check(ctx context.Context, key string, limit models.Limit) (*models.Result, bool, error) {
	if m.fallback == nil {
		result, err := m.primary.Allow(ctx, key, limit)
		return result, false, err
	}

	if !m.breaker.IsOpen() {
		result, err := m.primary.Allow(ctx, key, limit)
		if err == nil {
			m.breaker.RecordSuccess()
			return result, false, nil
		}
		useFallback, change := m.breaker.RecordFailure()
		if change.Opened {
			m.scheduleProbe(requestcontext.Now(ctx))
			m.metrics.IncrementBreakerOpened()
			m.logger.WarnContext(ctx, "rate limit store unavailable, using fallback", "breaker", m.breaker.Name(), "error", err)
		}
		if !useFallback {
			return nil, false, err
		}
	} else if m.probeDue(requestcontext.Now(ctx)) {
		m.probe(ctx, key, limit)
	}

	m.metrics.IncrementFallback()
	result, err := m.fallback.Allow(ctx, key, limit)
	return result, true, err
}

// probe checks the primary while the breaker is open so it can close. The
// result is discarded; the fallback still answers this request.
func (m *Middleware) probe(ctx context.Context, key string, limit models.Limit) {
	if _, err := m.primary.Allow(ctx, key, limit); err != nil {
		m.breaker.RecordFailure()
		return
	}
	if _, change := m.breaker.RecordSuccess(); change.Closed {
		m.logger.InfoContext(ctx, "rate limit store recovered", "breaker", m.breaker.Name())
	}
}

// probeDue reports whether this request is the one allowed through to the
// primary for the current interval.
func (m *Middleware) probeDue(now time.Time) bool {
	m.probeMu.Lock()
	defer m.probeMu.Unlock()
	if now.Before(m.nextProbe) {
		return false
	}
	m.nextProbe = now.Add(m.probeInterval)
	return true
}

func (m *Middleware) scheduleProbe(now time.Time) {
	m.probeMu.Lock()
	defer m.probeMu.Unlock()
	m.nextProbe = now.Add(m.probeInterval)
}

func addHeaders(w http.ResponseWriter, result *models.Result) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}
