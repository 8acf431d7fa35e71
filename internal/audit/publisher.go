package audit

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"helptoheat/pkg/requestcontext"
)

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListBySession(ctx context.Context, sessionID string) ([]Event, error)
}

// Publisher records audit events. With a queue the write happens on the
// Worker; a full or closed queue falls back to a synchronous append.
type Publisher struct {
	store  Store
	logger *slog.Logger

	mu     sync.RWMutex
	queue  chan<- Event
	closed bool
}

type PublisherOption func(*Publisher)

// WithQueue hands events to a Worker instead of writing inline.
func WithQueue(queue chan<- Event) PublisherOption {
	return func(p *Publisher) { p.queue = queue }
}

func WithLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) { p.logger = logger }
}

func NewPublisher(store Store, opts ...PublisherOption) *Publisher {
	p := &Publisher{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = requestcontext.Now(ctx)
	}
	if event.Data == nil {
		event.Data = map[string]any{}
	}
	if p.enqueue(ctx, event) {
		return nil
	}
	return p.store.Append(ctx, event)
}

func (p *Publisher) enqueue(ctx context.Context, event Event) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.queue == nil || p.closed {
		return false
	}
	select {
	case p.queue <- event:
		return true
	default:
		p.logger.WarnContext(ctx, "audit queue full, writing inline", "event", event.Name)
		return false
	}
}

// Close closes the queue so the Worker finishes once it has drained it.
// Events emitted afterwards are written inline. Safe to call more than once.
func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.queue == nil || p.closed {
		return
	}
	p.closed = true
	close(p.queue)
}

func (p *Publisher) ListBySession(ctx context.Context, sessionID string) ([]Event, error) {
	return p.store.ListBySession(ctx, sessionID)
}
