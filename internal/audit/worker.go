package audit

import (
	"context"
	"log/slog"
)

// Worker drains queued events into the store. Failed writes are logged and
// dropped so one bad event cannot stall the queue.
type Worker struct {
	store  Store
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(store Store, inbox <-chan Event, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{store: store, inbox: inbox, logger: logger}
}

// Run returns once the inbox is closed and empty. Cancelling ctx does not
// stop it; close the inbox (Publisher.Close) after the last producer stops.
func (w *Worker) Run(ctx context.Context) error {
	ctx = context.WithoutCancel(ctx)
	for event := range w.inbox {
		w.append(ctx, event)
	}
	return nil
}

func (w *Worker) append(ctx context.Context, event Event) {
	if err := w.store.Append(ctx, event); err != nil {
		w.logger.ErrorContext(ctx, "failed to persist audit event",
			"event", event.Name,
			"session_id", event.SessionID,
			"error", err,
		)
	}
}
