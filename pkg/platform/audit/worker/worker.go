package worker

import (
	"context"
	"log/slog"

	audit "stargate/pkg/platform/audit"
)

// Worker consumes activity entries from a channel and persists them. A failed
// write is logged and the worker moves on to the next entry.
type Worker struct {
	store  audit.Store
	inbox  <-chan audit.Event
	logger *slog.Logger
}

func NewWorker(store audit.Store, inbox <-chan audit.Event, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Worker{store: store, inbox: inbox, logger: logger}
}

// Run returns nil once inbox is closed and drained, or ctx.Err() on cancellation.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.inbox:
			if !ok {
				return nil
			}
			if err := w.store.Append(ctx, event); err != nil {
				w.logger.Error("failed to persist activity entry",
					"error", err,
					"message", event.Message,
					"request_id", event.RequestID,
				)
			}
		}
	}
}
