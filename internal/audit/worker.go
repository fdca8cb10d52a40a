package audit

import (
	"context"
	"log/slog"
)

// worker drains a publisher queue into a sink until the queue is closed.
// Append failures are logged; a lifecycle event is never retried.
type worker struct {
	sink   Sink
	inbox  <-chan Event
	logger *slog.Logger
}

func newWorker(sink Sink, inbox <-chan Event, logger *slog.Logger) *worker {
	return &worker{sink: sink, inbox: inbox, logger: logger}
}

func (w *worker) run() {
	ctx := context.Background()
	for event := range w.inbox {
		if err := w.sink.Append(ctx, event); err != nil {
			w.logger.ErrorContext(ctx, "failed to append audit event",
				"kind", event.Kind,
				"aggregate_id", event.AggregateID,
				"error", err,
			)
		}
	}
}
