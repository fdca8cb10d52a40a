package audit

import (
	"context"
	"log/slog"
)

// Emitter is the publishing side of a Publisher.
type Emitter interface {
	Emit(ctx context.Context, event Event) error
}

// Recorder logs and emits the lifecycle events of one aggregate kind.
// Emission failures are logged, never returned; without an Emitter it only
// logs.
type Recorder struct {
	aggregate string
	emitter   Emitter
	logger    *slog.Logger
}

func NewRecorder(aggregate string, emitter Emitter, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{aggregate: aggregate, emitter: emitter, logger: logger}
}

// StateChanged records a publication that moved the derived state.
func (r *Recorder) StateChanged(ctx context.Context, id string, revision uint64, from, to string) {
	r.logger.InfoContext(ctx, "lifecycle state changed",
		"aggregate", r.aggregate,
		"aggregate_id", id,
		"from", from,
		"to", to,
		"revision", revision,
	)
	r.emit(ctx, Event{
		Kind:        KindStateChanged,
		Aggregate:   r.aggregate,
		AggregateID: id,
		Revision:    revision,
		FromState:   from,
		ToState:     to,
	})
}

// Denied records a section save that was not applied.
func (r *Recorder) Denied(ctx context.Context, id string, revision uint64, state, section, reason string) {
	r.logger.InfoContext(ctx, "section save denied",
		"aggregate", r.aggregate,
		"aggregate_id", id,
		"section", section,
		"state", state,
		"reason", reason,
	)
	r.emit(ctx, Event{
		Kind:        KindTransitionDenied,
		Aggregate:   r.aggregate,
		AggregateID: id,
		Revision:    revision,
		FromState:   state,
		Section:     section,
		Reason:      reason,
	})
}

func (r *Recorder) emit(ctx context.Context, event Event) {
	if r.emitter == nil {
		return
	}
	if err := r.emitter.Emit(ctx, event); err != nil {
		r.logger.WarnContext(ctx, "failed to emit audit event",
			"kind", event.Kind,
			"aggregate_id", event.AggregateID,
			"error", err,
		)
	}
}
