package audit

import (
	"time"

	"github.com/google/uuid"
)

// Kind names a lifecycle event.
type Kind string

const (
	// KindStateChanged is emitted when a publication moves an aggregate to
	// a different derived state.
	KindStateChanged Kind = "state_changed"
	// KindTransitionDenied is emitted when a section save is rejected.
	KindTransitionDenied Kind = "transition_denied"
)

// Aggregate kinds carried on Event.Aggregate.
const (
	AggregateImport = "import"
	AggregateExport = "export"
)

// Event is emitted from the lifecycle stores. Keep it transport-agnostic so
// sinks can fan out.
type Event struct {
	ID          uuid.UUID `json:"id"`
	Kind        Kind      `json:"kind"`
	Aggregate   string    `json:"aggregate"`
	AggregateID string    `json:"aggregateId"`
	Revision    uint64    `json:"revision"`
	FromState   string    `json:"fromState,omitempty"`
	ToState     string    `json:"toState,omitempty"`
	Section     string    `json:"section,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
