// Package access decides which workflow windows an editor may change at the
// current import state and turns a rejected save into a readable reason.
package access

import (
	"fmt"

	"clearance/internal/shipment/lifecycle"
	"clearance/internal/shipment/models"
)

// Window is an editing area of the import workflow.
type Window string

const (
	WindowOrigin     Window = "Origin"
	WindowPreArrival Window = "PreArrival"
	WindowTerminal   Window = "Terminal"
	WindowCustoms    Window = "Customs"
	WindowTransport  Window = "Transport"
	WindowInvoicing  Window = "Invoicing"
)

// Windows lists every window in workflow order.
var Windows = []Window{
	WindowOrigin,
	WindowPreArrival,
	WindowTerminal,
	WindowCustoms,
	WindowTransport,
	WindowInvoicing,
}

// Label is the display name used in denial reasons.
func (w Window) Label() string {
	switch w {
	case WindowPreArrival:
		return "Pre-Arrival"
	default:
		return string(w)
	}
}

// opensAt is the first state at which each window accepts writes.
var opensAt = map[Window]models.ImportState{
	WindowOrigin:     models.StateDraft,
	WindowPreArrival: models.StatePreArrival,
	WindowTerminal:   models.StateTerminal,
	WindowCustoms:    models.StateCustoms,
	WindowTransport:  models.StateTransport,
	WindowInvoicing:  models.StateRefundPending,
}

// sectionWindows maps gated sections to their window. Sections not listed
// are only locked by an override.
var sectionWindows = map[models.Section]Window{
	models.SectionOrigin:      WindowOrigin,
	models.SectionPreArrival:  WindowPreArrival,
	models.SectionTerminal:    WindowTerminal,
	models.SectionCustoms:     WindowCustoms,
	models.SectionTransport:   WindowTransport,
	models.SectionBankClosure: WindowInvoicing,
}

// prerequisites names what the shipment still lacks while it sits in each
// working state.
var prerequisites = map[models.ImportState]string{
	models.StateDraft:           "Origin details",
	models.StatePreArrival:      "Pre-arrival documents",
	models.StateAwaitingPayment: "Duty payment",
	models.StateTerminal:        "Terminal clearance",
	models.StateCustoms:         "Customs release",
	models.StateCompliance:      "Regulatory compliance",
	models.StateTransport:       "Delivery",
}

const (
	ReasonClosed = "Shipment is closed"
	ReasonOnHold = "Shipment is on hold"
)

// WindowFor returns the window gating section, if any.
func WindowFor(section models.Section) (Window, bool) {
	w, ok := sectionWindows[section]
	return w, ok
}

// Editable reports whether w accepts writes at state.
func Editable(state models.ImportState, w Window) bool {
	milestone, ok := opensAt[w]
	if !ok {
		return false
	}
	return state.Reached(milestone)
}

// WindowMap is the editable flag for every window.
type WindowMap map[Window]bool

// EditableWindows computes the map for state.
func EditableWindows(state models.ImportState) WindowMap {
	out := make(WindowMap, len(Windows))
	for _, w := range Windows {
		out[w] = Editable(state, w)
	}
	return out
}

// Decision is the outcome of a transition check. A denial is a normal
// result the caller shows to the user, not an error.
type Decision struct {
	Allowed bool               `json:"allowed"`
	Reason  string             `json:"reason,omitempty"`
	State   models.ImportState `json:"state"`
	Section models.Section     `json:"section"`
	Window  Window             `json:"window,omitempty"`
}

// ValidateTransition re-derives the state of s and checks whether section
// may be saved now.
func ValidateTransition(s models.Shipment, section models.Section) Decision {
	state := lifecycle.DetailedLifecycleState(s)
	return Check(state, section)
}

// Check is ValidateTransition for an already derived state.
func Check(state models.ImportState, section models.Section) Decision {
	d := Decision{State: state, Section: section}

	switch state {
	case models.StateClosed:
		d.Reason = ReasonClosed
		return d
	case models.StateOnHold:
		d.Reason = ReasonOnHold
		return d
	}

	w, gated := WindowFor(section)
	if !gated {
		d.Allowed = true
		return d
	}
	d.Window = w
	if Editable(state, w) {
		d.Allowed = true
		return d
	}
	d.Reason = denialReason(state, w)
	return d
}

func denialReason(state models.ImportState, w Window) string {
	prerequisite, ok := prerequisites[state]
	if !ok {
		prerequisite = "Earlier steps"
	}
	return fmt.Sprintf("%s required before %s", prerequisite, w.Label())
}
