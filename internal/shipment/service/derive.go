package service

import (
	"time"

	"clearance/internal/shipment/access"
	"clearance/internal/shipment/charges"
	"clearance/internal/shipment/containers"
	"clearance/internal/shipment/lifecycle"
	"clearance/internal/shipment/models"
)

// Derived is everything computed from a shipment that is not stored on it.
type Derived struct {
	State      models.ImportState
	Missing    []string
	ListStatus models.ListStatus
	Windows    access.WindowMap
}

// Recompute runs the full derivation chain: auto-fill, container roll-up,
// charges, detailed state, list status and editable windows. now only
// affects free-days alerts.
func Recompute(s models.Shipment, now time.Time) (models.Shipment, Derived) {
	out := lifecycle.AutoFill(s)
	out.Milestones = containers.Aggregate(out.Containers)
	out = charges.Apply(out, now)

	eval := lifecycle.Evaluate(out)
	return out, Derived{
		State:      eval.State,
		Missing:    eval.Missing,
		ListStatus: lifecycle.CompactListStatus(out),
		Windows:    access.EditableWindows(eval.State),
	}
}

// ApplyUpdate checks u against the current state of s and, when allowed,
// returns the recomputed shipment with u applied. A denied or invalid
// update returns s recomputed but otherwise unchanged. s is never modified.
func ApplyUpdate(s models.Shipment, u models.Update, now time.Time) (models.Shipment, Derived, access.Decision) {
	current, derived := Recompute(s, now)

	decision := access.Check(derived.State, u.Section)
	if !decision.Allowed {
		return current, derived, decision
	}
	if err := u.Validate(); err != nil {
		decision.Allowed = false
		decision.Reason = err.Error()
		return current, derived, decision
	}

	next, nextDerived := Recompute(u.ApplyTo(current), now)
	return next, nextDerived, decision
}
