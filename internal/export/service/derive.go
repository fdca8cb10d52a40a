// Package service holds the export orchestration. It mirrors the import
// ShipmentStore without window guards or an override flag: the only way an
// export update is refused is a failed entry rule.
package service

import (
	"fmt"

	"clearance/internal/export/lifecycle"
	"clearance/internal/export/models"
	"clearance/pkg/platform/sentinel"
)

// ValidationError is returned for an update that fails its entry rules.
// It matches sentinel.ErrInvalidState with errors.Is.
type ValidationError struct {
	Section models.Section
	Reason  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Section, e.Reason)
}

func (e *ValidationError) Unwrap() error { return sentinel.ErrInvalidState }

// ApplyUpdate validates u and returns the changed file with its state. An
// invalid update returns e unchanged and a *ValidationError.
func ApplyUpdate(e models.Export, u models.Update) (models.Export, models.State, error) {
	if err := u.Validate(); err != nil {
		return e, lifecycle.State(e), &ValidationError{Section: u.Section, Reason: err.Error()}
	}
	next := u.ApplyTo(e)
	return next, lifecycle.State(next), nil
}
