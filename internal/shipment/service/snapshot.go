package service

import (
	"maps"

	"clearance/internal/shipment/access"
	"clearance/internal/shipment/models"
)

// Snapshot is what subscribers receive after every publication.
type Snapshot struct {
	Shipment   models.Shipment
	State      models.ImportState
	Missing    []string
	ListStatus models.ListStatus
	Windows    access.WindowMap
	// Revision counts publications, starting at 0 for the opening state.
	Revision uint64
	// Denials lists updates of a coalesced burst that were rejected.
	Denials []access.Decision
}

func newSnapshot(s models.Shipment, d Derived, revision uint64, denials []access.Decision) Snapshot {
	return Snapshot{
		Shipment:   s,
		State:      d.State,
		Missing:    d.Missing,
		ListStatus: d.ListStatus,
		Windows:    d.Windows,
		Revision:   revision,
		Denials:    denials,
	}
}

func (s Snapshot) clone() Snapshot {
	out := s
	out.Shipment = s.Shipment.Clone()
	out.Missing = append([]string(nil), s.Missing...)
	out.Windows = maps.Clone(s.Windows)
	out.Denials = append([]access.Decision(nil), s.Denials...)
	return out
}
