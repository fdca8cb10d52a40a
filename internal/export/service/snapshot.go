package service

import "clearance/internal/export/models"

// Rejection reports an update of a coalesced burst that failed validation.
type Rejection struct {
	Section models.Section
	Reason  string
}

// Snapshot is what subscribers receive after every publication.
type Snapshot struct {
	Export     models.Export
	State      models.State
	Revision   uint64
	Rejections []Rejection
}

func (s Snapshot) clone() Snapshot {
	out := s
	out.Export = s.Export.Clone()
	out.Rejections = append([]Rejection(nil), s.Rejections...)
	return out
}
