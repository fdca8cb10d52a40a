package models

import "fmt"

// Container is one box on the bill of lading. Timestamps follow the
// physical order of events; DemurrageCharged, DemurrageDays and
// DebitToTransporter are owned by the charges calculator.
type Container struct {
	Number string `json:"containerNumber"`
	Size   string `json:"size,omitempty"`

	AllocationDateTime                Timestamp `json:"allocationDateTime"`
	GateInDateTime                    Timestamp `json:"gateInDateTime"`
	LoadedAtTerminalDateTime          Timestamp `json:"loadedAtTerminalDateTime"`
	GatedOutTerminalDateTime          Timestamp `json:"gatedOutTerminalDateTime"`
	ArrivedAtDeliveryLocationDateTime Timestamp `json:"arrivedAtDeliveryLocationDateTime"`
	OffloadStartDateTime              Timestamp `json:"offloadStartDateTime"`
	OffloadCompleteDateTime           Timestamp `json:"offloadCompleteDateTime"`
	WaybillReceivedDateTime           Timestamp `json:"waybillReceivedDateTime"`
	EmptyGateOutDateTime              Timestamp `json:"emptyGateOutDateTime"`
	EmptyReturnDateTime               Timestamp `json:"emptyReturnDateTime"`
	EIRReceivedDateTime               Timestamp `json:"eirReceivedDateTime"`

	DemurrageCharged   bool `json:"demurrageCharged"`
	DemurrageDays      int  `json:"demurrageDays,omitempty"`
	DebitToTransporter bool `json:"debitToTransporter"`
}

// timeline lists the event timestamps in their required order.
func (c Container) timeline() []struct {
	name string
	at   Timestamp
} {
	return []struct {
		name string
		at   Timestamp
	}{
		{"allocation", c.AllocationDateTime},
		{"gate-in", c.GateInDateTime},
		{"loaded-at-terminal", c.LoadedAtTerminalDateTime},
		{"gated-out", c.GatedOutTerminalDateTime},
		{"arrived-at-destination", c.ArrivedAtDeliveryLocationDateTime},
		{"offload-start", c.OffloadStartDateTime},
		{"offload-complete", c.OffloadCompleteDateTime},
		{"waybill-received", c.WaybillReceivedDateTime},
		{"empty-gate-out", c.EmptyGateOutDateTime},
		{"empty-returned", c.EmptyReturnDateTime},
		{"eir-received", c.EIRReceivedDateTime},
	}
}

// ValidateSequence checks that no recorded event precedes the nearest
// recorded event before it. Gaps are allowed.
func (c Container) ValidateSequence() error {
	var prevName string
	var prev Timestamp
	for _, ev := range c.timeline() {
		if !ev.at.IsSet() {
			continue
		}
		if ev.at.Before(prev) {
			return fmt.Errorf("container %s: %s precedes %s", c.Number, ev.name, prevName)
		}
		prevName, prev = ev.name, ev.at
	}
	return nil
}

// ValidateContainers runs ValidateSequence over a list.
func ValidateContainers(containers []Container) error {
	for _, c := range containers {
		if err := c.ValidateSequence(); err != nil {
			return err
		}
	}
	return nil
}
