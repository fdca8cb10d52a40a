package models

import "time"

// OverrideStatus is the only workflow status that is ever stored.
type OverrideStatus string

const (
	OverrideNone   OverrideStatus = ""
	OverrideOnHold OverrideStatus = "ON_HOLD"
	OverrideClosed OverrideStatus = "CLOSED"
)

func (o OverrideStatus) Valid() bool {
	switch o {
	case OverrideNone, OverrideOnHold, OverrideClosed:
		return true
	}
	return false
}

// Shipment is the import aggregate root. Sections stay nil until their
// first save; Milestones and Charges are recomputed on every mutation and
// any stored value is overwritten.
type Shipment struct {
	ID         ShipmentID     `json:"id"`
	FileNumber string         `json:"fileNumber,omitempty"`
	ClientName string         `json:"clientName,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
	Override   OverrideStatus `json:"overrideStatus,omitempty"`

	Origin      *OriginSection            `json:"origin,omitempty"`
	PreArrival  *PreArrivalSection        `json:"preArrival,omitempty"`
	Terminal    *TerminalShippingSection  `json:"terminalShipping,omitempty"`
	Customs     *CustomsRegulatorySection `json:"customsRegulatory,omitempty"`
	Transport   *TransportDeliverySection `json:"transportDelivery,omitempty"`
	Team        *TeamDocumentationSection `json:"teamDocumentation,omitempty"`
	BankClosure *BankClosureSection       `json:"bankClosure,omitempty"`
	Performance *PerformanceControlStages `json:"performanceControl,omitempty"`
	Containers  []Container               `json:"containers"`

	Milestones ContainerMilestones `json:"milestones"`
	Charges    ChargeAssessment    `json:"charges"`
}

// NewShipment starts an empty workflow.
func NewShipment(fileNumber, clientName string, now time.Time) Shipment {
	return Shipment{
		ID:         NewShipmentID(),
		FileNumber: fileNumber,
		ClientName: clientName,
		CreatedAt:  now.UTC(),
		Containers: []Container{},
	}
}

// ContainerMilestones is the shipment-level roll-up of container events.
type ContainerMilestones struct {
	FirstContainerLoadedOut  Timestamp `json:"firstContainerLoadedOut"`
	LastContainerLoadedOut   Timestamp `json:"lastContainerLoadedOut"`
	FirstContainerArrived    Timestamp `json:"firstContainerArrived"`
	LastContainerArrived     Timestamp `json:"lastContainerArrived"`
	FirstEmptyReturn         Timestamp `json:"firstEmptyReturn"`
	LastEmptyReturn          Timestamp `json:"lastEmptyReturn"`
	FirstEIRReceived         Timestamp `json:"firstEirReceived"`
	LastEIRReceived          Timestamp `json:"lastEirReceived"`
	FirstWaybillReceived     Timestamp `json:"firstWaybillReceived"`
	LastWaybillReceived      Timestamp `json:"lastWaybillReceived"`
	CompleteEIRReceived      Timestamp `json:"completeEirReceived"`
	CompleteWaybillsReceived Timestamp `json:"completeWaybillsReceived"`
	FileDeliveryCompleted    bool      `json:"fileDeliveryCompleted"`
}

// FreeDaysAlert flags paid free time that ran out before the work finished.
type FreeDaysAlert struct {
	Expired     bool `json:"expired"`
	DaysOverdue int  `json:"daysOverdue,omitempty"`
}

// ChargeAssessment is the shipment-level refund and demurrage outcome.
type ChargeAssessment struct {
	LatestValidity           Timestamp     `json:"latestValidity"`
	TerminalRefundApplicable bool          `json:"terminalRefundApplicable"`
	ShippingRefundApplicable bool          `json:"shippingRefundApplicable"`
	FinalInvoiceEligible     bool          `json:"finalInvoiceEligible"`
	TerminalFreeDays         FreeDaysAlert `json:"terminalFreeDays"`
	ShippingFreeDays         FreeDaysAlert `json:"shippingFreeDays"`
	DemurrageContainers      int           `json:"demurrageContainers"`
	DemurrageDaysTotal       int           `json:"demurrageDaysTotal"`
}

// Clone returns a copy sharing no memory with s.
func (s Shipment) Clone() Shipment {
	out := s
	out.Origin = clonePtr(s.Origin)
	out.PreArrival = clonePtr(s.PreArrival)
	out.Terminal = clonePtr(s.Terminal)
	out.Customs = clonePtr(s.Customs)
	out.Transport = clonePtr(s.Transport)
	out.Team = clonePtr(s.Team)
	out.BankClosure = clonePtr(s.BankClosure)
	out.Performance = clonePtr(s.Performance)
	out.Containers = append([]Container{}, s.Containers...)
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
