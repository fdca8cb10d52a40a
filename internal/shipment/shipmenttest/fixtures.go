// Package shipmenttest builds import shipments in known lifecycle positions
// for tests across the shipment packages.
package shipmenttest

import (
	"time"

	"clearance/internal/shipment/models"
)

// Epoch is the creation time of every fixture shipment.
var Epoch = time.Date(2024, time.January, 2, 9, 0, 0, 0, time.UTC)

// D is shorthand for a UTC date.
func D(year int, month time.Month, day int) models.Timestamp {
	return models.Date(year, month, day)
}

// DT is shorthand for a UTC date and time.
func DT(year int, month time.Month, day, hour, minute int) models.Timestamp {
	return models.At(time.Date(year, month, day, hour, minute, 0, 0, time.UTC))
}

func Origin() *models.OriginSection {
	return &models.OriginSection{
		SupplierName:      "Shenzhen Polymers Ltd",
		PortOfLoading:     "CNSZX",
		FormMNumber:       "MF20240001",
		ReadinessEstimate: D(2023, time.December, 10),
		CollectionMethod:  "FOB",
		ETD:               D(2023, time.December, 18),
		ATD:               D(2023, time.December, 19),
		ETA:               D(2024, time.January, 20),
	}
}

// PreArrival is complete with duty paid.
func PreArrival() *models.PreArrivalSection {
	return &models.PreArrivalSection{
		PAARReceivedDate:   D(2024, time.January, 5),
		BLCopyReceivedDate: D(2024, time.January, 3),
		BLNumber:           "MEDU1234567",
		DutyStatus:         models.DutyPaid,
		DutyAmount:         1250000,
		DutyPaidDate:       D(2024, time.January, 8),
	}
}

// Terminal is complete; terminal free time runs to Feb 10, shipping to Feb 8.
func Terminal() *models.TerminalShippingSection {
	return &models.TerminalShippingSection{
		ATA:               D(2024, time.January, 20),
		TerminalName:      "APM Terminals Apapa",
		ShippingLine:      "MSC",
		TDOReceivedDate:   D(2024, time.January, 24),
		TerminalValidTill: D(2024, time.February, 10),
		ShippingValidTill: D(2024, time.February, 8),
	}
}

// Customs is released with every compliance gate cleared.
func Customs() *models.CustomsRegulatorySection {
	return &models.CustomsRegulatorySection{
		AssessmentDate:            D(2024, time.January, 22),
		CustomReleaseDate:         D(2024, time.January, 28),
		NAFDAC:                    models.AgencyCheck{Applicable: true, InspectionDate: D(2024, time.January, 25), FullyStamped: true},
		SON:                       models.AgencyCheck{Applicable: false},
		FECDSubmittedToOfficeDate: D(2024, time.January, 29),
	}
}

// DeliveredContainer has every event from gate-out to EIR, starting at
// gatedOut and finishing five days later.
func DeliveredContainer(number string, gatedOut models.Timestamp) models.Container {
	at := gatedOut.Time()
	step := func(hours int) models.Timestamp {
		return models.At(at.Add(time.Duration(hours) * time.Hour))
	}
	return models.Container{
		Number:                            number,
		Size:                              "40HC",
		AllocationDateTime:                step(-48),
		GateInDateTime:                    step(-24),
		LoadedAtTerminalDateTime:          step(-2),
		GatedOutTerminalDateTime:          gatedOut,
		ArrivedAtDeliveryLocationDateTime: step(20),
		OffloadStartDateTime:              step(22),
		OffloadCompleteDateTime:           step(26),
		WaybillReceivedDateTime:           step(30),
		EmptyGateOutDateTime:              step(72),
		EmptyReturnDateTime:               step(96),
		EIRReceivedDateTime:               step(120),
	}
}

// Builder assembles a shipment section by section.
type Builder struct {
	s models.Shipment
}

func New() *Builder {
	s := models.NewShipment("IMP-24-0001", "Acme Foods Nigeria", Epoch)
	return &Builder{s: s}
}

func (b *Builder) Origin(v *models.OriginSection) *Builder {
	b.s.Origin = v
	return b
}

func (b *Builder) PreArrival(v *models.PreArrivalSection) *Builder {
	b.s.PreArrival = v
	return b
}

func (b *Builder) Terminal(v *models.TerminalShippingSection) *Builder {
	b.s.Terminal = v
	return b
}

func (b *Builder) Customs(v *models.CustomsRegulatorySection) *Builder {
	b.s.Customs = v
	return b
}

func (b *Builder) Transport(v *models.TransportDeliverySection) *Builder {
	b.s.Transport = v
	return b
}

func (b *Builder) Team(v *models.TeamDocumentationSection) *Builder {
	b.s.Team = v
	return b
}

func (b *Builder) Containers(list ...models.Container) *Builder {
	b.s.Containers = append([]models.Container{}, list...)
	return b
}

func (b *Builder) Override(o models.OverrideStatus) *Builder {
	b.s.Override = o
	return b
}

func (b *Builder) Build() models.Shipment {
	return b.s.Clone()
}

// AtState returns the smallest fixture whose detailed lifecycle state is
// state. DELIVERED has no fixture because it is never derived.
func AtState(state models.ImportState) models.Shipment {
	switch state {
	case models.StateDraft:
		return New().Build()
	case models.StatePreArrival:
		return New().Origin(Origin()).Build()
	case models.StateAwaitingPayment:
		pa := PreArrival()
		pa.DutyStatus = models.DutyUnpaid
		pa.DutyPaidDate = models.Timestamp{}
		return New().Origin(Origin()).PreArrival(pa).Build()
	case models.StateTerminal:
		return New().Origin(Origin()).PreArrival(PreArrival()).Build()
	case models.StateCustoms:
		return New().Origin(Origin()).PreArrival(PreArrival()).Terminal(Terminal()).Build()
	case models.StateCompliance:
		c := Customs()
		c.FECDSubmittedToOfficeDate = models.Timestamp{}
		return New().Origin(Origin()).PreArrival(PreArrival()).Terminal(Terminal()).Customs(c).Build()
	case models.StateTransport:
		return New().Origin(Origin()).PreArrival(PreArrival()).Terminal(Terminal()).Customs(Customs()).Build()
	case models.StateRefundPending:
		return delivered(Terminal())
	case models.StateInvoicing:
		t := Terminal()
		t.TerminalRefundAppliedDate = D(2024, time.February, 12)
		t.TerminalRefundAcknowledgedDate = D(2024, time.February, 15)
		t.ShippingRefundAppliedDate = D(2024, time.February, 12)
		t.ShippingRefundAcknowledgedDate = D(2024, time.February, 16)
		return delivered(t)
	case models.StateOnHold:
		s := AtState(models.StateTerminal)
		s.Override = models.OverrideOnHold
		return s
	case models.StateClosed:
		s := AtState(models.StateInvoicing)
		s.Override = models.OverrideClosed
		return s
	}
	panic("shipmenttest: no fixture for state " + string(state))
}

func delivered(t *models.TerminalShippingSection) models.Shipment {
	return New().
		Origin(Origin()).
		PreArrival(PreArrival()).
		Terminal(t).
		Customs(Customs()).
		Transport(&models.TransportDeliverySection{Transporter: "Swift Haulage", TruckAllocationDate: D(2024, time.January, 30)}).
		Containers(
			DeliveredContainer("MSCU1000001", DT(2024, time.February, 1, 8, 0)),
			DeliveredContainer("MSCU1000002", DT(2024, time.February, 2, 10, 30)),
		).
		Build()
}

// DerivableStates lists the states AtState can build.
var DerivableStates = []models.ImportState{
	models.StateDraft,
	models.StatePreArrival,
	models.StateAwaitingPayment,
	models.StateTerminal,
	models.StateCustoms,
	models.StateCompliance,
	models.StateTransport,
	models.StateRefundPending,
	models.StateInvoicing,
	models.StateOnHold,
	models.StateClosed,
}
