// Package models defines the export file aggregate. It reuses the import
// side's Timestamp so both workflows share one notion of an optional date.
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	shipment "clearance/internal/shipment/models"
)

// Timestamp is the shared optional instant.
type Timestamp = shipment.Timestamp

type ExportID uuid.UUID

func NewExportID() ExportID {
	return ExportID(uuid.New())
}

// ParseExportID rejects empty, malformed and nil ids.
func ParseExportID(s string) (ExportID, error) {
	if s == "" {
		return ExportID{}, fmt.Errorf("export id is empty")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return ExportID{}, fmt.Errorf("invalid export id %q: %w", s, err)
	}
	if parsed == uuid.Nil {
		return ExportID{}, fmt.Errorf("export id is nil")
	}
	return ExportID(parsed), nil
}

func (id ExportID) String() string { return uuid.UUID(id).String() }

func (id ExportID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }

func (id ExportID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}

func (id *ExportID) UnmarshalText(data []byte) error {
	var u uuid.UUID
	if err := u.UnmarshalText(data); err != nil {
		return err
	}
	*id = ExportID(u)
	return nil
}

type OrderCommercialSection struct {
	OrderNumber   string    `json:"orderNumber,omitempty"`
	BuyerName     string    `json:"buyerName,omitempty"`
	Destination   string    `json:"destination,omitempty"`
	Commodity     string    `json:"commodity,omitempty"`
	Incoterm      string    `json:"incoterm,omitempty"`
	ContractValue float64   `json:"contractValue,omitempty"`
	OrderDate     Timestamp `json:"orderDate"`
}

type TeamDocumentationSection struct {
	AssignedOfficer      string    `json:"assignedOfficer,omitempty"`
	DocumentationOfficer string    `json:"documentationOfficer,omitempty"`
	NXPNumber            string    `json:"nxpNumber,omitempty"`
	NXPApprovedDate      Timestamp `json:"nxpApprovedDate"`
}

// Container is an export box moving from the client's premises to the port.
type Container struct {
	Number              string    `json:"containerNumber"`
	Size                string    `json:"size,omitempty"`
	SealNumber          string    `json:"sealNumber,omitempty"`
	EmptyPickupDate     Timestamp `json:"emptyPickupDateTime"`
	StuffedAtClientDate Timestamp `json:"stuffedAtClientDateTime"`
	GateInPortDate      Timestamp `json:"gateInPortDateTime"`
}

// ValidateSequence checks pickup, stuffing and gate-in never go backwards.
func (c Container) ValidateSequence() error {
	steps := []struct {
		name string
		at   Timestamp
	}{
		{"empty-pickup", c.EmptyPickupDate},
		{"stuffed-at-client", c.StuffedAtClientDate},
		{"gate-in-port", c.GateInPortDate},
	}
	var prevName string
	var prev Timestamp
	for _, st := range steps {
		if !st.at.IsSet() {
			continue
		}
		if st.at.Before(prev) {
			return fmt.Errorf("container %s: %s precedes %s", c.Number, st.name, prevName)
		}
		prevName, prev = st.name, st.at
	}
	return nil
}

type TransportStuffingSection struct {
	Haulier             string      `json:"haulier,omitempty"`
	StuffingYard        string      `json:"stuffingYard,omitempty"`
	StuffingPlannedDate Timestamp   `json:"stuffingPlannedDate"`
	Containers          []Container `json:"containers"`
}

type InspectionsCustomsSection struct {
	InspectionAgency                 string    `json:"inspectionAgency,omitempty"`
	CustomsInspectionApplicationDate Timestamp `json:"customsInspectionApplicationDateTime"`
	SGDPreparedDate                  Timestamp `json:"sgdPreparedDateTime"`
	JointInspectionDate              Timestamp `json:"jointInspectionDateTime"`
	SGDNumber                        string    `json:"sgdNumber,omitempty"`
}

type TerminalShippingSection struct {
	ShippingLine                        string    `json:"shippingLine,omitempty"`
	BookingNumber                       string    `json:"bookingNumber,omitempty"`
	VesselName                          string    `json:"vesselName,omitempty"`
	ExportReleaseDocsToShippingLineDate Timestamp `json:"exportReleaseDocsToShippingLineDateTime"`
	LoadedOnVesselDate                  Timestamp `json:"loadedOnVesselDateTime"`
	OBLNumber                           string    `json:"oblNumber,omitempty"`
	OBLSubmittedToInvoicingDate         Timestamp `json:"oblSubmittedToInvoicingDateTime"`
}

type DocumentsClosingSection struct {
	ClosingDocsSubmittedDate Timestamp `json:"closingDocsSubmittedDateTime"`
	InvoiceNumber            string    `json:"invoiceNumber,omitempty"`
	NXPClosedDate            Timestamp `json:"nxpClosedDateTime"`
	FileClosedDate           Timestamp `json:"fileClosedDateTime"`
}

// Export is the export aggregate root. Sections stay nil until first saved.
type Export struct {
	ID         ExportID  `json:"id"`
	FileNumber string    `json:"fileNumber,omitempty"`
	ClientName string    `json:"clientName,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`

	OrderCommercial    *OrderCommercialSection    `json:"orderCommercial,omitempty"`
	TeamDocumentation  *TeamDocumentationSection  `json:"teamDocumentation,omitempty"`
	TransportStuffing  *TransportStuffingSection  `json:"transportStuffing,omitempty"`
	InspectionsCustoms *InspectionsCustomsSection `json:"inspectionsCustoms,omitempty"`
	TerminalShipping   *TerminalShippingSection   `json:"terminalShipping,omitempty"`
	DocumentsClosing   *DocumentsClosingSection   `json:"documentsClosing,omitempty"`
}

func NewExport(fileNumber, clientName string, now time.Time) Export {
	return Export{
		ID:         NewExportID(),
		FileNumber: fileNumber,
		ClientName: clientName,
		CreatedAt:  now.UTC(),
	}
}

// Containers returns the stuffing container list, or nil.
func (e Export) Containers() []Container {
	if e.TransportStuffing == nil {
		return nil
	}
	return e.TransportStuffing.Containers
}

// Clone returns a copy sharing no memory with e.
func (e Export) Clone() Export {
	out := e
	out.OrderCommercial = clonePtr(e.OrderCommercial)
	out.TeamDocumentation = clonePtr(e.TeamDocumentation)
	out.InspectionsCustoms = clonePtr(e.InspectionsCustoms)
	out.TerminalShipping = clonePtr(e.TerminalShipping)
	out.DocumentsClosing = clonePtr(e.DocumentsClosing)
	if e.TransportStuffing != nil {
		ts := *e.TransportStuffing
		ts.Containers = append([]Container(nil), e.TransportStuffing.Containers...)
		out.TransportStuffing = &ts
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
