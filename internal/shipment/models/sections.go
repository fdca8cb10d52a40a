package models

// OriginSection covers the supplier side up to vessel departure.
type OriginSection struct {
	SupplierName      string    `json:"supplierName,omitempty"`
	PortOfLoading     string    `json:"portOfLoading,omitempty"`
	FormMNumber       string    `json:"formMNumber,omitempty"`
	ReadinessEstimate Timestamp `json:"readinessEstimate"`
	CollectionMethod  string    `json:"collectionMethod,omitempty"`
	ETD               Timestamp `json:"etd"`
	ATD               Timestamp `json:"atd"`
	ETA               Timestamp `json:"eta"`
}

// Complete reports whether every fact the workflow needs from origin is in.
func (o *OriginSection) Complete() bool {
	return o != nil &&
		o.ETD.IsSet() &&
		o.ATD.IsSet() &&
		o.ReadinessEstimate.IsSet() &&
		o.CollectionMethod != ""
}

// DutyStatus is the payment state of assessed import duty.
type DutyStatus string

const (
	DutyUnknown DutyStatus = ""
	DutyUnpaid  DutyStatus = "UNPAID"
	DutyPartial DutyStatus = "PARTIAL"
	DutyPaid    DutyStatus = "PAID"
)

// Outstanding is true while any assessed duty is unpaid.
func (d DutyStatus) Outstanding() bool {
	return d == DutyUnpaid || d == DutyPartial
}

type PreArrivalSection struct {
	PAARReceivedDate   Timestamp  `json:"paarReceivedDate"`
	BLCopyReceivedDate Timestamp  `json:"blCopyReceivedDate"`
	BLNumber           string     `json:"blNumber,omitempty"`
	DutyStatus         DutyStatus `json:"dutyStatus,omitempty"`
	DutyAmount         float64    `json:"dutyAmount,omitempty"`
	DutyPaidDate       Timestamp  `json:"dutyPaidDate"`
}

func (p *PreArrivalSection) Complete() bool {
	return p != nil &&
		p.PAARReceivedDate.IsSet() &&
		p.BLCopyReceivedDate.IsSet() &&
		p.BLNumber != ""
}

// TerminalShippingSection carries vessel arrival, terminal release and the
// two paid-for free-time windows.
type TerminalShippingSection struct {
	ATA               Timestamp `json:"ata"`
	TerminalName      string    `json:"terminalName,omitempty"`
	ShippingLine      string    `json:"shippingLine,omitempty"`
	BLNumber          string    `json:"blNo,omitempty"`
	TDOReceivedDate   Timestamp `json:"tdoReceivedDate"`
	TerminalValidTill Timestamp `json:"terminalValidTill"`
	ShippingValidTill Timestamp `json:"shippingValidTill"`

	TerminalRefundAppliedDate      Timestamp `json:"terminalRefundAppliedDate"`
	TerminalRefundAcknowledgedDate Timestamp `json:"terminalRefundAcknowledgedDate"`
	ShippingRefundAppliedDate      Timestamp `json:"shippingRefundAppliedDate"`
	ShippingRefundAcknowledgedDate Timestamp `json:"shippingRefundAcknowledgedDate"`
}

func (t *TerminalShippingSection) Complete() bool {
	return t != nil &&
		t.ATA.IsSet() &&
		t.TerminalName != "" &&
		t.TDOReceivedDate.IsSet()
}

// LatestValidity is the later of the two free-time expiries.
func (t *TerminalShippingSection) LatestValidity() Timestamp {
	if t == nil {
		return Timestamp{}
	}
	return Latest(t.TerminalValidTill, t.ShippingValidTill)
}

// AgencyCheck is the inspection state of one regulator (NAFDAC, SON).
type AgencyCheck struct {
	Applicable        bool      `json:"applicable"`
	InspectionDate    Timestamp `json:"inspectionDate"`
	BlockDate         Timestamp `json:"blockDate"`
	BlockResolvedDate Timestamp `json:"blockResolvedDate"`
	FullyStamped      bool      `json:"fullyStamped"`
}

// Blocked is true while a recorded block has no resolution.
func (a AgencyCheck) Blocked() bool {
	return a.BlockDate.IsSet() && !a.BlockResolvedDate.IsSet()
}

// Cleared is true when the agency does not apply or has signed off.
func (a AgencyCheck) Cleared() bool {
	if !a.Applicable {
		return true
	}
	return !a.Blocked() && a.FullyStamped
}

type CustomsRegulatorySection struct {
	AssessmentDate            Timestamp   `json:"assessmentDate"`
	CustomReleaseDate         Timestamp   `json:"customReleaseDate"`
	NAFDAC                    AgencyCheck `json:"nafdac"`
	SON                       AgencyCheck `json:"son"`
	FECDSubmittedToOfficeDate Timestamp   `json:"fecdSubmittedToOfficeDate"`
}

func (c *CustomsRegulatorySection) Released() bool {
	return c != nil && c.CustomReleaseDate.IsSet()
}

// ComplianceCleared reports whether no regulator holds the file and FECD
// has gone to the office.
func (c *CustomsRegulatorySection) ComplianceCleared() bool {
	return c != nil &&
		c.NAFDAC.Cleared() &&
		c.SON.Cleared() &&
		c.FECDSubmittedToOfficeDate.IsSet()
}

type TransportDeliverySection struct {
	Transporter         string    `json:"transporter,omitempty"`
	TruckAllocationDate Timestamp `json:"truckAllocationDate"`
	TDOProjected        Timestamp `json:"tdoProjected"`
	LastDeliveredDate   Timestamp `json:"lastDeliveredDate"`
}

type TeamDocumentationSection struct {
	AssignedOfficer              string    `json:"assignedOfficer,omitempty"`
	DocumentationOfficer         string    `json:"documentationOfficer,omitempty"`
	DocsSubmittedToInvoicingDate Timestamp `json:"docsSubmittedToInvoicingDate"`
	InvoiceNumber                string    `json:"invoiceNumber,omitempty"`
	FileClosedDate               Timestamp `json:"fileClosedDate"`
}

// BankClosureSection tracks Form M closure with the bank.
type BankClosureSection struct {
	BankName                 string    `json:"bankName,omitempty"`
	FECDReceivedFromBankDate Timestamp `json:"fecdReceivedFromBankDate"`
	BankSubmissionDate       Timestamp `json:"bankSubmissionDate"`
	FormMClosedDate          Timestamp `json:"formMClosedDate"`
}
