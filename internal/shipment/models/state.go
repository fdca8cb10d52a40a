package models

// ImportState is the detailed lifecycle stage of an import file. Values are
// declared in workflow order.
type ImportState string

const (
	StateDraft           ImportState = "DRAFT"
	StatePreArrival      ImportState = "PRE_ARRIVAL"
	StateAwaitingPayment ImportState = "AWAITING_PAYMENT"
	StateTerminal        ImportState = "TERMINAL"
	StateCustoms         ImportState = "CUSTOMS"
	StateCompliance      ImportState = "COMPLIANCE"
	StateTransport       ImportState = "TRANSPORT"
	// StateDelivered is never derived; delivery resolves straight into
	// StateRefundPending or StateInvoicing.
	StateDelivered     ImportState = "DELIVERED"
	StateRefundPending ImportState = "REFUND_PENDING"
	StateInvoicing     ImportState = "INVOICING"
	StateOnHold        ImportState = "ON_HOLD"
	StateClosed        ImportState = "CLOSED"
)

// ImportStates lists every state in workflow order.
var ImportStates = []ImportState{
	StateDraft,
	StatePreArrival,
	StateAwaitingPayment,
	StateTerminal,
	StateCustoms,
	StateCompliance,
	StateTransport,
	StateDelivered,
	StateRefundPending,
	StateInvoicing,
	StateOnHold,
	StateClosed,
}

// Rank is the position in ImportStates, or -1 for unknown values.
func (s ImportState) Rank() int {
	for i, v := range ImportStates {
		if v == s {
			return i
		}
	}
	return -1
}

// Reached reports whether s is at or past milestone in the working
// sequence. Override states never count as having reached a milestone.
func (s ImportState) Reached(milestone ImportState) bool {
	if s.Overridden() {
		return false
	}
	return s.Rank() >= milestone.Rank()
}

// Overridden is true for the two states that come from the stored override.
func (s ImportState) Overridden() bool {
	return s == StateOnHold || s == StateClosed
}

// ListStatus is the compact badge status shown in shipment lists.
type ListStatus string

const (
	ListDraft           ListStatus = "DRAFT"
	ListInTransit       ListStatus = "IN_TRANSIT"
	ListArrived         ListStatus = "ARRIVED"
	ListUnderClearance  ListStatus = "UNDER_CLEARANCE"
	ListDelivering      ListStatus = "DELIVERING"
	ListCompleted       ListStatus = "COMPLETED"
	ListReadyForInvoice ListStatus = "READY_FOR_INVOICE"
)

// Section names a unit of data saved as a whole by the editor.
type Section string

const (
	SectionOrigin             Section = "origin"
	SectionPreArrival         Section = "pre_arrival"
	SectionTerminal           Section = "terminal"
	SectionCustoms            Section = "customs"
	SectionTransport          Section = "transport"
	SectionTeamDocumentation  Section = "team_documentation"
	SectionPerformanceControl Section = "performance_control"
	SectionBankClosure        Section = "bank_closure"
)

// Sections lists every import section.
var Sections = []Section{
	SectionOrigin,
	SectionPreArrival,
	SectionTerminal,
	SectionCustoms,
	SectionTransport,
	SectionTeamDocumentation,
	SectionPerformanceControl,
	SectionBankClosure,
}
