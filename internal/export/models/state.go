package models

// State is the derived stage of an export file.
type State string

const (
	StateDraft              State = "DRAFT"
	StatePlanning           State = "PLANNING"
	StateStuffingInProgress State = "STUFFING_IN_PROGRESS"
	StateAtPort             State = "AT_PORT"
	StateUnderCustoms       State = "UNDER_CUSTOMS"
	StateClearedForLoading  State = "CLEARED_FOR_LOADING"
	StateSailed             State = "SAILED"
	StateReadyForInvoice    State = "READY_FOR_INVOICE"
	StateClosed             State = "CLOSED"
)

// States lists every export state in workflow order.
var States = []State{
	StateDraft,
	StatePlanning,
	StateStuffingInProgress,
	StateAtPort,
	StateUnderCustoms,
	StateClearedForLoading,
	StateSailed,
	StateReadyForInvoice,
	StateClosed,
}

// Section names one replaceable part of an export file.
type Section string

const (
	SectionOrderCommercial    Section = "order_commercial"
	SectionTeamDocumentation  Section = "team_documentation"
	SectionTransportStuffing  Section = "transport_stuffing"
	SectionInspectionsCustoms Section = "inspections_customs"
	SectionTerminalShipping   Section = "terminal_shipping"
	SectionDocumentsClosing   Section = "documents_closing"
)
