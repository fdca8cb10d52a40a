// Package lifecycle derives the stage of an export file. The cascade reads
// from the most complete evidence backward, so a later fact wins even when
// earlier sections are still empty.
package lifecycle

import (
	"clearance/internal/export/models"
)

// State returns the derived export state.
func State(e models.Export) models.State {
	closing := e.DocumentsClosing
	terminal := e.TerminalShipping
	customs := e.InspectionsCustoms

	// Rule 1: closing documents submitted and file closed
	if closing != nil && closing.ClosingDocsSubmittedDate.IsSet() && closing.FileClosedDate.IsSet() {
		return models.StateClosed
	}

	// Rule 2: closing documents submitted alone
	if closing != nil && closing.ClosingDocsSubmittedDate.IsSet() {
		return models.StateReadyForInvoice
	}

	// Rule 3: original bill of lading handed to invoicing
	if terminal != nil && terminal.OBLSubmittedToInvoicingDate.IsSet() {
		return models.StateSailed
	}

	// Rule 4: export release documents with the shipping line
	if terminal != nil && terminal.ExportReleaseDocsToShippingLineDate.IsSet() {
		return models.StateClearedForLoading
	}

	// Rule 5: customs inspection applied for or SGD prepared
	if customs != nil && (customs.CustomsInspectionApplicationDate.IsSet() || customs.SGDPreparedDate.IsSet()) {
		return models.StateUnderCustoms
	}

	// Rule 6: any container gated in at the port of loading
	if anyContainer(e, func(c models.Container) bool { return c.GateInPortDate.IsSet() }) {
		return models.StateAtPort
	}

	// Rule 7: any container fully stuffed at the client
	if anyContainer(e, func(c models.Container) bool { return c.StuffedAtClientDate.IsSet() }) {
		return models.StateStuffingInProgress
	}

	// Rule 8: any planning reference recorded
	if hasPlanningReference(e) {
		return models.StatePlanning
	}

	// Rule 9: an order number alone, or nothing at all
	return models.StateDraft
}

func anyContainer(e models.Export, pred func(models.Container) bool) bool {
	for _, c := range e.Containers() {
		if pred(c) {
			return true
		}
	}
	return false
}

func hasPlanningReference(e models.Export) bool {
	if e.TeamDocumentation != nil && e.TeamDocumentation.NXPNumber != "" {
		return true
	}
	if e.TerminalShipping != nil && (e.TerminalShipping.BookingNumber != "" || e.TerminalShipping.ShippingLine != "") {
		return true
	}
	if e.TransportStuffing != nil && e.TransportStuffing.StuffingYard != "" {
		return true
	}
	return e.InspectionsCustoms != nil && e.InspectionsCustoms.InspectionAgency != ""
}
