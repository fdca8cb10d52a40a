// Package lifecycle infers where an import file stands from the facts
// recorded on it. Two classifiers live here and they are deliberately kept
// apart: DetailedLifecycleState drives editing rights, CompactListStatus
// feeds list badges. They read overlapping fields with different thresholds
// and can disagree for the same shipment.
package lifecycle

import (
	"clearance/internal/shipment/charges"
	"clearance/internal/shipment/containers"
	"clearance/internal/shipment/models"
)

// Evaluation is the detailed state plus the facts holding it there.
type Evaluation struct {
	State   models.ImportState
	Missing []string
}

// DetailedLifecycleState returns the first workflow stage whose completion
// criteria are unmet.
func DetailedLifecycleState(s models.Shipment) models.ImportState {
	return Evaluate(s).State
}

// Evaluate runs the import cascade. Rule order is significant: a later
// stage is never reported while an earlier one is incomplete, whatever the
// later sections already contain.
func Evaluate(s models.Shipment) Evaluation {
	// Rule 1: stored override beats everything derived
	switch s.Override {
	case models.OverrideClosed:
		return Evaluation{State: models.StateClosed}
	case models.OverrideOnHold:
		return Evaluation{State: models.StateOnHold}
	}

	// Rule 2: origin
	if missing := originGaps(s.Origin); len(missing) > 0 {
		return Evaluation{State: models.StateDraft, Missing: missing}
	}

	// Rule 3: pre-arrival documents
	if missing := preArrivalGaps(s.PreArrival); len(missing) > 0 {
		return Evaluation{State: models.StatePreArrival, Missing: missing}
	}

	// Rule 4: duty
	if s.PreArrival.DutyStatus.Outstanding() {
		return Evaluation{State: models.StateAwaitingPayment, Missing: []string{"duty " + string(s.PreArrival.DutyStatus)}}
	}

	// Rule 5: terminal
	if missing := terminalGaps(s.Terminal); len(missing) > 0 {
		return Evaluation{State: models.StateTerminal, Missing: missing}
	}

	// Rule 6: customs release
	if !s.Customs.Released() {
		return Evaluation{State: models.StateCustoms, Missing: []string{"customs release date"}}
	}

	// Rule 7: regulators and FECD
	if missing := complianceGaps(s.Customs); len(missing) > 0 {
		return Evaluation{State: models.StateCompliance, Missing: missing}
	}

	// Rule 8: delivery
	m := containers.Aggregate(s.Containers)
	if !m.FileDeliveryCompleted && !lastDelivered(s.Transport).IsSet() {
		return Evaluation{State: models.StateTransport, Missing: []string{"container delivery"}}
	}

	// Rule 9: refunds
	if missing := refundGaps(s.Terminal, m); len(missing) > 0 {
		return Evaluation{State: models.StateRefundPending, Missing: missing}
	}

	// Rule 10: everything settled
	return Evaluation{State: models.StateInvoicing}
}

func originGaps(o *models.OriginSection) []string {
	if o == nil {
		return []string{"origin section"}
	}
	var missing []string
	if !o.ETD.IsSet() {
		missing = append(missing, "ETD")
	}
	if !o.ATD.IsSet() {
		missing = append(missing, "ATD")
	}
	if !o.ReadinessEstimate.IsSet() {
		missing = append(missing, "readiness estimate")
	}
	if o.CollectionMethod == "" {
		missing = append(missing, "collection method")
	}
	return missing
}

func preArrivalGaps(p *models.PreArrivalSection) []string {
	if p == nil {
		return []string{"pre-arrival section"}
	}
	var missing []string
	if !p.PAARReceivedDate.IsSet() {
		missing = append(missing, "PAAR received date")
	}
	if !p.BLCopyReceivedDate.IsSet() {
		missing = append(missing, "BL copy received date")
	}
	if p.BLNumber == "" {
		missing = append(missing, "BL number")
	}
	return missing
}

func terminalGaps(t *models.TerminalShippingSection) []string {
	if t == nil {
		return []string{"terminal section"}
	}
	var missing []string
	if !t.ATA.IsSet() {
		missing = append(missing, "ATA")
	}
	if t.TerminalName == "" {
		missing = append(missing, "terminal name")
	}
	if !t.TDOReceivedDate.IsSet() {
		missing = append(missing, "TDO received date")
	}
	return missing
}

func complianceGaps(c *models.CustomsRegulatorySection) []string {
	var missing []string
	missing = append(missing, agencyGaps("NAFDAC", c.NAFDAC)...)
	missing = append(missing, agencyGaps("SON", c.SON)...)
	if !c.FECDSubmittedToOfficeDate.IsSet() {
		missing = append(missing, "FECD submission to office")
	}
	return missing
}

func agencyGaps(name string, a models.AgencyCheck) []string {
	if !a.Applicable {
		return nil
	}
	var missing []string
	if a.Blocked() {
		missing = append(missing, name+" block resolution")
	}
	if !a.FullyStamped {
		missing = append(missing, name+" stamping")
	}
	return missing
}

func refundGaps(t *models.TerminalShippingSection, m models.ContainerMilestones) []string {
	terminalRefund, shippingRefund := charges.RefundEligibility(t, m)
	var missing []string
	if terminalRefund && !(t.TerminalRefundAppliedDate.IsSet() && t.TerminalRefundAcknowledgedDate.IsSet()) {
		missing = append(missing, "terminal refund application")
	}
	if shippingRefund && !(t.ShippingRefundAppliedDate.IsSet() && t.ShippingRefundAcknowledgedDate.IsSet()) {
		missing = append(missing, "shipping refund application")
	}
	return missing
}

func lastDelivered(t *models.TransportDeliverySection) models.Timestamp {
	if t == nil {
		return models.Timestamp{}
	}
	return t.LastDeliveredDate
}
