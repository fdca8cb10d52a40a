// Package charges derives demurrage, transporter debits and refund
// eligibility by comparing container events against the paid free-time
// windows. No I/O, no side effects.
//
// Every timestamp, the caller's "today" included, is normalized to UTC before
// calendar days are compared, so a free-days alert flips at UTC midnight
// whatever the location of the clock passed in.
package charges

import (
	"math"
	"time"

	"clearance/internal/shipment/containers"
	"clearance/internal/shipment/models"
)

// TransporterSLA is the allowed gate-out to delivery transit time.
const TransporterSLA = 48 * time.Hour

const day = 24 * time.Hour

// ContainerCharges sets the engine-owned fields of c. Stale values from a
// previous pass are always overwritten.
func ContainerCharges(c models.Container, latestValidity models.Timestamp) models.Container {
	c.DemurrageCharged = false
	c.DemurrageDays = 0
	if late, ok := c.EmptyReturnDateTime.Sub(latestValidity); ok && late > 0 {
		c.DemurrageCharged = true
		c.DemurrageDays = int(math.Ceil(float64(late) / float64(day)))
	}

	c.DebitToTransporter = false
	if transit, ok := c.ArrivedAtDeliveryLocationDateTime.Sub(c.GatedOutTerminalDateTime); ok {
		c.DebitToTransporter = transit > TransporterSLA
	}
	return c
}

// Assess computes the shipment-level outcome. list must already carry
// per-container charges; m is the aggregate of the same list.
func Assess(terminal *models.TerminalShippingSection, list []models.Container, m models.ContainerMilestones, today time.Time) models.ChargeAssessment {
	latest := terminal.LatestValidity()
	var shippingValidTill models.Timestamp
	if terminal != nil {
		shippingValidTill = terminal.ShippingValidTill
	}
	now := models.At(today)

	terminalRefund, shippingRefund := RefundEligibility(terminal, m)

	out := models.ChargeAssessment{
		LatestValidity:           latest,
		TerminalRefundApplicable: terminalRefund,
		ShippingRefundApplicable: shippingRefund,
		FinalInvoiceEligible:     m.LastEmptyReturn.Before(shippingValidTill),
		TerminalFreeDays:         freeDaysAlert(latest, containers.All(list, containers.GatedOut), now),
		ShippingFreeDays:         freeDaysAlert(latest, containers.All(list, containers.EmptyReturned), now),
	}
	for _, c := range list {
		if c.DemurrageCharged {
			out.DemurrageContainers++
			out.DemurrageDaysTotal += c.DemurrageDays
		}
	}
	return out
}

// RefundEligibility reports whether the last container left the terminal,
// and whether the last empty went back, while free time was still running.
func RefundEligibility(terminal *models.TerminalShippingSection, m models.ContainerMilestones) (terminalRefund, shippingRefund bool) {
	latest := terminal.LatestValidity()
	return m.LastContainerLoadedOut.Before(latest), m.LastEmptyReturn.Before(latest)
}

// freeDaysAlert compares calendar dates only.
func freeDaysAlert(validity models.Timestamp, completed bool, today models.Timestamp) models.FreeDaysAlert {
	if completed {
		return models.FreeDaysAlert{}
	}
	overdue, ok := models.DaysBetween(validity, today)
	if !ok || overdue <= 0 {
		return models.FreeDaysAlert{}
	}
	return models.FreeDaysAlert{Expired: true, DaysOverdue: overdue}
}

// Apply returns s with per-container charges and the assessment filled in.
// s.Milestones must be current.
func Apply(s models.Shipment, today time.Time) models.Shipment {
	out := s.Clone()
	latest := out.Terminal.LatestValidity()
	for i := range out.Containers {
		out.Containers[i] = ContainerCharges(out.Containers[i], latest)
	}
	out.Charges = Assess(out.Terminal, out.Containers, out.Milestones, today)
	return out
}
