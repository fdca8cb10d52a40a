package lifecycle

import (
	"clearance/internal/shipment/containers"
	"clearance/internal/shipment/models"
)

// CompactListStatus classifies a shipment for list views. It checks the most
// advanced milestone first and falls back toward DRAFT. Unlike the detailed
// cascade it ignores the override and any gaps in earlier sections.
func CompactListStatus(s models.Shipment) models.ListStatus {
	if s.Team != nil && (s.Team.DocsSubmittedToInvoicingDate.IsSet() || s.Team.FileClosedDate.IsSet()) {
		return models.ListReadyForInvoice
	}
	if containers.All(s.Containers, containers.EmptyReturned) {
		return models.ListCompleted
	}

	released := s.Customs.Released()
	if containers.Any(s.Containers, containers.GatedOut) || released {
		return models.ListDelivering
	}

	arrived := s.Terminal != nil && s.Terminal.ATA.IsSet()
	if arrived && !released {
		return models.ListUnderClearance
	}
	// Unreachable while a customs release already returns DELIVERING.
	if arrived {
		return models.ListArrived
	}

	if s.Origin != nil && s.Origin.ATD.IsSet() {
		return models.ListInTransit
	}
	return models.ListDraft
}
