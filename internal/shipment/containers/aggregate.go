// Package containers rolls per-container event timestamps up to shipment
// level. Everything here is pure and recomputed from scratch on each call.
package containers

import "clearance/internal/shipment/models"

// Field selects one container timestamp.
type Field func(models.Container) models.Timestamp

var (
	GatedOut Field = func(c models.Container) models.Timestamp { return c.GatedOutTerminalDateTime }
	Arrived  Field = func(c models.Container) models.Timestamp { return c.ArrivedAtDeliveryLocationDateTime }
	// EmptyReturned is the empty-container return to the line or terminal.
	EmptyReturned   Field = func(c models.Container) models.Timestamp { return c.EmptyReturnDateTime }
	EIRReceived     Field = func(c models.Container) models.Timestamp { return c.EIRReceivedDateTime }
	WaybillReceived Field = func(c models.Container) models.Timestamp { return c.WaybillReceivedDateTime }
)

// MinDate is the earliest value of field among containers that have it.
func MinDate(list []models.Container, field Field) models.Timestamp {
	return models.Earliest(values(list, field)...)
}

// MaxDate is the latest value of field among containers that have it.
func MaxDate(list []models.Container, field Field) models.Timestamp {
	return models.Latest(values(list, field)...)
}

// CompleteDate is MaxDate only when every container has field; a partially
// recorded event is reported as absent.
func CompleteDate(list []models.Container, field Field) models.Timestamp {
	if !All(list, field) {
		return models.Timestamp{}
	}
	return MaxDate(list, field)
}

// All reports whether the list is non-empty and every container has field.
func All(list []models.Container, field Field) bool {
	if len(list) == 0 {
		return false
	}
	for _, c := range list {
		if !field(c).IsSet() {
			return false
		}
	}
	return true
}

// Any reports whether at least one container has field.
func Any(list []models.Container, field Field) bool {
	for _, c := range list {
		if field(c).IsSet() {
			return true
		}
	}
	return false
}

// Aggregate derives every shipment-level milestone from the container list.
func Aggregate(list []models.Container) models.ContainerMilestones {
	return models.ContainerMilestones{
		FirstContainerLoadedOut:  MinDate(list, GatedOut),
		LastContainerLoadedOut:   MaxDate(list, GatedOut),
		FirstContainerArrived:    MinDate(list, Arrived),
		LastContainerArrived:     MaxDate(list, Arrived),
		FirstEmptyReturn:         MinDate(list, EmptyReturned),
		LastEmptyReturn:          MaxDate(list, EmptyReturned),
		FirstEIRReceived:         MinDate(list, EIRReceived),
		LastEIRReceived:          MaxDate(list, EIRReceived),
		FirstWaybillReceived:     MinDate(list, WaybillReceived),
		LastWaybillReceived:      MaxDate(list, WaybillReceived),
		CompleteEIRReceived:      CompleteDate(list, EIRReceived),
		CompleteWaybillsReceived: CompleteDate(list, WaybillReceived),
		FileDeliveryCompleted:    fileDeliveryCompleted(list),
	}
}

func fileDeliveryCompleted(list []models.Container) bool {
	return All(list, EmptyReturned) && All(list, EIRReceived) && All(list, WaybillReceived)
}

func values(list []models.Container, field Field) []models.Timestamp {
	out := make([]models.Timestamp, 0, len(list))
	for _, c := range list {
		out = append(out, field(c))
	}
	return out
}
