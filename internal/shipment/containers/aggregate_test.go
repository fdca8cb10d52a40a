package containers

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clearance/internal/shipment/models"
	"clearance/internal/shipment/shipmenttest"
)

var d = shipmenttest.D

func TestAggregate_LoadedOutRollup(t *testing.T) {
	list := []models.Container{
		{Number: "A", GatedOutTerminalDateTime: d(2024, time.February, 1)},
		{Number: "B", GatedOutTerminalDateTime: d(2024, time.February, 3)},
		{Number: "C"},
	}

	m := Aggregate(list)

	assert.True(t, m.FirstContainerLoadedOut.Equal(d(2024, time.February, 1)))
	assert.True(t, m.LastContainerLoadedOut.Equal(d(2024, time.February, 3)))
}

func TestAggregate_EmptyList(t *testing.T) {
	m := Aggregate(nil)

	assert.False(t, m.FirstContainerLoadedOut.IsSet())
	assert.False(t, m.LastEmptyReturn.IsSet())
	assert.False(t, m.CompleteEIRReceived.IsSet())
	assert.False(t, m.CompleteWaybillsReceived.IsSet())
	assert.False(t, m.FileDeliveryCompleted, "an empty file is never delivered")
}

func TestCompleteDate(t *testing.T) {
	t.Run("absent while any container lacks the event", func(t *testing.T) {
		list := []models.Container{
			{Number: "A", EIRReceivedDateTime: d(2024, time.March, 1)},
			{Number: "B"},
		}
		assert.False(t, CompleteDate(list, EIRReceived).IsSet())
		assert.True(t, MaxDate(list, EIRReceived).IsSet(), "partial data still has a max")
	})

	t.Run("latest date once every container has it", func(t *testing.T) {
		list := []models.Container{
			{Number: "A", WaybillReceivedDateTime: d(2024, time.March, 4)},
			{Number: "B", WaybillReceivedDateTime: d(2024, time.March, 2)},
		}
		assert.True(t, CompleteDate(list, WaybillReceived).Equal(d(2024, time.March, 4)))
	})
}

func TestAggregate_FileDeliveryCompleted(t *testing.T) {
	full := shipmenttest.DeliveredContainer("A", shipmenttest.DT(2024, time.February, 1, 8, 0))

	t.Run("all containers returned with EIR and waybill", func(t *testing.T) {
		assert.True(t, Aggregate([]models.Container{full, full}).FileDeliveryCompleted)
	})

	t.Run("one container missing EIR", func(t *testing.T) {
		partial := full
		partial.EIRReceivedDateTime = models.Timestamp{}
		assert.False(t, Aggregate([]models.Container{full, partial}).FileDeliveryCompleted)
	})

	t.Run("removing the lagging container completes the file", func(t *testing.T) {
		partial := full
		partial.WaybillReceivedDateTime = models.Timestamp{}
		list := []models.Container{full, partial}
		require.False(t, Aggregate(list).FileDeliveryCompleted)

		assert.True(t, Aggregate(list[:1]).FileDeliveryCompleted)
	})
}

// TestAggregate_Properties checks the reduction invariants over random lists.
func TestAggregate_Properties(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	fields := map[string]Field{
		"gated-out":      GatedOut,
		"arrived":        Arrived,
		"empty-returned": EmptyReturned,
		"eir":            EIRReceived,
		"waybill":        WaybillReceived,
	}

	for i := 0; i < 300; i++ {
		list := randomContainers(rng)
		for name, field := range fields {
			lo, hi := MinDate(list, field), MaxDate(list, field)
			if !Any(list, field) {
				assert.False(t, lo.IsSet(), "%s: min must be absent", name)
				assert.False(t, hi.IsSet(), "%s: max must be absent", name)
				continue
			}
			require.True(t, lo.IsSet() && hi.IsSet(), "%s: both set together", name)
			assert.False(t, hi.Before(lo), "%s: min <= max", name)
		}

		complete := Aggregate(list).CompleteEIRReceived.IsSet()
		assert.Equal(t, All(list, EIRReceived), complete, "complete EIR iff every container has EIR")
	}
}

func randomContainers(rng *rand.Rand) []models.Container {
	base := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	maybe := func() models.Timestamp {
		if rng.IntN(3) == 0 {
			return models.Timestamp{}
		}
		return models.At(base.Add(time.Duration(rng.IntN(30*24)) * time.Hour))
	}
	n := rng.IntN(5)
	list := make([]models.Container, n)
	for i := range list {
		list[i] = models.Container{
			Number:                            "C",
			GatedOutTerminalDateTime:          maybe(),
			ArrivedAtDeliveryLocationDateTime: maybe(),
			EmptyReturnDateTime:               maybe(),
			EIRReceivedDateTime:               maybe(),
			WaybillReceivedDateTime:           maybe(),
		}
	}
	return list
}
