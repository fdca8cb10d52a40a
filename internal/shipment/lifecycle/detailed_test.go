package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"clearance/internal/shipment/models"
	"clearance/internal/shipment/shipmenttest"
)

// =============================================================================
// Detailed Lifecycle Test Suite
// =============================================================================
// The cascade is pure; every test builds a shipment and asserts the derived
// state, so ordering mistakes surface as the wrong stage.

type DetailedLifecycleSuite struct {
	suite.Suite
}

func TestDetailedLifecycleSuite(t *testing.T) {
	suite.Run(t, new(DetailedLifecycleSuite))
}

// =============================================================================
// Fixture coverage
// =============================================================================

func (s *DetailedLifecycleSuite) TestFixturesDeriveTheirState() {
	for _, state := range shipmenttest.DerivableStates {
		s.Run(string(state), func() {
			s.Equal(state, DetailedLifecycleState(shipmenttest.AtState(state)))
		})
	}
}

func (s *DetailedLifecycleSuite) TestDeliveredIsNeverDerived() {
	for _, state := range shipmenttest.DerivableStates {
		s.NotEqual(models.StateDelivered, DetailedLifecycleState(shipmenttest.AtState(state)))
	}
}

// =============================================================================
// Cascade ordering
// =============================================================================

func (s *DetailedLifecycleSuite) TestEarlierGapWinsOverLaterData() {
	s.Run("missing BL number stays in pre-arrival even with duty paid", func() {
		pa := shipmenttest.PreArrival()
		pa.BLNumber = ""
		shipment := shipmenttest.New().
			Origin(shipmenttest.Origin()).
			PreArrival(pa).
			Terminal(shipmenttest.Terminal()).
			Customs(shipmenttest.Customs()).
			Build()

		eval := Evaluate(shipment)
		s.Equal(models.StatePreArrival, eval.State)
		s.Equal([]string{"BL number"}, eval.Missing)
	})

	s.Run("origin gaps are listed together", func() {
		o := shipmenttest.Origin()
		o.ATD = models.Timestamp{}
		o.CollectionMethod = ""

		eval := Evaluate(shipmenttest.New().Origin(o).Build())
		s.Equal(models.StateDraft, eval.State)
		s.Equal([]string{"ATD", "collection method"}, eval.Missing)
	})

	s.Run("partial duty awaits payment", func() {
		pa := shipmenttest.PreArrival()
		pa.DutyStatus = models.DutyPartial
		shipment := shipmenttest.New().Origin(shipmenttest.Origin()).PreArrival(pa).Terminal(shipmenttest.Terminal()).Build()

		s.Equal(models.StateAwaitingPayment, DetailedLifecycleState(shipment))
	})

	s.Run("unknown duty status does not hold the file", func() {
		pa := shipmenttest.PreArrival()
		pa.DutyStatus = models.DutyUnknown
		shipment := shipmenttest.New().Origin(shipmenttest.Origin()).PreArrival(pa).Build()

		s.Equal(models.StateTerminal, DetailedLifecycleState(shipment))
	})
}

// =============================================================================
// Compliance gate
// =============================================================================

func (s *DetailedLifecycleSuite) TestComplianceGate() {
	base := func(c *models.CustomsRegulatorySection) models.Shipment {
		return shipmenttest.New().
			Origin(shipmenttest.Origin()).
			PreArrival(shipmenttest.PreArrival()).
			Terminal(shipmenttest.Terminal()).
			Customs(c).
			Build()
	}

	s.Run("unresolved NAFDAC block holds a released file", func() {
		c := shipmenttest.Customs()
		c.NAFDAC = models.AgencyCheck{Applicable: true, BlockDate: shipmenttest.D(2024, time.January, 27), FullyStamped: true}

		eval := Evaluate(base(c))
		s.Equal(models.StateCompliance, eval.State)
		s.Contains(eval.Missing, "NAFDAC block resolution")
	})

	s.Run("resolved block with stamping clears", func() {
		c := shipmenttest.Customs()
		c.NAFDAC = models.AgencyCheck{
			Applicable:        true,
			BlockDate:         shipmenttest.D(2024, time.January, 27),
			BlockResolvedDate: shipmenttest.D(2024, time.January, 30),
			FullyStamped:      true,
		}
		s.Equal(models.StateTransport, DetailedLifecycleState(base(c)))
	})

	s.Run("applicable SON without stamping", func() {
		c := shipmenttest.Customs()
		c.SON = models.AgencyCheck{Applicable: true}

		eval := Evaluate(base(c))
		s.Equal(models.StateCompliance, eval.State)
		s.Equal([]string{"SON stamping"}, eval.Missing)
	})

	s.Run("blocks on a non-applicable agency are ignored", func() {
		c := shipmenttest.Customs()
		c.SON = models.AgencyCheck{Applicable: false, BlockDate: shipmenttest.D(2024, time.January, 27)}
		s.Equal(models.StateTransport, DetailedLifecycleState(base(c)))
	})
}

// =============================================================================
// Delivery and refunds
// =============================================================================

func (s *DetailedLifecycleSuite) TestDeliveryAndRefunds() {
	s.Run("last delivered date substitutes for container completion", func() {
		shipment := shipmenttest.AtState(models.StateTransport)
		shipment.Transport = &models.TransportDeliverySection{LastDeliveredDate: shipmenttest.D(2024, time.February, 3)}
		shipment.Terminal.TerminalValidTill = models.Timestamp{}
		shipment.Terminal.ShippingValidTill = models.Timestamp{}

		s.Equal(models.StateInvoicing, DetailedLifecycleState(shipment))
	})

	s.Run("applied but unacknowledged refund stays pending", func() {
		shipment := shipmenttest.AtState(models.StateInvoicing)
		shipment.Terminal.ShippingRefundAcknowledgedDate = models.Timestamp{}

		eval := Evaluate(shipment)
		s.Equal(models.StateRefundPending, eval.State)
		s.Equal([]string{"shipping refund application"}, eval.Missing)
	})

	s.Run("late loading means no refund to chase", func() {
		shipment := shipmenttest.AtState(models.StateRefundPending)
		shipment.Terminal.TerminalValidTill = shipmenttest.D(2024, time.January, 31)
		shipment.Terminal.ShippingValidTill = models.Timestamp{}

		s.Equal(models.StateInvoicing, DetailedLifecycleState(shipment))
	})
}

// =============================================================================
// Overrides
// =============================================================================

func (s *DetailedLifecycleSuite) TestOverrides() {
	s.Run("closed supersedes an empty file", func() {
		shipment := shipmenttest.New().Override(models.OverrideClosed).Build()
		s.Equal(models.StateClosed, DetailedLifecycleState(shipment))
	})

	s.Run("closed is absorbing under any section change", func() {
		shipment := shipmenttest.AtState(models.StateClosed)
		updates := []models.Update{
			models.OriginSaved(models.OriginSection{}),
			models.PreArrivalSaved(models.PreArrivalSection{DutyStatus: models.DutyUnpaid}),
			models.CustomsSaved(models.CustomsRegulatorySection{}),
			models.TransportSaved(models.TransportDeliverySection{}, nil),
		}
		for _, u := range updates {
			shipment = u.ApplyTo(shipment)
			s.Equal(models.StateClosed, DetailedLifecycleState(shipment), u.Section)
		}
	})

	s.Run("on hold supersedes derived state", func() {
		shipment := shipmenttest.AtState(models.StateInvoicing)
		shipment.Override = models.OverrideOnHold
		s.Equal(models.StateOnHold, DetailedLifecycleState(shipment))
	})
}
