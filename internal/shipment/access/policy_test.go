package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clearance/internal/shipment/models"
	"clearance/internal/shipment/shipmenttest"
	"clearance/pkg/testutil"
)

func TestValidateTransition(t *testing.T) {
	testutil.Given(t, "a shipment awaiting duty payment", func(t *testing.T) {
		s := shipmenttest.AtState(models.StateAwaitingPayment)

		testutil.When(t, "terminal data is saved", func(t *testing.T) {
			d := ValidateTransition(s, models.SectionTerminal)

			testutil.Then(t, "the save is denied with the payment reason", func(t *testing.T) {
				assert.False(t, d.Allowed)
				assert.Equal(t, "Duty payment required before Terminal", d.Reason)
				assert.Equal(t, models.StateAwaitingPayment, d.State)
				assert.Equal(t, WindowTerminal, d.Window)
			})
		})

		testutil.When(t, "pre-arrival data is corrected", func(t *testing.T) {
			d := ValidateTransition(s, models.SectionPreArrival)

			testutil.Then(t, "the earlier window is still open", func(t *testing.T) {
				assert.True(t, d.Allowed)
				assert.Empty(t, d.Reason)
			})
		})
	})

	testutil.Given(t, "a closed shipment", func(t *testing.T) {
		s := shipmenttest.AtState(models.StateClosed)

		testutil.Then(t, "every section is rejected", func(t *testing.T) {
			for _, section := range models.Sections {
				d := ValidateTransition(s, section)
				assert.False(t, d.Allowed, section)
				assert.Equal(t, ReasonClosed, d.Reason)
			}
		})
	})
}

func TestCheck_OutOfOrderReasons(t *testing.T) {
	cases := []struct {
		state   models.ImportState
		section models.Section
		reason  string
	}{
		{models.StateDraft, models.SectionTerminal, "Origin details required before Terminal"},
		{models.StatePreArrival, models.SectionTerminal, "Pre-arrival documents required before Terminal"},
		{models.StateDraft, models.SectionPreArrival, "Origin details required before Pre-Arrival"},
		{models.StateTerminal, models.SectionCustoms, "Terminal clearance required before Customs"},
		{models.StateCustoms, models.SectionTransport, "Customs release required before Transport"},
		{models.StateCompliance, models.SectionTransport, "Regulatory compliance required before Transport"},
		{models.StateTransport, models.SectionBankClosure, "Delivery required before Invoicing"},
		{models.StateOnHold, models.SectionOrigin, ReasonOnHold},
	}
	for _, tc := range cases {
		t.Run(string(tc.state)+"/"+string(tc.section), func(t *testing.T) {
			d := Check(tc.state, tc.section)
			require.False(t, d.Allowed)
			assert.Equal(t, tc.reason, d.Reason)
		})
	}
}

func TestCheck_UngatedSections(t *testing.T) {
	for _, section := range []models.Section{models.SectionTeamDocumentation, models.SectionPerformanceControl} {
		assert.True(t, Check(models.StateDraft, section).Allowed, section)
		assert.False(t, Check(models.StateClosed, section).Allowed, section)
	}
}

func TestEditableWindows(t *testing.T) {
	t.Run("draft only opens origin", func(t *testing.T) {
		got := EditableWindows(models.StateDraft)
		assert.Equal(t, WindowMap{
			WindowOrigin:     true,
			WindowPreArrival: false,
			WindowTerminal:   false,
			WindowCustoms:    false,
			WindowTransport:  false,
			WindowInvoicing:  false,
		}, got)
	})

	t.Run("compliance keeps transport locked", func(t *testing.T) {
		got := EditableWindows(models.StateCompliance)
		assert.True(t, got[WindowCustoms])
		assert.False(t, got[WindowTransport])
	})

	t.Run("invoicing opens everything", func(t *testing.T) {
		for w, open := range EditableWindows(models.StateInvoicing) {
			assert.True(t, open, w)
		}
	})

	t.Run("overrides lock everything", func(t *testing.T) {
		for _, state := range []models.ImportState{models.StateClosed, models.StateOnHold} {
			for w, open := range EditableWindows(state) {
				assert.False(t, open, "%s/%s", state, w)
			}
		}
	})

	t.Run("map agrees with the guard", func(t *testing.T) {
		for _, state := range models.ImportStates {
			windows := EditableWindows(state)
			for section, w := range sectionWindows {
				assert.Equal(t, windows[w], Check(state, section).Allowed, "%s/%s", state, section)
			}
		}
	})
}
