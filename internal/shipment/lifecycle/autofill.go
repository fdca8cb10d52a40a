package lifecycle

import "clearance/internal/shipment/models"

// AutoFill copies facts that later sections mirror from earlier ones:
//
//	terminal BL number  <- pre-arrival BL number
//	transport TDO date  <- terminal TDO received date
//
// Only empty targets are filled and a missing target section is not
// created. Runs once per recompute, before any derivation.
func AutoFill(s models.Shipment) models.Shipment {
	out := s.Clone()
	if out.Terminal != nil && out.Terminal.BLNumber == "" && out.PreArrival != nil {
		out.Terminal.BLNumber = out.PreArrival.BLNumber
	}
	if out.Transport != nil && !out.Transport.TDOProjected.IsSet() && out.Terminal != nil {
		out.Transport.TDOProjected = out.Terminal.TDOReceivedDate
	}
	return out
}
