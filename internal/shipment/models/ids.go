package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ShipmentID identifies an import shipment aggregate.
type ShipmentID uuid.UUID

func NewShipmentID() ShipmentID {
	return ShipmentID(uuid.New())
}

// ParseShipmentID rejects empty, malformed and nil UUIDs.
func ParseShipmentID(s string) (ShipmentID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ShipmentID{}, fmt.Errorf("shipment id is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return ShipmentID{}, fmt.Errorf("invalid shipment id %q: %w", s, err)
	}
	if u == uuid.Nil {
		return ShipmentID{}, fmt.Errorf("shipment id must not be nil")
	}
	return ShipmentID(u), nil
}

func (id ShipmentID) String() string {
	return uuid.UUID(id).String()
}

func (id ShipmentID) IsZero() bool {
	return uuid.UUID(id) == uuid.Nil
}

func (id ShipmentID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}

func (id *ShipmentID) UnmarshalText(data []byte) error {
	var u uuid.UUID
	if err := u.UnmarshalText(data); err != nil {
		return err
	}
	*id = ShipmentID(u)
	return nil
}
