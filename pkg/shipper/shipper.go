// Package shipper provides an abstraction layer for shipping carriers.
package shipper

import (
	"context"
)

// Payload is a decoded JSON object exchanged with a carrier API.
// Carriers pass payloads through without reshaping them.
type Payload map[string]any

// Shipper defines the interface that all shipping carriers must implement.
type Shipper interface {
	// Name returns the carrier identifier (e.g., "ups").
	Name() string

	// TrackShipment returns the carrier's tracking details for a tracking number.
	TrackShipment(ctx context.Context, trackingNumber string) (Payload, error)

	// CreateShipment creates a new shipment with the carrier and returns its label response.
	CreateShipment(ctx context.Context, shipment Payload) (Payload, error)

	// GetRates returns shipping rate quotes for a shipment description.
	GetRates(ctx context.Context, rate Payload) (Payload, error)
}
