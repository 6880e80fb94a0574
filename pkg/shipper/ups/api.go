package ups

import (
	"context"

	"github.com/tournevent/upsbridge/pkg/shipper"
)

// APIClient defines the interface for UPS API operations.
// This abstraction allows for mock implementations during testing
// and real implementations in production.
type APIClient interface {
	// TrackShipment fetches tracking details for a tracking number
	TrackShipment(ctx context.Context, trackingNumber string) (shipper.Payload, error)

	// CreateShipment creates a shipment and returns the label response
	CreateShipment(ctx context.Context, shipment shipper.Payload) (shipper.Payload, error)

	// GetRates fetches rate quotes for a shipment description
	GetRates(ctx context.Context, rate shipper.Payload) (shipper.Payload, error)
}

// Base URLs of the UPS environments.
const (
	SandboxBaseURL    = "https://wwwcie.ups.com"
	ProductionBaseURL = "https://onlinetools.ups.com"
)

// REST endpoints, relative to the base URL.
const (
	tokenPath = "/security/v1/oauth/token"
	trackPath = "/api/track/v1/details/"
	shipPath  = "/api/shipments/v1/ship"
	ratePath  = "/api/rating/v1/rate"
)

// Request headers UPS uses for tracing a call.
const (
	HeaderTransactionID     = "transId"
	HeaderTransactionSource = "transactionSrc"
)

// DefaultTransactionSource is sent in the transactionSrc header when none is configured.
const DefaultTransactionSource = "delivro-logistic"

// BaseURL returns the base URL of the sandbox or the production environment.
func BaseURL(sandbox bool) string {
	if sandbox {
		return SandboxBaseURL
	}
	return ProductionBaseURL
}
