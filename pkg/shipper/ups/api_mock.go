package ups

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tournevent/upsbridge/pkg/shipper"
)

// MockAPIClient is a mock implementation of APIClient for testing.
type MockAPIClient struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	OnTrackShipment  func(ctx context.Context, trackingNumber string) (shipper.Payload, error)
	OnCreateShipment func(ctx context.Context, shipment shipper.Payload) (shipper.Payload, error)
	OnGetRates       func(ctx context.Context, rate shipper.Payload) (shipper.Payload, error)
}

// NewMockAPIClient creates a new mock API client with default behavior.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{}
}

// TrackShipment returns mock tracking details.
func (m *MockAPIClient) TrackShipment(ctx context.Context, trackingNumber string) (shipper.Payload, error) {
	if err := m.simulate(ctx); err != nil {
		return nil, err
	}

	if m.OnTrackShipment != nil {
		return m.OnTrackShipment(ctx, trackingNumber)
	}

	return shipper.Payload{
		"trackResponse": map[string]any{
			"shipment": []any{
				map[string]any{
					"inquiryNumber": trackingNumber,
					"package": []any{
						map[string]any{
							"trackingNumber": trackingNumber,
							"currentStatus": map[string]any{
								"code":        "003",
								"description": "Shipment Ready for UPS",
							},
							"activity": []any{
								map[string]any{
									"date": time.Now().Format("20060102"),
									"time": time.Now().Format("150405"),
									"status": map[string]any{
										"type":        "M",
										"description": "Shipper created a label, UPS has not received the package yet.",
									},
								},
							},
						},
					},
				},
			},
		},
	}, nil
}

// CreateShipment returns a mock shipment confirmation with a label.
func (m *MockAPIClient) CreateShipment(ctx context.Context, shipment shipper.Payload) (shipper.Payload, error) {
	if err := m.simulate(ctx); err != nil {
		return nil, err
	}

	if m.OnCreateShipment != nil {
		return m.OnCreateShipment(ctx, shipment)
	}

	trackingNumber := fmt.Sprintf("1ZMOCK%010d", time.Now().UnixNano()%10000000000)
	return shipper.Payload{
		"ShipmentResponse": map[string]any{
			"Response": map[string]any{
				"ResponseStatus": map[string]any{"Code": "1", "Description": "Success"},
				"TransactionReference": map[string]any{
					"CustomerContext": uuid.New().String()[:8],
				},
			},
			"ShipmentResults": map[string]any{
				"ShipmentIdentificationNumber": trackingNumber,
				"ShipmentCharges": map[string]any{
					"TotalCharges": map[string]any{"CurrencyCode": "USD", "MonetaryValue": "20.24"},
				},
				"PackageResults": []any{
					map[string]any{
						"TrackingNumber": trackingNumber,
						"ShippingLabel": map[string]any{
							"ImageFormat":  map[string]any{"Code": "GIF"},
							"GraphicImage": "R0lGODlhAQABAAAAACw=",
						},
					},
				},
			},
		},
	}, nil
}

// GetRates returns mock rated shipments.
func (m *MockAPIClient) GetRates(ctx context.Context, rate shipper.Payload) (shipper.Payload, error) {
	if err := m.simulate(ctx); err != nil {
		return nil, err
	}

	if m.OnGetRates != nil {
		return m.OnGetRates(ctx, rate)
	}

	return shipper.Payload{
		"RateResponse": map[string]any{
			"Response": map[string]any{
				"ResponseStatus": map[string]any{"Code": "1", "Description": "Success"},
			},
			"RatedShipment": []any{
				map[string]any{
					"Service":      map[string]any{"Code": "03", "Description": "UPS Ground"},
					"TotalCharges": map[string]any{"CurrencyCode": "USD", "MonetaryValue": "20.24"},
					"GuaranteedDelivery": map[string]any{
						"BusinessDaysInTransit": "3",
					},
				},
				map[string]any{
					"Service":      map[string]any{"Code": "02", "Description": "UPS 2nd Day Air"},
					"TotalCharges": map[string]any{"CurrencyCode": "USD", "MonetaryValue": "36.69"},
					"GuaranteedDelivery": map[string]any{
						"BusinessDaysInTransit": "2",
					},
				},
			},
		},
	}, nil
}

func (m *MockAPIClient) simulate(ctx context.Context) error {
	if m.SimulateLatency > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.SimulateLatency):
		}
	}

	if m.SimulateErrors {
		return &APIError{
			StatusCode: 503,
			Detail: shipper.Payload{
				"response": map[string]any{
					"errors": []any{
						map[string]any{"code": "MOCK_ERROR", "message": "Simulated API error"},
					},
				},
			},
		}
	}
	return nil
}

// Ensure MockAPIClient implements APIClient interface
var _ APIClient = (*MockAPIClient)(nil)
