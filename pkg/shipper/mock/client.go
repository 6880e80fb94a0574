// Package mock provides a mock shipper implementation for testing.
package mock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tournevent/upsbridge/pkg/shipper"
)

// Client is a mock shipper for testing.
// Tracking numbers listed in Failures return the mapped error.
type Client struct {
	name     string
	Failures map[string]error

	mu      sync.Mutex
	tracked []string
	shipped []shipper.Payload
	rated   []shipper.Payload
}

// New creates a new mock shipper.
func New(name string) *Client {
	return &Client{name: name, Failures: map[string]error{}}
}

// Name returns the carrier name.
func (c *Client) Name() string {
	return c.name
}

// TrackShipment returns a mock tracking payload.
func (c *Client) TrackShipment(ctx context.Context, trackingNumber string) (shipper.Payload, error) {
	c.mu.Lock()
	c.tracked = append(c.tracked, trackingNumber)
	c.mu.Unlock()

	if err, ok := c.Failures[trackingNumber]; ok {
		return nil, err
	}

	return shipper.Payload{
		"trackResponse": map[string]any{
			"shipment": []any{
				map[string]any{
					"package": []any{
						map[string]any{
							"trackingNumber": trackingNumber,
							"currentStatus": map[string]any{
								"description": "In Transit",
								"code":        "IT",
							},
							"deliveryDate": []any{
								map[string]any{"date": time.Now().AddDate(0, 0, 3).Format("20060102")},
							},
						},
					},
				},
			},
		},
	}, nil
}

// CreateShipment records the shipment and returns a mock label response.
func (c *Client) CreateShipment(ctx context.Context, shipment shipper.Payload) (shipper.Payload, error) {
	c.mu.Lock()
	c.shipped = append(c.shipped, shipment)
	c.mu.Unlock()

	trackingNumber := fmt.Sprintf("1Z%s%09d", c.name, time.Now().UnixNano()%1000000000)
	return shipper.Payload{
		"ShipmentResponse": map[string]any{
			"ShipmentResults": map[string]any{
				"ShipmentIdentificationNumber": trackingNumber,
				"PackageResults": []any{
					map[string]any{"TrackingNumber": trackingNumber},
				},
			},
		},
	}, nil
}

// GetRates records the rate request and returns a mock rated shipment.
func (c *Client) GetRates(ctx context.Context, rate shipper.Payload) (shipper.Payload, error) {
	c.mu.Lock()
	c.rated = append(c.rated, rate)
	c.mu.Unlock()

	return shipper.Payload{
		"RateResponse": map[string]any{
			"RatedShipment": []any{
				map[string]any{
					"Service":      map[string]any{"Code": "03"},
					"TotalCharges": map[string]any{"CurrencyCode": "USD", "MonetaryValue": "15.82"},
				},
			},
		},
	}, nil
}

// Tracked returns the tracking numbers looked up so far.
func (c *Client) Tracked() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.tracked...)
}

// Shipped returns the shipment payloads received so far.
func (c *Client) Shipped() []shipper.Payload {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]shipper.Payload(nil), c.shipped...)
}

// Rated returns the rate payloads received so far.
func (c *Client) Rated() []shipper.Payload {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]shipper.Payload(nil), c.rated...)
}

var _ shipper.Shipper = (*Client)(nil)
