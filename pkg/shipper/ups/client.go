// Package ups provides integration with the UPS REST API.
package ups

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/tournevent/upsbridge/pkg/shipper"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const carrierName = "ups"

// Config holds UPS configuration.
type Config struct {
	ClientID          string
	ClientSecret      string
	Sandbox           bool
	BaseURL           string // Optional override of the environment's base URL
	TransactionSource string
	Timeout           time.Duration
	UseMock           bool // When true, uses mock API client
}

// Client is the UPS shipper client.
// It implements the shipper.Shipper interface and delegates
// API calls to the underlying APIClient (mock or HTTP).
type Client struct {
	config    Config
	apiClient APIClient
	logger    *otelzap.Logger
}

// New creates a new UPS client.
// If cfg.UseMock is true, it uses a mock API client for testing.
// Otherwise, it authenticates against UPS and fails if that does not succeed.
func New(ctx context.Context, cfg Config, logger *otelzap.Logger, tracer trace.Tracer) (*Client, error) {
	var apiClient APIClient

	if cfg.UseMock {
		apiClient = NewMockAPIClient()
	} else {
		httpClient, err := NewHTTPAPIClient(ctx, HTTPAPIClientConfig{
			ClientID:          cfg.ClientID,
			ClientSecret:      cfg.ClientSecret,
			Sandbox:           cfg.Sandbox,
			BaseURL:           cfg.BaseURL,
			TransactionSource: cfg.TransactionSource,
			Timeout:           cfg.Timeout,
			Tracer:            tracer,
		})
		if err != nil {
			logger.Error("UPS authentication failed",
				zap.Bool("sandbox", cfg.Sandbox),
				zap.Error(err),
			)
			return nil, wrapError(err)
		}
		logger.Info("Authenticated with UPS",
			zap.String("base_url", httpClient.BaseURL()),
		)
		apiClient = httpClient
	}

	return NewWithAPIClient(cfg, apiClient, logger), nil
}

// NewWithAPIClient creates a new UPS client with a custom API client.
// This is useful for injecting mock clients in tests.
func NewWithAPIClient(cfg Config, apiClient APIClient, logger *otelzap.Logger) *Client {
	return &Client{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
	}
}

// Name returns the carrier name.
func (c *Client) Name() string {
	return carrierName
}

// TrackShipment returns the UPS tracking details for a tracking number.
func (c *Client) TrackShipment(ctx context.Context, trackingNumber string) (shipper.Payload, error) {
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		return nil, shipper.NewShipperError(carrierName, "INVALID_TRACKING_NUMBER", "tracking number is required").
			WithStatusCode(http.StatusBadRequest).
			WithCause(shipper.ErrInvalidTrackingNumber)
	}

	c.logger.Info("Tracking UPS shipment",
		zap.String("tracking_number", trackingNumber),
	)

	resp, err := c.apiClient.TrackShipment(ctx, trackingNumber)
	if err != nil {
		c.logger.Error("UPS API error",
			zap.String("operation", "track"),
			zap.String("tracking_number", trackingNumber),
			zap.Error(err),
		)
		return nil, wrapError(err)
	}

	return resp, nil
}

// CreateShipment creates a shipment with UPS.
func (c *Client) CreateShipment(ctx context.Context, shipment shipper.Payload) (shipper.Payload, error) {
	if shipment == nil {
		return nil, invalidPayload("shipment")
	}

	c.logger.Info("Creating UPS shipment",
		zap.Int("fields", len(shipment)),
	)

	resp, err := c.apiClient.CreateShipment(ctx, shipment)
	if err != nil {
		c.logger.Error("UPS API error",
			zap.String("operation", "ship"),
			zap.Error(err),
		)
		return nil, wrapError(err)
	}

	return resp, nil
}

// GetRates returns UPS rate quotes.
func (c *Client) GetRates(ctx context.Context, rate shipper.Payload) (shipper.Payload, error) {
	if rate == nil {
		return nil, invalidPayload("rate request")
	}

	c.logger.Info("Getting UPS rates",
		zap.Int("fields", len(rate)),
	)

	resp, err := c.apiClient.GetRates(ctx, rate)
	if err != nil {
		c.logger.Error("UPS API error",
			zap.String("operation", "rate"),
			zap.Error(err),
		)
		return nil, wrapError(err)
	}

	return resp, nil
}

// ============================================================================
// Error mapping: UPS errors -> shipper errors
// ============================================================================

func invalidPayload(what string) *shipper.ShipperError {
	return shipper.NewShipperError(carrierName, "INVALID_PAYLOAD", what+" payload is required").
		WithStatusCode(http.StatusBadRequest).
		WithCause(shipper.ErrInvalidPayload)
}

// wrapError converts errors from the API client into shipper errors.
// The original error stays reachable through errors.As.
func wrapError(err error) error {
	var (
		authErr   *AuthenticationError
		configErr *ConfigurationError
		apiErr    *APIError
	)

	switch {
	case errors.As(err, &authErr):
		return shipper.NewShipperError(carrierName, "AUTH_ERROR", "authentication failed").
			WithStatusCode(authErr.StatusCode).
			WithCause(err)
	case errors.As(err, &configErr):
		return shipper.NewShipperError(carrierName, "CONFIG_ERROR", configErr.Message).
			WithCause(err)
	case errors.As(err, &apiErr):
		msg := apiErr.Message
		if apiErr.Detail != nil {
			msg = "request rejected"
		}
		return shipper.NewShipperError(carrierName, "API_ERROR", msg).
			WithStatusCode(apiErr.StatusCode).
			WithDetail(apiErr.Detail).
			WithRetryable(apiErr.Retryable()).
			WithCause(err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return shipper.NewShipperError(carrierName, "API_ERROR", "request aborted").
			WithRetryable(true).
			WithCause(err)
	default:
		return shipper.NewShipperError(carrierName, "API_ERROR", "unexpected error").
			WithCause(err)
	}
}

// Ensure Client implements shipper.Shipper interface
var _ shipper.Shipper = (*Client)(nil)
