package ups

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tournevent/upsbridge/pkg/shipper"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const tracerName = "github.com/tournevent/upsbridge/pkg/shipper/ups"

// HTTPAPIClient is the production implementation of APIClient using HTTP.
// It authenticates once in NewHTTPAPIClient; every field is read-only
// afterwards, so one client can serve concurrent callers.
type HTTPAPIClient struct {
	baseURL           string
	accessToken       string
	transactionSource string
	httpClient        *http.Client
	tracer            trace.Tracer
}

// HTTPAPIClientConfig holds configuration for the HTTP client.
type HTTPAPIClientConfig struct {
	ClientID          string
	ClientSecret      string
	Sandbox           bool
	BaseURL           string // Overrides the environment's base URL when set
	TransactionSource string
	Timeout           time.Duration
	Transport         http.RoundTripper // nil uses http.DefaultTransport
	Tracer            trace.Tracer      // nil disables tracing
}

// NewHTTPAPIClient creates a new HTTP-based API client and exchanges the
// client credentials for an access token. It returns an *AuthenticationError
// when the exchange fails; no client is returned in that case.
func NewHTTPAPIClient(ctx context.Context, cfg HTTPAPIClientConfig) (*HTTPAPIClient, error) {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = BaseURL(cfg.Sandbox)
	}

	source := cfg.TransactionSource
	if source == "" {
		source = DefaultTransactionSource
	}

	tracer := cfg.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer(tracerName)
	}

	c := &HTTPAPIClient{
		baseURL:           strings.TrimRight(baseURL, "/"),
		transactionSource: source,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: cfg.Transport,
		},
		tracer: tracer,
	}

	token, err := c.authenticate(ctx, cfg.ClientID, cfg.ClientSecret)
	if err != nil {
		return nil, err
	}
	c.accessToken = token

	return c, nil
}

// BaseURL returns the base URL every request is sent to.
func (c *HTTPAPIClient) BaseURL() string {
	return c.baseURL
}

// Token returns the access token obtained at construction.
func (c *HTTPAPIClient) Token() string {
	return c.accessToken
}

// TrackShipment retrieves tracking details from the UPS API.
// GET /api/track/v1/details/{trackingNumber}
func (c *HTTPAPIClient) TrackShipment(ctx context.Context, trackingNumber string) (shipper.Payload, error) {
	return c.request(ctx, "track", http.MethodGet, trackPath+url.PathEscape(trackingNumber), nil)
}

// CreateShipment creates a shipment via the UPS API. The payload is sent as is.
// POST /api/shipments/v1/ship
func (c *HTTPAPIClient) CreateShipment(ctx context.Context, shipment shipper.Payload) (shipper.Payload, error) {
	return c.request(ctx, "ship", http.MethodPost, shipPath, shipment)
}

// GetRates fetches rate quotes from the UPS API. The payload is sent as is.
// POST /api/rating/v1/rate
func (c *HTTPAPIClient) GetRates(ctx context.Context, rate shipper.Payload) (shipper.Payload, error) {
	return c.request(ctx, "rate", http.MethodPost, ratePath, rate)
}

// request sends one authenticated call and decodes its JSON response.
func (c *HTTPAPIClient) request(ctx context.Context, operation, method, endpoint string, body shipper.Payload) (payload shipper.Payload, err error) {
	if c.accessToken == "" {
		return nil, &ConfigurationError{Message: "missing access token"}
	}

	ctx, span := c.tracer.Start(ctx, "ups "+operation, trace.WithSpanKind(trace.SpanKindClient))
	defer func() { endSpan(span, err) }()

	transactionID := uuid.NewString()
	span.SetAttributes(
		attribute.String("http.request.method", method),
		attribute.String("ups.transaction_id", transactionID),
	)

	resp, err := c.doRequest(ctx, method, endpoint, transactionID, body)
	if err != nil {
		return nil, &APIError{Message: err.Error(), Cause: err}
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("failed to read response body: %v", err),
			Cause:      err,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseError(resp.StatusCode, raw)
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("failed to decode response: %s", raw),
			Cause:      err,
		}
	}

	return payload, nil
}

// doRequest performs an HTTP request with proper headers and authentication.
func (c *HTTPAPIClient) doRequest(ctx context.Context, method, endpoint, transactionID string, body shipper.Payload) (*http.Response, error) {
	var bodyReader io.Reader
	if len(body) > 0 {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderTransactionID, transactionID)
	req.Header.Set(HeaderTransactionSource, c.transactionSource)

	return c.httpClient.Do(req)
}

// parseError builds an APIError from a non-2xx response body.
func parseError(statusCode int, body []byte) error {
	var detail shipper.Payload
	if err := json.Unmarshal(body, &detail); err == nil && detail != nil {
		return &APIError{
			StatusCode: statusCode,
			Detail:     detail,
		}
	}

	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = http.StatusText(statusCode)
	}
	return &APIError{
		StatusCode: statusCode,
		Message:    msg,
	}
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// Ensure HTTPAPIClient implements APIClient interface
var _ APIClient = (*HTTPAPIClient)(nil)
