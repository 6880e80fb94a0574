package shipper

import (
	"errors"
	"fmt"
)

// ShipperError represents an error from a shipping carrier.
type ShipperError struct {
	Carrier    string
	Code       string
	Message    string
	StatusCode int
	Detail     Payload // Decoded upstream error body, when the carrier returned one
	Retryable  bool
	Cause      error
}

// Error implements the error interface.
func (e *ShipperError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s error (%s): %s: %v", e.Carrier, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s error (%s): %s", e.Carrier, e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *ShipperError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for ShipperError.
func (e *ShipperError) Is(target error) bool {
	t, ok := target.(*ShipperError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewShipperError creates a new ShipperError.
func NewShipperError(carrier, code, message string) *ShipperError {
	return &ShipperError{
		Carrier: carrier,
		Code:    code,
		Message: message,
	}
}

// WithCause adds a cause to the error.
func (e *ShipperError) WithCause(err error) *ShipperError {
	e.Cause = err
	return e
}

// WithStatusCode adds an HTTP status code to the error.
func (e *ShipperError) WithStatusCode(code int) *ShipperError {
	e.StatusCode = code
	return e
}

// WithDetail attaches the decoded upstream error body.
func (e *ShipperError) WithDetail(detail Payload) *ShipperError {
	e.Detail = detail
	return e
}

// WithRetryable marks the error as retryable.
func (e *ShipperError) WithRetryable(retryable bool) *ShipperError {
	e.Retryable = retryable
	return e
}

// Sentinel errors for common shipping scenarios.
var (
	// ErrAuthenticationFailed indicates carrier authentication failed.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrNotConfigured indicates a request was attempted on a client that never authenticated.
	ErrNotConfigured = errors.New("carrier client not configured")

	// ErrCarrierAPI indicates the carrier API rejected a request or could not be reached.
	ErrCarrierAPI = errors.New("carrier api error")

	// ErrInvalidTrackingNumber indicates the tracking number is empty or malformed.
	ErrInvalidTrackingNumber = errors.New("invalid tracking number")

	// ErrInvalidPayload indicates a request payload is missing.
	ErrInvalidPayload = errors.New("invalid payload")
)

// IsRetryable returns true if the error is retryable.
// Nothing in this module retries; the flag is a hint for callers.
func IsRetryable(err error) bool {
	var shipperErr *ShipperError
	if errors.As(err, &shipperErr) {
		return shipperErr.Retryable
	}
	return false
}
