package ups

import (
	"encoding/json"
	"fmt"

	"github.com/tournevent/upsbridge/pkg/shipper"
)

// AuthenticationError is returned when the OAuth token exchange fails.
// A client that failed to authenticate is never returned to the caller.
type AuthenticationError struct {
	StatusCode int    // 0 when the exchange never got a response
	Detail     string // Upstream response body, or the transport error message
	Cause      error
}

func (e *AuthenticationError) Error() string {
	return "UPS authentication failed: " + e.Detail
}

// Unwrap returns the underlying transport or decoding error.
func (e *AuthenticationError) Unwrap() error {
	return e.Cause
}

// Is matches shipper.ErrAuthenticationFailed.
func (e *AuthenticationError) Is(target error) bool {
	return target == shipper.ErrAuthenticationFailed
}

// ConfigurationError is returned when a request is attempted without an access token.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return "UPS client misconfigured: " + e.Message
}

// Is matches shipper.ErrNotConfigured.
func (e *ConfigurationError) Is(target error) bool {
	return target == shipper.ErrNotConfigured
}

// APIError is returned when a UPS endpoint answers with a non-2xx status
// or cannot be reached.
type APIError struct {
	StatusCode int             // 0 for transport failures
	Detail     shipper.Payload // Decoded error body; nil when the body was not JSON
	Message    string          // Raw body or transport error message when Detail is nil
	Cause      error
}

func (e *APIError) Error() string {
	if e.Detail != nil {
		detail, _ := json.Marshal(e.Detail)
		return fmt.Sprintf("UPS API error (HTTP %d): %s", e.StatusCode, detail)
	}
	if e.StatusCode == 0 {
		return "UPS API request failed: " + e.Message
	}
	return fmt.Sprintf("UPS API error (HTTP %d): %s", e.StatusCode, e.Message)
}

// Unwrap returns the underlying transport error.
func (e *APIError) Unwrap() error {
	return e.Cause
}

// Is matches shipper.ErrCarrierAPI.
func (e *APIError) Is(target error) bool {
	return target == shipper.ErrCarrierAPI
}

// Retryable reports whether the failure is transient (transport error or 5xx).
func (e *APIError) Retryable() bool {
	return e.StatusCode == 0 || e.StatusCode >= 500
}
