package shipper_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tournevent/upsbridge/pkg/shipper"
)

func TestShipperError_Error(t *testing.T) {
	err := shipper.NewShipperError("ups", "API_ERROR", "Invalid shipper number")
	assert.Equal(t, "ups error (API_ERROR): Invalid shipper number", err.Error())
}

func TestShipperError_ErrorWithCause(t *testing.T) {
	cause := errors.New("network timeout")
	err := shipper.NewShipperError("ups", "API_ERROR", "API call failed").WithCause(cause)
	assert.Contains(t, err.Error(), "API call failed")
	assert.Contains(t, err.Error(), "network timeout")
}

func TestShipperError_Unwrap(t *testing.T) {
	cause := errors.New("network timeout")
	err := shipper.NewShipperError("ups", "API_ERROR", "API call failed").WithCause(cause)
	assert.True(t, errors.Is(err, cause))
}

func TestShipperError_UnwrapSentinel(t *testing.T) {
	cause := fmt.Errorf("token exchange: %w", shipper.ErrAuthenticationFailed)
	err := shipper.NewShipperError("ups", "AUTH_ERROR", "Unauthorized").WithCause(cause)
	assert.ErrorIs(t, err, shipper.ErrAuthenticationFailed)
	assert.NotErrorIs(t, err, shipper.ErrCarrierAPI)
}

func TestShipperError_Is(t *testing.T) {
	err1 := shipper.NewShipperError("ups", "INVALID_TRACKING_NUMBER", "Empty tracking number")
	err2 := shipper.NewShipperError("other", "INVALID_TRACKING_NUMBER", "Different message")

	// Same code should match
	assert.True(t, errors.Is(err1, err2))
}

func TestShipperError_IsNot(t *testing.T) {
	err1 := shipper.NewShipperError("ups", "INVALID_TRACKING_NUMBER", "Empty tracking number")
	err2 := shipper.NewShipperError("ups", "API_ERROR", "Different error")

	// Different codes should not match
	assert.False(t, errors.Is(err1, err2))
}

func TestShipperError_WithStatusCode(t *testing.T) {
	err := shipper.NewShipperError("ups", "AUTH_ERROR", "Unauthorized").WithStatusCode(401)
	assert.Equal(t, 401, err.StatusCode)
}

func TestShipperError_WithDetail(t *testing.T) {
	detail := shipper.Payload{"error": "invalid"}
	err := shipper.NewShipperError("ups", "API_ERROR", "Bad request").WithDetail(detail)
	assert.Equal(t, detail, err.Detail)
}

func TestIsRetryable_ShipperError(t *testing.T) {
	err := shipper.NewShipperError("ups", "API_ERROR", "Service unavailable").WithRetryable(true)
	assert.True(t, shipper.IsRetryable(err))
}

func TestIsRetryable_Wrapped(t *testing.T) {
	err := shipper.NewShipperError("ups", "API_ERROR", "Bad gateway").WithRetryable(true)
	assert.True(t, shipper.IsRetryable(fmt.Errorf("track: %w", err)))
}

func TestIsRetryable_ShipperErrorNotRetryable(t *testing.T) {
	err := shipper.NewShipperError("ups", "API_ERROR", "Bad request").WithRetryable(false)
	assert.False(t, shipper.IsRetryable(err))
}

func TestIsRetryable_PlainError(t *testing.T) {
	assert.False(t, shipper.IsRetryable(errors.New("boom")))
	assert.False(t, shipper.IsRetryable(nil))
}

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrAuthenticationFailed", shipper.ErrAuthenticationFailed},
		{"ErrNotConfigured", shipper.ErrNotConfigured},
		{"ErrCarrierAPI", shipper.ErrCarrierAPI},
		{"ErrInvalidTrackingNumber", shipper.ErrInvalidTrackingNumber},
		{"ErrInvalidPayload", shipper.ErrInvalidPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}
