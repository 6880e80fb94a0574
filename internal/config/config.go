package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.opentelemetry.io/otel/attribute"
)

// Config holds all configuration for the service.
type Config struct {
	// Server
	Port     int    `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// UPS
	UPSClientID          string        `envconfig:"UPS_CLIENT_ID"`
	UPSClientSecret      string        `envconfig:"UPS_CLIENT_SECRET"`
	UPSSandbox           bool          `envconfig:"UPS_SANDBOX" default:"true"`
	UPSBaseURL           string        `envconfig:"UPS_BASE_URL"`
	UPSTransactionSource string        `envconfig:"UPS_TRANSACTION_SOURCE" default:"delivro-logistic"`
	UPSTimeout           time.Duration `envconfig:"UPS_TIMEOUT" default:"30s"`
	UPSUseMock           bool          `envconfig:"UPS_USE_MOCK" default:"false"`

	// Batch tracking
	TrackConcurrency int `envconfig:"TRACK_CONCURRENCY" default:"4"`

	// Telemetry
	OTELEnabled  bool   `envconfig:"OTEL_ENABLED" default:"false"`
	OTELEndpoint string `envconfig:"OTEL_ENDPOINT" default:"http://localhost:4318"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"delivro-ups-bridge"`
	Version      string `envconfig:"SERVICE_VERSION" default:"0.0.1"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &cfg, nil
}

// Validate checks settings that have no usable default.
func (c *Config) Validate() error {
	var errs []error
	if !c.UPSUseMock {
		if c.UPSClientID == "" {
			errs = append(errs, errors.New("UPS_CLIENT_ID is required"))
		}
		if c.UPSClientSecret == "" {
			errs = append(errs, errors.New("UPS_CLIENT_SECRET is required"))
		}
	}
	if c.UPSTimeout <= 0 {
		errs = append(errs, errors.New("UPS_TIMEOUT must be positive"))
	}
	if c.TrackConcurrency < 1 {
		errs = append(errs, errors.New("TRACK_CONCURRENCY must be at least 1"))
	}
	return errors.Join(errs...)
}

// Attributes returns OpenTelemetry attributes for this configuration.
func (c *Config) Attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("service.name", c.ServiceName),
		attribute.String("service.version", c.Version),
		attribute.Bool("ups.sandbox", c.UPSSandbox),
		attribute.Bool("ups.mock", c.UPSUseMock),
	}
}
