package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/tournevent/upsbridge/internal/config"
	"github.com/tournevent/upsbridge/internal/telemetry"
	"github.com/tournevent/upsbridge/pkg/shipper"
	"github.com/tournevent/upsbridge/pkg/shipper/ups"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
)

func loadConfig() (*config.Config, error) {
	return config.Load()
}

func initLogger(level, output string) (*otelzap.Logger, error) {
	return telemetry.NewLogger(level, output)
}

func initMetrics() *telemetry.Metrics {
	return telemetry.NewMetrics(prometheus.DefaultRegisterer)
}

func initTracer(ctx context.Context, cfg *config.Config) (trace.Tracer, func(context.Context) error, error) {
	if !cfg.OTELEnabled {
		return telemetry.NoopTracer(), func(context.Context) error { return nil }, nil
	}

	return telemetry.InitTracer(ctx, cfg.OTELEndpoint, cfg.ServiceName, cfg.Attributes()...)
}

func initCarrier(ctx context.Context, cfg *config.Config, logger *otelzap.Logger, tracer trace.Tracer) (*ups.Client, error) {
	return ups.New(ctx, ups.Config{
		ClientID:          cfg.UPSClientID,
		ClientSecret:      cfg.UPSClientSecret,
		Sandbox:           cfg.UPSSandbox,
		BaseURL:           cfg.UPSBaseURL,
		TransactionSource: cfg.UPSTransactionSource,
		Timeout:           cfg.UPSTimeout,
		UseMock:           cfg.UPSUseMock,
	}, logger, tracer)
}

// setupCLI builds an authenticated carrier for one-shot commands.
// Logs go to stderr so stdout carries only the JSON result.
func setupCLI(ctx context.Context) (shipper.Shipper, *config.Config, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}

	logger, err := initLogger(cfg.LogLevel, "stderr")
	if err != nil {
		return nil, nil, nil, err
	}

	carrier, err := initCarrier(ctx, cfg, logger, telemetry.NoopTracer())
	if err != nil {
		logger.Sync()
		return nil, nil, nil, err
	}

	return carrier, cfg, func() { logger.Sync() }, nil
}

func readPayloadFlag(cmd *cobra.Command) (shipper.Payload, error) {
	path, err := cmd.Flags().GetString("file")
	if err != nil {
		return nil, err
	}

	if path == "-" {
		return readPayload(cmd.InOrStdin())
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening payload: %w", err)
	}
	defer f.Close()

	return readPayload(f)
}

// readPayload decodes a single JSON object.
func readPayload(r io.Reader) (shipper.Payload, error) {
	var payload shipper.Payload
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding payload: %w", err)
	}
	if payload == nil {
		return nil, errors.New("decoding payload: expected a JSON object")
	}
	return payload, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type trackOutput struct {
	TrackingNumber string          `json:"trackingNumber"`
	Payload        shipper.Payload `json:"payload,omitempty"`
	Error          string          `json:"error,omitempty"`
}

// printTrackResults prints every result and fails if any lookup failed.
func printTrackResults(w io.Writer, results []shipper.TrackResult) error {
	out := make([]trackOutput, len(results))
	failed := 0
	for i, r := range results {
		out[i] = trackOutput{TrackingNumber: r.TrackingNumber, Payload: r.Payload}
		if r.Err != nil {
			out[i].Error = r.Err.Error()
			failed++
		}
	}

	if err := printJSON(w, out); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d lookups failed", failed, len(results))
	}
	return nil
}
