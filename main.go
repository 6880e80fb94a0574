package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tournevent/upsbridge/internal/server"
	"github.com/tournevent/upsbridge/internal/telemetry"
	"github.com/tournevent/upsbridge/pkg/shipper"
	"go.uber.org/zap"
)

var version = "0.0.1"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "upsbridge",
	Short:        "Delivro UPS Bridge - UPS tracking, shipping and rating",
	Version:      version,
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP bridge",
	RunE:  runServe,
}

var trackCmd = &cobra.Command{
	Use:   "track <tracking-number>...",
	Short: "Print UPS tracking details",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTrack,
}

var shipCmd = &cobra.Command{
	Use:   "ship",
	Short: "Create a UPS shipment from a JSON ShipmentRequest",
	RunE:  runShip,
}

var rateCmd = &cobra.Command{
	Use:   "rate",
	Short: "Get UPS rates for a JSON RateRequest",
	RunE:  runRate,
}

func init() {
	shipCmd.Flags().StringP("file", "f", "-", "JSON payload file, - for stdin")
	rateCmd.Flags().StringP("file", "f", "-", "JSON payload file, - for stdin")

	rootCmd.AddCommand(serveCmd, trackCmd, shipCmd, rateCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Initialize telemetry
	logger, err := initLogger(cfg.LogLevel, "stdout")
	if err != nil {
		return err
	}
	defer logger.Sync()

	tracer, tracerShutdown, err := initTracer(ctx, cfg)
	if err != nil {
		logger.Warn("Failed to initialize tracer", zap.Error(err))
		tracer = telemetry.NoopTracer()
	} else {
		defer tracerShutdown(context.Background())
	}

	// Authenticate with UPS; the bridge doesn't start without a token
	carrier, err := initCarrier(ctx, cfg, logger, tracer)
	if err != nil {
		return err
	}

	logger.Info("Starting Delivro UPS Bridge",
		zap.Int("port", cfg.Port),
		zap.String("version", cfg.Version),
		zap.Bool("sandbox", cfg.UPSSandbox),
	)

	// Start HTTP server
	srv := server.New(server.Config{
		Port:             cfg.Port,
		TrackConcurrency: cfg.TrackConcurrency,
	}, carrier, logger, initMetrics())
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func runTrack(cmd *cobra.Command, args []string) error {
	carrier, cfg, cleanup, err := setupCLI(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	if len(args) == 1 {
		resp, err := carrier.TrackShipment(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), resp)
	}

	results := shipper.TrackMany(cmd.Context(), carrier, args, cfg.TrackConcurrency)
	return printTrackResults(cmd.OutOrStdout(), results)
}

func runShip(cmd *cobra.Command, args []string) error {
	shipment, err := readPayloadFlag(cmd)
	if err != nil {
		return err
	}

	carrier, _, cleanup, err := setupCLI(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	resp, err := carrier.CreateShipment(cmd.Context(), shipment)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), resp)
}

func runRate(cmd *cobra.Command, args []string) error {
	rate, err := readPayloadFlag(cmd)
	if err != nil {
		return err
	}

	carrier, _, cleanup, err := setupCLI(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	resp, err := carrier.GetRates(cmd.Context(), rate)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), resp)
}
