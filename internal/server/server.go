package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tournevent/upsbridge/internal/telemetry"
	"github.com/tournevent/upsbridge/pkg/shipper"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxBodyBytes caps request bodies forwarded to the carrier.
const maxBodyBytes = 1 << 20

// Server is the HTTP server for the UPS bridge.
type Server struct {
	port             int
	carrier          shipper.Shipper
	logger           *otelzap.Logger
	metrics          *telemetry.Metrics
	trackConcurrency int
}

// Config holds server configuration.
type Config struct {
	Port             int
	TrackConcurrency int // Concurrent lookups for batch tracking
}

// New creates a new server instance.
func New(cfg Config, carrier shipper.Shipper, logger *otelzap.Logger, metrics *telemetry.Metrics) *Server {
	return &Server{
		port:             cfg.Port,
		carrier:          carrier,
		logger:           logger,
		metrics:          metrics,
		trackConcurrency: cfg.TrackConcurrency,
	}
}

// Handler returns the HTTP routes of the bridge.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", s.handleHealth)

	// Prometheus metrics
	mux.Handle("GET /metrics", promhttp.Handler())

	// Carrier pass-through
	mux.HandleFunc("GET /v1/track/{trackingNumber}", s.handleTrack)
	mux.HandleFunc("POST /v1/track", s.handleTrackBatch)
	mux.HandleFunc("POST /v1/shipments", s.handleCreateShipment)
	mux.HandleFunc("POST /v1/rates", s.handleGetRates)

	return mux
}

// Run starts the HTTP server and blocks until context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("Starting server", zap.Int("port", s.port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// Response types
type errorResponse struct {
	Error  string          `json:"error"`
	Code   string          `json:"code,omitempty"`
	Detail shipper.Payload `json:"detail,omitempty"`
}

type trackBatchRequest struct {
	TrackingNumbers []string `json:"trackingNumbers"`
}

type trackBatchResult struct {
	TrackingNumber string          `json:"trackingNumber"`
	Payload        shipper.Payload `json:"payload,omitempty"`
	Error          *errorResponse  `json:"error,omitempty"`
}

type trackBatchResponse struct {
	Results []trackBatchResult `json:"results"`
}

func (s *Server) handleTrack(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	resp, err := s.carrier.TrackShipment(r.Context(), r.PathValue("trackingNumber"))
	s.respond(w, "track", start, resp, err)
}

func (s *Server) handleTrackBatch(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req trackBatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respond(w, "track_batch", start, nil, err)
		return
	}
	if len(req.TrackingNumbers) == 0 {
		s.respond(w, "track_batch", start, nil, badRequest("trackingNumbers must not be empty"))
		return
	}

	results := shipper.TrackMany(r.Context(), s.carrier, req.TrackingNumbers, s.trackConcurrency)

	out := trackBatchResponse{Results: make([]trackBatchResult, len(results))}
	failed := 0
	for i, res := range results {
		out.Results[i] = trackBatchResult{
			TrackingNumber: res.TrackingNumber,
			Payload:        res.Payload,
		}
		if res.Err != nil {
			failed++
			_, body := errorStatus(res.Err)
			out.Results[i].Error = &body
		}
	}

	s.logger.Info("Batch tracking complete",
		zap.Int("requested", len(results)),
		zap.Int("failed", failed),
	)

	s.metrics.RecordRequest("track_batch", s.carrier.Name(), "success", time.Since(start).Seconds())
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateShipment(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var shipment shipper.Payload
	if err := decodeJSON(w, r, &shipment); err != nil {
		s.respond(w, "ship", start, nil, err)
		return
	}

	resp, err := s.carrier.CreateShipment(r.Context(), shipment)
	s.respond(w, "ship", start, resp, err)
}

func (s *Server) handleGetRates(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var rate shipper.Payload
	if err := decodeJSON(w, r, &rate); err != nil {
		s.respond(w, "rate", start, nil, err)
		return
	}

	resp, err := s.carrier.GetRates(r.Context(), rate)
	s.respond(w, "rate", start, resp, err)
}

// respond writes the carrier payload or the mapped error and records metrics.
func (s *Server) respond(w http.ResponseWriter, operation string, start time.Time, payload shipper.Payload, err error) {
	carrier := s.carrier.Name()
	duration := time.Since(start).Seconds()

	if err != nil {
		status, body := errorStatus(err)
		s.metrics.RecordRequest(operation, carrier, "error", duration)
		s.metrics.RecordError(carrier, body.Code)
		s.logger.Warn("Request failed",
			zap.String("operation", operation),
			zap.Int("status", status),
			zap.Error(err),
		)
		writeJSON(w, status, body)
		return
	}

	s.metrics.RecordRequest(operation, carrier, "success", duration)
	if payload == nil {
		payload = shipper.Payload{}
	}
	writeJSON(w, http.StatusOK, payload)
}

// errorStatus maps an error to the HTTP status and body returned to the client.
func errorStatus(err error) (int, errorResponse) {
	var shipperErr *shipper.ShipperError
	if !errors.As(err, &shipperErr) {
		return http.StatusInternalServerError, errorResponse{Error: err.Error(), Code: "INTERNAL"}
	}

	body := errorResponse{
		Error:  shipperErr.Error(),
		Code:   shipperErr.Code,
		Detail: shipperErr.Detail,
	}

	switch {
	case errors.Is(err, shipper.ErrInvalidTrackingNumber), errors.Is(err, shipper.ErrInvalidPayload):
		return http.StatusBadRequest, body
	case errors.Is(err, shipper.ErrAuthenticationFailed), errors.Is(err, shipper.ErrNotConfigured):
		// Our credentials, not the caller's
		return http.StatusBadGateway, body
	case shipperErr.StatusCode >= 400 && shipperErr.StatusCode <= 599:
		return shipperErr.StatusCode, body
	default:
		return http.StatusBadGateway, body
	}
}

func badRequest(msg string) error {
	return shipper.NewShipperError("bridge", "INVALID_PAYLOAD", msg).
		WithStatusCode(http.StatusBadRequest).
		WithCause(shipper.ErrInvalidPayload)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return badRequest("invalid JSON: " + err.Error())
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
