package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sabia-monitor/fire-risk-etl/internal/ingest"
	"github.com/sabia-monitor/fire-risk-etl/internal/pipeline"
)

// ScoreProcessor runs the full transform for one uploaded workbook.
type ScoreProcessor interface {
	Process(ctx context.Context, r io.Reader) (pipeline.Result, error)
}

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server exposes the scoring endpoint plus health, readiness, and metrics.
type Server struct {
	httpServer *http.Server
	processor  ScoreProcessor
	logger     *slog.Logger
	maxUpload  int64
}

// NewServer creates an HTTP server with /v1/scores, /healthz, /readyz, and
// /metrics routes. maxUpload caps the accepted workbook size in bytes.
func NewServer(addr string, processor ScoreProcessor, ready ReadinessChecker, maxUpload int64, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		processor: processor,
		logger:    logger,
		maxUpload: maxUpload,
	}

	mux.HandleFunc("POST /v1/scores", s.handleScores)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// handleScores accepts a multipart upload with the workbook in the
// "workbook" field and responds with the scored monthly table plus the
// annual summary.
func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)

	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "workbook exceeds the upload size limit")
			return
		}
		writeError(w, http.StatusBadRequest, "expected a multipart form with a workbook field")
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck // temp file cleanup

	file, _, err := r.FormFile("workbook")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing workbook field")
		return
	}
	defer file.Close()

	result, err := s.processor.Process(r.Context(), file)
	if err != nil {
		var missing *ingest.MissingSheetError
		switch {
		case errors.As(err, &missing):
			writeError(w, http.StatusUnprocessableEntity, missing.Error())
		case errors.Is(err, ingest.ErrNotSpreadsheet):
			writeError(w, http.StatusBadRequest, "the uploaded file is not a readable xlsx workbook")
		default:
			s.logger.Error("score request failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
