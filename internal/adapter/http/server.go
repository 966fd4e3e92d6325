package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/odo48-debug/riesgos/internal/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Assessor runs a full hazard assessment for a point.
type Assessor interface {
	Assess(ctx context.Context, p domain.Point) (domain.Assessment, error)
}

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server exposes the risk query API plus health, readiness, and metrics
// endpoints.
type Server struct {
	httpServer *http.Server
	assessor   Assessor
	logger     *slog.Logger
}

// NewServer creates the HTTP server and wires all routes.
func NewServer(addr string, assessor Assessor, ready ReadinessChecker, logger *slog.Logger) *Server {
	router := mux.NewRouter()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      handlers.RecoveryHandler()(requestIDMiddleware(router)),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 120 * time.Second, // assessments wait on five upstreams
			IdleTimeout:  60 * time.Second,
		},
		assessor: assessor,
		logger:   logger,
	}

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/risk", s.handleRisk).Methods(http.MethodGet)
	api.HandleFunc("/risk/raw", s.handleRiskRaw).Methods(http.MethodGet)

	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/readyz", handleReady(ready)).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

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

// riskResponse is the public API shape: normalized summary first, the raw
// per-hazard payloads (geometry stripped) after it.
type riskResponse struct {
	Lat        float64           `json:"lat"`
	Lon        float64           `json:"lon"`
	AssessedAt time.Time         `json:"assessed_at"`
	Summary    domain.Summary    `json:"summary"`
	Raw        domain.RawResults `json:"raw"`
}

func (s *Server) handleRisk(w http.ResponseWriter, r *http.Request) {
	p, ok := s.parsePoint(w, r)
	if !ok {
		return
	}

	assessment, err := s.assessor.Assess(r.Context(), p)
	if err != nil {
		s.logger.Error("assessment failed", "lat", p.Lat, "lon", p.Lon, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "assessment failed"})
		return
	}

	writeJSON(w, http.StatusOK, riskResponse{
		Lat:        assessment.Point.Lat,
		Lon:        assessment.Point.Lon,
		AssessedAt: assessment.AssessedAt,
		Summary:    assessment.Summary,
		Raw:        assessment.Raw.Compact(),
	})
}

// handleRiskRaw returns the untouched upstream payloads, geometries included.
func (s *Server) handleRiskRaw(w http.ResponseWriter, r *http.Request) {
	p, ok := s.parsePoint(w, r)
	if !ok {
		return
	}

	assessment, err := s.assessor.Assess(r.Context(), p)
	if err != nil {
		s.logger.Error("assessment failed", "lat", p.Lat, "lon", p.Lon, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "assessment failed"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"lat":     assessment.Point.Lat,
		"lon":     assessment.Point.Lon,
		"hazards": assessment.Raw,
	})
}

func (s *Server) parsePoint(w http.ResponseWriter, r *http.Request) (domain.Point, bool) {
	q := r.URL.Query()
	latStr, lonStr := q.Get("lat"), q.Get("lon")
	if latStr == "" || lonStr == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "lat and lon query parameters are required"})
		return domain.Point{}, false
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "lat must be a number"})
		return domain.Point{}, false
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "lon must be a number"})
		return domain.Point{}, false
	}

	p, err := domain.NewPoint(lat, lon)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return domain.Point{}, false
	}
	return p, true
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

// requestIDMiddleware tags each request with an X-Request-ID, generating one
// when the client did not send it.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
