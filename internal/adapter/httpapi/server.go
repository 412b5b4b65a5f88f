// Package httpapi exposes the query service over HTTP: the dashboard API
// under /api/v1 plus health, readiness, and metrics endpoints.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/drought-monitor-service/internal/domain"
	"github.com/couchcryptid/drought-monitor-service/internal/query"
)

// QueryService is the slice of the query layer the API needs.
type QueryService interface {
	Snapshot(req query.Request) (query.Snapshot, error)
	Regions() []query.RegionInfo
	TimeRange() query.TimeRange
	CheckReadiness(ctx context.Context) error
}

// Server exposes the dashboard API plus health, readiness, and metrics
// HTTP endpoints.
type Server struct {
	httpServer *http.Server
	svc        QueryService
	logger     *slog.Logger
}

// NewServer creates an HTTP server over the given query service.
func NewServer(addr string, svc QueryService, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		svc:    svc,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /api/v1/regions", s.handleRegions)
	mux.HandleFunc("GET /api/v1/times", s.handleTimes)
	mux.HandleFunc("GET /api/v1/snapshot", s.handleSnapshot)

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

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.svc.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleRegions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"regions": s.svc.Regions()})
}

func (s *Server) handleTimes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.TimeRange())
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	req, err := parseSnapshotRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	snap, err := s.svc.Snapshot(req)
	if err != nil {
		if errors.Is(err, query.ErrUnknownRegion) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		s.logger.Error("snapshot failed", "error", err)
		writeError(w, http.StatusInternalServerError, errors.New("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// parseSnapshotRequest maps query parameters onto a query.Request. The
// four bounds parameters are all-or-nothing and override region.
func parseSnapshotRequest(r *http.Request) (query.Request, error) {
	q := r.URL.Query()
	req := query.Request{
		Region:        q.Get("region"),
		IncludePoints: q.Get("points") == "true",
	}

	custom, err := parseBounds(q)
	if err != nil {
		return query.Request{}, err
	}
	req.Custom = custom

	if yearStr := q.Get("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			return query.Request{}, errors.New("invalid year")
		}
		monthStr := q.Get("month")
		if monthStr == "" {
			return query.Request{}, errors.New("month is required with year")
		}
		month, err := strconv.Atoi(monthStr)
		if err != nil || month < 1 || month > 12 {
			return query.Request{}, errors.New("invalid month")
		}
		req.Year = year
		req.Month = time.Month(month)
	} else if q.Get("month") != "" {
		return query.Request{}, errors.New("year is required with month")
	}

	return req, nil
}

func parseBounds(q map[string][]string) (*domain.Region, error) {
	keys := []string{"lat_min", "lat_max", "lon_min", "lon_max"}
	vals := make([]float64, len(keys))
	present := 0
	for i, key := range keys {
		raw, ok := first(q, key)
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.New("invalid " + key)
		}
		vals[i] = v
		present++
	}

	switch present {
	case 0:
		return nil, nil
	case len(keys):
		r := &domain.Region{LatMin: vals[0], LatMax: vals[1], LonMin: vals[2], LonMax: vals[3]}
		if r.LatMin > r.LatMax || r.LonMin > r.LonMax {
			return nil, errors.New("inverted bounds")
		}
		return r, nil
	default:
		return nil, errors.New("all four of lat_min, lat_max, lon_min, lon_max are required")
	}
}

func first(q map[string][]string, key string) (string, bool) {
	vals, ok := q[key]
	if !ok || len(vals) == 0 || vals[0] == "" {
		return "", false
	}
	return vals[0], true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
