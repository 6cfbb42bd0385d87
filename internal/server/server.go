// Package server provides the read-only HTTP API of the battery daemon.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cptspacemanspiff/abat/internal/collector"
	"github.com/cptspacemanspiff/abat/internal/logging"
	"github.com/cptspacemanspiff/abat/internal/storage"
)

// Store is the read side of storage.DB.
type Store interface {
	LatestBatterySample() (*collector.BatterySample, error)
	BatterySamplesInRange(from, to int64) ([]collector.BatterySample, error)
}

// Server serves stored battery samples.
type Server struct {
	store          Store
	logger         *slog.Logger
	metricsEnabled bool
	now            func() time.Time
}

// New creates a new API server.
func New(store Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Server{
		store:  store,
		logger: logger.With("topic", logging.TopicHTTP),
		now:    time.Now,
	}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(s.logRequests)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/api/battery", s.handleLatest)
	r.Get("/api/battery/history", s.handleHistory)

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	sample, err := s.store.LatestBatterySample()
	if err != nil {
		s.logger.Error("latest battery sample", "err", err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}
	if sample == nil {
		writeError(w, http.StatusNotFound, "no samples recorded yet")
		return
	}
	writeJSON(w, http.StatusOK, sample)
}

// handleHistory serves ?from=&to= in unix seconds. to defaults to now and
// from to 24h before to.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	to, err := parseUnix(q.Get("to"), s.now().Unix())
	if err != nil {
		writeError(w, http.StatusBadRequest, "to must be a unix timestamp")
		return
	}
	from, err := parseUnix(q.Get("from"), max(to-int64((24*time.Hour).Seconds()), 0))
	if err != nil {
		writeError(w, http.StatusBadRequest, "from must be a unix timestamp")
		return
	}

	if err := storage.ValidateRange(from, to); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	samples, err := s.store.BatterySamplesInRange(from, to)
	if err != nil {
		s.logger.Error("battery history", "from", from, "to", to, "err", err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}
	if samples == nil {
		samples = []collector.BatterySample{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"from":    from,
		"to":      to,
		"battery": samples,
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"elapsed", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// ListenAndServe serves Handler on addr until Shutdown is called.
func (s *Server) ListenAndServe(addr string) (*http.Server, <-chan error) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errCh <- err
	}()
	return srv, errCh
}

func parseUnix(v string, def int64) (int64, error) {
	if v == "" {
		return def, nil
	}
	return strconv.ParseInt(v, 10, 64)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"message": msg,
			"status":  status,
		},
	})
}
