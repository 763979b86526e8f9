package metrics

import (
	"context"
	"errors"
	"fmt"
	"lesson-media/internal/config"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes /metrics and /health for processes without an http api
type Server struct {
	srv    *http.Server
	logger *slog.Logger
}

// NewServer creates the metrics server listening on the configured metrics port
func NewServer(cfg config.ServerConfig, logger *slog.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", cfg.Host, cfg.MetricsPort),
			Handler:           Routes(),
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Routes returns the metrics and health routes
func Routes() http.Handler {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	return r
}

// Start serves in the background, onFail is called when the listener cannot start
func (s *Server) Start(onFail func()) {
	go func() {
		s.logger.Info("starting metrics server", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("metrics server failed", "error", err)
			if onFail != nil {
				onFail()
			}
		}
	}()
}

// Shutdown stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
