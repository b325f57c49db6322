// Package apiserver hosts the HTTP surface: the question endpoint, the
// route listing, health and readiness probes and Prometheus metrics.
package apiserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/moolen/opsask/internal/api"
	"github.com/moolen/opsask/internal/logging"
)

// Server handles HTTP API requests. It implements lifecycle.Component.
type Server struct {
	port     int
	server   *http.Server
	logger   *logging.Logger
	router   *http.ServeMux
	asker    api.Asker
	registry *prometheus.Registry
}

// New creates an API server. The registry backs the /metrics endpoint;
// pass the same registry the backend metrics are registered on.
func New(port int, asker api.Asker, registry *prometheus.Registry) *Server {
	s := &Server{
		port:     port,
		logger:   logging.GetLogger("apiserver"),
		router:   http.NewServeMux(),
		asker:    asker,
		registry: registry,
	}

	s.registerHandlers()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.corsMiddleware(s.router),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute, // one ask spans a backend call plus a model call
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start implements the lifecycle.Component interface.
func (s *Server) Start(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server error: %v", err)
		}
	}()

	s.logger.Info("API server listening on port %d", s.port)
	return nil
}

// Stop implements the lifecycle.Component interface.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping API server...")

	done := make(chan error, 1)
	go func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		done <- s.server.Shutdown(shutdownCtx)
	}()

	select {
	case err := <-done:
		if err != nil {
			s.logger.Error("HTTP server shutdown error: %v", err)
			return err
		}
		s.logger.Info("API server stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("API server shutdown timeout")
		return ctx.Err()
	}
}

// Name implements the lifecycle.Component interface.
func (s *Server) Name() string {
	return "API Server"
}

// GetPort returns the port the server is listening on.
func (s *Server) GetPort() int {
	return s.port
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = api.WriteJSON(w, map[string]interface{}{"status": "healthy"})
}

// handleReady reports readiness. The service holds no state to warm up,
// so it is ready as soon as it accepts connections.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = api.WriteJSON(w, map[string]interface{}{"ready": true})
}

func (s *Server) metricsHandler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
}
