package apiserver

import (
	"net/http"

	"github.com/moolen/opsask/internal/api"
)

// registerHandlers wires all endpoints onto the router.
func (s *Server) registerHandlers() {
	askHandler := api.NewAskHandler(s.asker)
	routesHandler := api.NewRoutesHandler(s.asker)

	s.router.HandleFunc("/v1/ask", s.withMethod(http.MethodPost, askHandler.Handle))
	s.router.HandleFunc("/v1/routes", s.withMethod(http.MethodGet, routesHandler.Handle))

	s.router.HandleFunc("/health", s.withMethod(http.MethodGet, s.handleHealth))
	s.router.HandleFunc("/ready", s.withMethod(http.MethodGet, s.handleReady))

	if s.registry != nil {
		s.router.Handle("/metrics", s.metricsHandler())
	}
}
