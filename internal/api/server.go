package api

import (
	"context"
	"net/http"
	"time"
)

// Server wraps the HTTP server and its routed handlers.
type Server struct {
	handler http.Handler
	server  *http.Server
}

// NewServer creates a new API server.
func NewServer(h *Handlers) *Server {
	return &Server{handler: SetupRoutes(h)}
}

// ListenAndServe starts the HTTP server on addr.
func (s *Server) ListenAndServe(addr string) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute, // reconciliation slow path can take a while
		IdleTimeout:  2 * time.Minute,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler exposes the routed handler, useful for tests.
func (s *Server) Handler() http.Handler { return s.handler }
