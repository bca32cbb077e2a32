package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/uttaparsa/notes-api/internal/logging"
)

const httpPrefixMetrics = "/metrics"

// Server serves the metrics endpoint over HTTP.
type Server struct {
	httpServer *http.Server
	logger     logging.Logger
}

// NewServer creates a metrics server listening on addr (e.g. ":9090").
func NewServer(addr string, m *Metrics, logger logging.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle(httpPrefixMetrics, promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{}))
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Handler returns the HTTP handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves in the background until Shutdown.
func (s *Server) Start() {
	go func() {
		s.logger.Infof("serving metrics on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			s.logger.Errorf("metrics server: %v", err)
		}
	}()
}

// Shutdown stops the server, waiting for in-flight scrapes.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
