package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/wonny/tickergrade/pkg/config"
	"github.com/wonny/tickergrade/pkg/logger"
)

// Server serves the scoring API until its context ends
type Server struct {
	httpServer      *http.Server
	shutdownTimeout time.Duration
	logger          *logger.Logger
}

// New creates a server bound to cfg.Port with the cfg.Server timeouts
func New(cfg *config.Config, log *logger.Logger, router http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: cfg.Server.ReadTimeout,
			ReadTimeout:       cfg.Server.ReadTimeout,
			WriteTimeout:      cfg.Server.WriteTimeout,
			IdleTimeout:       cfg.Server.IdleTimeout,
		},
		shutdownTimeout: cfg.Server.ShutdownTimeout,
		logger:          log,
	}
}

// Run listens on the configured port and serves until ctx is done
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then lets in-flight requests
// (an inline scan included) finish within the shutdown timeout
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.WithField("addr", ln.Addr().String()).Info("Starting API server")

	served := make(chan error, 1)
	go func() {
		served <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-served:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	s.logger.WithField("timeout", s.shutdownTimeout).Info("Shutting down API server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	<-served

	s.logger.Info("API server stopped")
	return nil
}
