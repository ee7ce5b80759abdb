// Package server exposes the dashboard data as a JSON API. Every request
// reloads the sources and recomputes from scratch.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const shutdownTimeout = 10 * time.Second

// Options configures a Server.
type Options struct {
	SelfPayPayerID string
}

// Server wires the API routes onto an echo instance.
type Server struct {
	e       *echo.Echo
	src     Source
	log     zerolog.Logger
	opts    Options
	metrics *Metrics
}

// New builds a Server reading from src.
func New(src Source, log zerolog.Logger, opts Options) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{e: e, src: src, log: log, opts: opts, metrics: NewMetrics()}

	e.Use(RequestID())
	e.Use(Logger(log))
	e.Use(Instrument(s.metrics))
	e.Use(Recovery(log))

	e.GET("/health", s.health)
	e.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))

	api := e.Group("/api/v1")
	api.GET("/summary", s.summary)
	api.GET("/readmissions", s.readmissions)
	api.GET("/patients", s.listPatients)
	api.GET("/patients/search", s.searchPatients)
	api.GET("/patients/:id", s.getPatient)
	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.e
}

// Start serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("starting server")
		if err := s.e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down server")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.e.Shutdown(sctx); err != nil {
		return err
	}
	s.log.Info().Msg("server stopped")
	return nil
}
