// Package server exposes the HogQL parser over HTTP.
//
// Every endpoint takes a JSON body with the query text and answers with
// the same envelope: a success flag, the payload and, when the input is
// rejected, the lexer and parser diagnostics with their positions.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/tmilicic/posthog/internal/config"
	"github.com/tmilicic/posthog/parser"
)

// maxBodyBytes bounds request bodies. Queries are text; anything larger
// is rejected before parsing.
const maxBodyBytes = 1 << 20

// Server represents the HTTP server for the parser API.
type Server struct {
	router *chi.Mux
	addr   string
	parser parser.Config
	log    zerolog.Logger
}

// New creates a server from the loaded configuration. Parser debug
// events go to log as well.
func New(cfg *config.Config, log zerolog.Logger) (*Server, error) {
	pc, err := cfg.Parser.Build()
	if err != nil {
		return nil, err
	}
	pc.Logger = log

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.Timeout))

	s := &Server{
		router: r,
		addr:   cfg.Server.Addr(),
		parser: pc,
		log:    log,
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Post("/parse", s.handleParse)
	s.router.Post("/format", s.handleFormat)
	s.router.Post("/explain", s.handleExplain)
	s.router.Post("/fingerprint", s.handleFingerprint)
}

// Router returns the chi router for testing purposes.
func (s *Server) Router() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully,
// letting in-flight requests finish for up to five seconds.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		s.log.Info().Msg("shutdown signal received, gracefully shutting down")
	case err, ok := <-errChan:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	s.log.Info().Msg("server stopped")
	return nil
}
