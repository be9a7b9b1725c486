// Package server exposes the analyzer over a loopback HTTP API.
//
// Every analysis outcome, including input and processing errors, is
// returned with HTTP 200 and a JSON body; errors carry an "error" field.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jmylchreest/pagelens/internal/config"
	"github.com/jmylchreest/pagelens/internal/logger"
	"github.com/jmylchreest/pagelens/internal/version"
	"github.com/jmylchreest/pagelens/pkg/pagelens"
)

// Server is the HTTP API with lifecycle management.
type Server struct {
	cfg      config.ServerConfig
	analyzer *pagelens.Analyzer
	metrics  *Metrics
	router   *gin.Engine
	server   *http.Server

	service string
	version string
	started time.Time
}

// New creates a server. Call gin.SetMode before New to change gin's mode.
func New(cfg config.ServerConfig, analyzer *pagelens.Analyzer) *Server {
	s := &Server{
		cfg:      cfg,
		analyzer: analyzer,
		metrics:  NewMetrics(),
		service:  version.Name,
		version:  version.String(),
		started:  time.Now(),
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true

	// Recovery first, then the request ID so every later log line has it.
	router.Use(
		RecoveryMiddleware(),
		RequestIDMiddleware(),
		LoggerMiddleware(),
		CORSMiddleware(cfg.CORSOrigins),
		BodyLimitMiddleware(cfg.MaxBodyBytes()),
	)

	router.POST("/summarize", s.handleSummarize)
	router.POST("/answer", s.handleAnswer)
	router.POST("/categorize", s.handleCategorize)
	router.GET("/health", s.handleHealth)
	router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	s.router = router
	s.server = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Metrics returns the server's collectors.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.server.Addr
}

// Serve accepts connections on l until the server is shut down.
func (s *Server) Serve(l net.Listener) error {
	logger.Info("starting HTTP server",
		"address", l.Addr().String(),
		"version", s.version,
		"read_timeout", s.server.ReadTimeout,
		"write_timeout", s.server.WriteTimeout)

	if err := s.server.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server within the configured timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info("shutting down HTTP server", "timeout", s.cfg.ShutdownTimeout)

	shutdownCtx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	logger.Info("HTTP server stopped gracefully")
	return nil
}

// Run listens on the configured address and serves until SIGINT, SIGTERM or
// ctx cancellation, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	if host, _, err := net.SplitHostPort(s.server.Addr); err != nil || !config.IsLoopback(host) {
		return fmt.Errorf("refusing to listen on non-loopback address %s", s.server.Addr)
	}

	l, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Serve(l)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("context cancelled, shutting down")
	}

	// The caller's context may already be done; shutdown gets a fresh one.
	if err := s.Shutdown(context.Background()); err != nil {
		return err
	}
	return <-errCh
}
