package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Layr-Labs/chain-sigverify/pkg/config"
	"github.com/Layr-Labs/chain-sigverify/pkg/registry"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

/*
Server exposes the signature registry over HTTP.

Endpoints:
  POST /verify:
    - Request: { scheme, signature, message, signer }
    - Response: { valid, error, errorKind, requestId }
    - A verification failure is a 200 with valid=false and errorKind set to
      invalid_encoding or invalid_signature. Malformed JSON, missing fields and
      unregistered schemes are a 400.

  GET /schemes:
    - Returns the schemes registered in this process

  GET /health:
    - Liveness probe

All endpoints share one token bucket limiter; exhausted requests get a 429.
*/

const (
	maxRequestBodyBytes = 1 << 20
	shutdownTimeout     = 10 * time.Second
)

// Server handles HTTP verification requests
type Server struct {
	registry   *registry.Registry
	limiter    *rate.Limiter
	logger     *zap.Logger
	httpServer *http.Server
	listener   net.Listener
}

// NewServer creates a new server instance
func NewServer(reg *registry.Registry, cfg *config.Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		registry: reg,
		logger:   logger,
	}
	if cfg.RateLimit > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/verify", s.limit(s.handleVerify))
	mux.HandleFunc("/schemes", s.limit(s.handleSchemes))
	mux.HandleFunc("/health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

// Start binds the listen address and serves in the background. Bind
// failures are returned to the caller.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	s.listener = listener

	s.logger.Sugar().Infow("Starting HTTP server", "addr", listener.Addr().String(), "schemes", s.registry.Schemes())
	go func() {
		if err := s.httpServer.Serve(listener); err != http.ErrServerClosed {
			s.logger.Sugar().Errorw("HTTP server error", "error", err)
		}
	}()
	return nil
}

// Addr returns the bound listen address, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

// Handler returns the HTTP handler (for testing)
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) limit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			s.logger.Sugar().Warnw("Rate limit exceeded", "path", r.URL.Path, "remote", r.RemoteAddr)
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}
