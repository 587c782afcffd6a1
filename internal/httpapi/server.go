// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

// Package httpapi serves the auth HTTP surface.
//
// Routes:
//
//	GET  /auth/test    - plaintext liveness string
//	POST /auth/signup  - register an account
//	POST /auth/login   - verify credentials, set session cookie
//	POST /auth/logout  - clear session cookie (idempotent)
//	GET  /auth/blah    - protected sample route, gated by RequireSession
//
// Middleware runs in a fixed, explicit order: request logging wraps the
// whole mux; RequireSession wraps only the protected routes.
package httpapi

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/samber/oops"

	"github.com/gatehouse/gatehouse/internal/auth"
	"github.com/gatehouse/gatehouse/internal/observability"
)

// Server is the auth HTTP server.
type Server struct {
	addr       string
	listener   net.Listener
	httpServer *http.Server
	running    atomic.Bool

	svc     *auth.Service
	codec   auth.TokenCodec
	cookies *auth.SessionCookie
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewServer creates the auth HTTP server. metrics may be nil.
func NewServer(addr string, svc *auth.Service, codec auth.TokenCodec, cookies *auth.SessionCookie, logger *slog.Logger, metrics *observability.Metrics) (*Server, error) {
	if addr == "" {
		return nil, oops.Errorf("listen address is required")
	}
	if svc == nil {
		return nil, oops.Errorf("auth service is required")
	}
	if codec == nil {
		return nil, oops.Errorf("token codec is required")
	}
	if cookies == nil {
		return nil, oops.Errorf("session cookie config is required")
	}
	if logger == nil {
		return nil, oops.Errorf("logger is required")
	}
	return &Server{
		addr:    addr,
		svc:     svc,
		codec:   codec,
		cookies: cookies,
		logger:  logger,
		metrics: metrics,
	}, nil
}

// Handler builds the route mux with the middleware chain applied.
// Exported so tests can drive the full surface without a listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /auth/test", s.handleTest)
	mux.HandleFunc("POST /auth/signup", s.handleSignup)
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.HandleFunc("POST /auth/logout", s.handleLogout)
	mux.Handle("GET /auth/blah", Chain(
		http.HandlerFunc(s.handleProtected),
		RequireSession(s.cookies, s.codec, s.logger),
	))

	return Chain(mux, RequestLogger(s.logger))
}

// Start begins serving. It returns an error channel that receives any error
// from the HTTP server after startup; the channel is closed on graceful stop.
func (s *Server) Start() (<-chan error, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, oops.Errorf("auth server already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return nil, oops.With("addr", s.addr).Wrap(err)
	}
	s.listener = listener

	httpSrv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.httpServer = httpSrv

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if serveErr := httpSrv.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			s.logger.Error("auth server error", "error", serveErr)
			errCh <- serveErr
		}
	}()

	s.logger.Info("auth server started", "addr", listener.Addr().String())
	return errCh, nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.running.Store(true)
			return oops.With("operation", "shutdown auth server").Wrap(err)
		}
	}

	s.logger.Info("auth server stopped")
	return nil
}

// Addr returns the address the server is listening on, or empty if not
// running.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}
