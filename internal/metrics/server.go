// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/matt-FFFFFF/sweep/internal/ctxlog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	readHeaderTimeout = 5 * time.Second

	// gracefulShutdownTimeout is the maximum time to wait for in-flight
	// scrapes when the run finishes.
	gracefulShutdownTimeout = 10 * time.Second
)

// ErrListen is returned when the metrics endpoint cannot bind its address.
var ErrListen = errors.New("failed to start metrics listener")

// Server serves /metrics and /healthz for the duration of a run.
type Server struct {
	srv  *http.Server
	addr net.Addr
}

// StartServer binds addr and serves the registry until Close is called.
// Serve errors after startup are logged, never fatal: metrics are an
// observer of the run, not a participant.
func StartServer(ctx context.Context, addr string, registry *prometheus.Registry) (*Server, error) {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Join(ErrListen, err)
	}

	s := &Server{
		srv: &http.Server{
			Handler:           r,
			ReadHeaderTimeout: readHeaderTimeout,
		},
		addr: ln.Addr(),
	}

	ctxlog.Info(ctx, "metrics endpoint listening", "addr", ln.Addr().String())

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			ctxlog.Error(ctx, "metrics endpoint error", "error", err)
		}
	}()

	return s, nil
}

// Addr returns the bound address, useful when addr was ":0".
func (s *Server) Addr() string {
	return s.addr.String()
}

// Close gracefully shuts the endpoint down.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down metrics endpoint: %w", err)
	}

	return nil
}
