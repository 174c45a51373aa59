// Package server implements the HTTP API of the eui64d service.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/mdlayher/eui64calc/eui64"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

// Config configures a Server.
type Config struct {
	// Calculator applies the calculation policies for every request.
	Calculator eui64.Calculator

	// Logger receives one line per request and any serving errors. If nil,
	// logs are discarded.
	Logger *slog.Logger

	// Metrics enables the /metrics endpoint.
	Metrics bool

	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
}

// A Server serves the HTTP API. It implements http.Handler.
type Server struct {
	cfg     Config
	ll      *slog.Logger
	metrics *metrics
	router  *mux.Router
	h       http.Handler
}

var _ http.Handler = &Server{}

// New creates a Server from cfg.
func New(cfg Config) *Server {
	ll := cfg.Logger
	if ll == nil {
		ll = slog.New(slog.DiscardHandler)
	}

	s := &Server{
		cfg:     cfg,
		ll:      ll,
		metrics: newMetrics(),
		router:  mux.NewRouter(),
	}

	r := s.router
	r.Use(s.instrument)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	r.HandleFunc("/calculate", s.calculate).Methods(http.MethodPost)
	r.HandleFunc("/validate/{what:mac|prefix}", s.validate).Methods(http.MethodGet)
	r.HandleFunc("/healthz", healthz).Methods(http.MethodGet, http.MethodHead)

	if cfg.Metrics {
		r.Handle("/metrics", promhttp.HandlerFor(s.metrics.reg, promhttp.HandlerOpts{})).
			Methods(http.MethodGet)
	}

	// The outer middleware applies to every request, including those which
	// match no route.
	s.h = s.requestID(s.logRequests(s.recoverPanics(r)))
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.h.ServeHTTP(w, r)
}

// Serve serves HTTP on l until ctx is canceled, then shuts down gracefully
// within the configured ShutdownTimeout. l is closed when Serve returns.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	hs := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
		ErrorLog:          slog.NewLogLogger(s.ll.Handler(), slog.LevelWarn),
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		if err := hs.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: failed to serve: %w", err)
		}

		return nil
	})

	eg.Go(func() error {
		<-ctx.Done()

		timeout := s.cfg.ShutdownTimeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}

		sctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		s.ll.Info("shutting down", "addr", l.Addr().String())
		if err := hs.Shutdown(sctx); err != nil {
			_ = hs.Close()
			return fmt.Errorf("server: failed to shut down: %w", err)
		}

		return nil
	})

	return eg.Wait()
}
