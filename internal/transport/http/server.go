package http

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/fleshka4/amm-pool/internal/config"
	"github.com/fleshka4/amm-pool/internal/service"
)

// Server represents the HTTP transport layer.
type Server struct {
	svc service.Service
	mux *http.ServeMux
	log zerolog.Logger

	graceTimeout      time.Duration
	readHeaderTimeout time.Duration
	requestTimeout    time.Duration
}

// NewServer creates a new HTTP server with registered routes. /metrics is
// served only when gatherer is non-nil.
func NewServer(svc service.Service, cfg config.Config, log zerolog.Logger, gatherer prometheus.Gatherer) *Server {
	s := &Server{
		svc: svc,
		mux: http.NewServeMux(),
		log: log,

		graceTimeout:      cfg.GraceTimeout,
		readHeaderTimeout: cfg.ReadHeaderTimeout,
		requestTimeout:    cfg.RequestTimeout,
	}

	s.mux.HandleFunc("POST /liquidity/add", s.handleAddLiquidity)
	s.mux.HandleFunc("POST /liquidity/remove", s.handleRemoveLiquidity)
	s.mux.HandleFunc("POST /swap", s.handleSwap)
	s.mux.HandleFunc("GET /price", s.handlePrice)
	s.mux.HandleFunc("GET /quote", s.handleQuote)
	s.mux.HandleFunc("GET /pool", s.handlePool)
	s.mux.HandleFunc("GET /shares", s.handleShares)
	s.mux.HandleFunc("GET /balance", s.handleBalance)
	s.mux.HandleFunc("GET /audit", s.handleAudit)
	s.mux.HandleFunc("GET /ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("pong")); err != nil {
			s.log.Warn().Err(err).Msg("ping write error")
		}
	})
	if gatherer != nil {
		s.mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	return s
}

// Handler returns the routed handler wrapped in the log middleware.
func (s *Server) Handler() http.Handler {
	return s.logMiddleware(s.mux)
}

// ListenAndServe starts the HTTP server and enables graceful shutdown.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.readHeaderTimeout,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("http server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Block until a signal is received or the listener dies.
	select {
	case <-stop:
	case err := <-errCh:
		return errors.Wrap(err, "srv.ListenAndServe")
	}
	s.log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), s.graceTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "srv.Shutdown")
	}
	s.log.Info().Msg("server stopped gracefully")
	return nil
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// logMiddleware logs each HTTP request and the time taken to process it.
func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", sw.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
