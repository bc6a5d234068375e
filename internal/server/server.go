// Package server exposes the daemon over HTTP: Prometheus metrics on
// /metrics and a liveness probe on /health.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kruczeks/collectd/pkg/config"
	"github.com/kruczeks/collectd/pkg/logger"
)

const shutdownTimeout = 5 * time.Second

// HTTPServer serves the metrics and health endpoints.
type HTTPServer struct {
	addr   string
	server *http.Server
}

// statusWriter captures the response status for request logging.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(statusCode int) {
	w.status = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

// NewHTTPServer wires /metrics (backed by the given registry) and /health
// into a server configured from cfg.
func NewHTTPServer(cfg config.ServerConfig, registry *prometheus.Registry) *HTTPServer {
	mux := http.NewServeMux()

	logRequest := func(r *http.Request, status int, start time.Time) {
		logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("url", r.URL.String()),
			zap.String("remote", r.RemoteAddr),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
		)
	}

	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{
		ErrorLog: zap.NewStdLog(logger.GetLogger()),
	})
	mux.Handle("/metrics", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		metricsHandler.ServeHTTP(ww, r)
		logRequest(r, ww.status, start)
	}))

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
		logRequest(r, http.StatusOK, start)
	})

	return &HTTPServer{
		addr: cfg.Addr,
		server: &http.Server{
			Addr:         cfg.Addr,
			Handler:      mux,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
	}
}

// Start begins listening in the background. Listen errors other than a
// clean close are fatal: a daemon whose metrics endpoint cannot bind is
// misconfigured, not degraded.
func (s *HTTPServer) Start() error {
	logger.Info("starting HTTP server", zap.String("addr", s.addr))
	go func() {
		if err := s.server.ListenAndServe(); err != nil {
			if errors.Is(err, http.ErrServerClosed) {
				logger.Info("HTTP server stopped listening", zap.String("addr", s.addr))
				return
			}
			logger.Fatal("HTTP server failed to listen",
				zap.String("addr", s.addr), zap.Error(err))
		}
	}()
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *HTTPServer) Shutdown() error {
	logger.Info("shutting down HTTP server", zap.String("addr", s.addr))

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil
		}
		return err
	}
	return nil
}
