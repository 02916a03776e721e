package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/UnknownOlympus/pallas/internal/lib/logger/sl"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// NewMonitoringHandler serves /metrics from reg and /healthz from db.
func NewMonitoringHandler(log *slog.Logger, reg *prometheus.Registry, db DBPinger) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	mux.Handle("/healthz", NewHealthChecker(db, log))

	return mux
}

// StartMonitoringServer blocks serving metrics and health checks on port until ctx is done.
func StartMonitoringServer(ctx context.Context, log *slog.Logger, reg *prometheus.Registry, db DBPinger, port int) {
	srv := &http.Server{
		Addr:              net.JoinHostPort("", strconv.Itoa(port)),
		Handler:           NewMonitoringHandler(log, reg, db),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil { //nolint:contextcheck // parent ctx is already done
			log.Error("Failed to shut down monitoring server", sl.Err(err))
		}
	}()

	log.InfoContext(ctx, "Starting monitoring server", "port", port)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.ErrorContext(ctx, "Monitoring server failed", sl.Err(err))
		return
	}

	log.InfoContext(ctx, "Monitoring server stopped")
}
