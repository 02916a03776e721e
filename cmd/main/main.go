package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/UnknownOlympus/pallas/internal/api"
	"github.com/UnknownOlympus/pallas/internal/config"
	"github.com/UnknownOlympus/pallas/internal/lib/logger/sl"
	"github.com/UnknownOlympus/pallas/internal/metrics"
	"github.com/UnknownOlympus/pallas/internal/repository"
	"github.com/UnknownOlympus/pallas/internal/server"
	"github.com/UnknownOlympus/pallas/internal/services/employees"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// main is the entry point of the application.
func main() {
	var wgr sync.WaitGroup

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()

	logger := setupLogger(cfg.Env)

	// Separate registry so only our collectors are exposed
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	dtb, err := repository.NewDatabase(ctx, cfg.Postgres)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err) //nolint:gocritic // nothing to clean up yet
	}
	defer dtb.Close()

	employeeRepo := repository.NewEmployeeRepository(dtb, appMetrics)
	staff := employees.NewStaff(logger, employeeRepo, appMetrics)
	app := api.NewApp(logger, staff, appMetrics, cfg.HTTP.RequestTimeout)

	wgr.Add(2) //nolint:mnd // monitoring and api servers

	go func() {
		defer wgr.Done()
		server.StartMonitoringServer(ctx, logger, reg, dtb, cfg.Monitoring.Port)
	}()

	go func() {
		defer wgr.Done()
		logger.InfoContext(ctx, "Starting employee API", "addr", cfg.HTTP.Addr())
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			logger.ErrorContext(ctx, "Employee API failed", sl.Err(err))
			stop()
		}
		logger.InfoContext(ctx, "Employee API stopped.")
	}()

	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	<-ctx.Done()

	if err = app.ShutdownWithTimeout(cfg.HTTP.ShutdownTimeout); err != nil {
		logger.Error("Failed to shut down employee API", sl.Err(err))
	}

	wgr.Wait()

	logger.Info("Application stopped gracefully...")
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:       slog.LevelWarn,
				ReplaceAttr: dropTime,
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:       slog.LevelError,
				ReplaceAttr: dropTime,
			}),
		)

		log.Error(
			"The env parameter was not specified, or was invalid. Logging will be minimal, by default." +
				" Please specify the value of `env`: local, development, production")
	}

	return log
}

// dropTime removes the timestamp, the log collector adds its own.
func dropTime(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey {
		return slog.Attr{}
	}
	return a
}
