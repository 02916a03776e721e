package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/UnknownOlympus/pallas/internal/lib/logger/sl"
)

const pingTimeout = 2 * time.Second

type DBPinger interface {
	Ping(ctx context.Context) error
}

// HealthChecker reports whether the employee store is reachable.
type HealthChecker struct {
	db  DBPinger
	log *slog.Logger
}

func NewHealthChecker(db DBPinger, log *slog.Logger) *HealthChecker {
	return &HealthChecker{
		db:  db,
		log: log,
	}
}

func (h *HealthChecker) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	h.log.DebugContext(req.Context(), "Performing health checks...")

	status := make(map[string]string)
	overallStatus := http.StatusOK

	ctx, cancel := context.WithTimeout(req.Context(), pingTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		status["database"] = "unavailable"
		overallStatus = http.StatusServiceUnavailable
		h.log.WarnContext(req.Context(), "Health check failed: DB ping", sl.Err(err))
	} else {
		status["database"] = "ok"
	}

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(overallStatus)
	if err := json.NewEncoder(writer).Encode(status); err != nil {
		h.log.ErrorContext(req.Context(), "Failed to write health check response", sl.Err(err))
	}

	h.log.DebugContext(req.Context(), "Health checks completed", "status", overallStatus)
}
