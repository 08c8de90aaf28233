package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/hapkiduki/boxspec-go/internal/application/dto"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler reports liveness and the state of the template database.
type HealthHandler struct {
	version string
	started time.Time
	db      Pinger
}

// NewHealthHandler creates a HealthHandler. db may be nil.
func NewHealthHandler(version string, db Pinger) *HealthHandler {
	return &HealthHandler{version: version, started: time.Now(), db: db}
}

// ServeHTTP implements http.Handler.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := dto.HealthResponse{
		Status:  dto.HealthHealthy,
		Version: h.version,
		Uptime:  time.Since(h.started).Round(time.Second).String(),
		Checks:  make(map[string]dto.HealthCheckResult),
	}

	status := http.StatusOK
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		start := time.Now()
		check := dto.HealthCheckResult{Status: dto.CheckUp}
		if err := h.db.PingContext(ctx); err != nil {
			check = dto.HealthCheckResult{Status: dto.CheckDown, Message: err.Error()}
			resp.Status = dto.HealthDegraded
			status = http.StatusServiceUnavailable
		}
		check.ResponseTime = time.Since(start).Milliseconds()
		resp.Checks["database"] = check
	}

	respondData(w, r, status, resp, h.version)
}
