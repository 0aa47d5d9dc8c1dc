package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger is anything that can report its own connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandlers handles health check and monitoring endpoints
type HealthHandlers struct {
	db      Pinger
	cache   Pinger
	storage Pinger
	version string
	started time.Time
}

// NewHealthHandlers takes the database and cache as critical dependencies.
// storage may be nil when object storage is not configured.
func NewHealthHandlers(db, cache, storage Pinger, version string) *HealthHandlers {
	return &HealthHandlers{
		db:      db,
		cache:   cache,
		storage: storage,
		version: version,
		started: time.Now(),
	}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services,omitempty"`
	Uptime    string            `json:"uptime"`
	Version   string            `json:"version"`
}

// LivenessCheck handles GET /health
func (h *HealthHandlers) LivenessCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, h.status("alive"))
}

// ReadinessCheck handles GET /health/ready. Database and cache failures make
// the instance not ready; a storage failure only degrades it.
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	health := h.status("ready")
	health.Services = make(map[string]string, 3)
	critical := map[string]Pinger{"database": h.db, "redis": h.cache}
	for name, p := range critical {
		if err := p.Ping(ctx); err != nil {
			health.Services[name] = "unhealthy"
			health.Status = "not_ready"
		} else {
			health.Services[name] = "healthy"
		}
	}

	switch {
	case h.storage == nil:
		health.Services["storage"] = "disabled"
	case h.storage.Ping(ctx) != nil:
		health.Services["storage"] = "unhealthy"
		if health.Status == "ready" {
			health.Status = "degraded"
		}
	default:
		health.Services["storage"] = "healthy"
	}

	code := http.StatusOK
	if health.Status == "not_ready" {
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, health)
}

func (h *HealthHandlers) status(s string) *HealthStatus {
	return &HealthStatus{
		Status:    s,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.started).Round(time.Second).String(),
		Version:   h.version,
	}
}
