package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/Tushar365/reportappmedghor/internal/caching"
	"github.com/Tushar365/reportappmedghor/internal/services"

	"github.com/labstack/echo/v4"
)

const healthProbeTimeout = 3 * time.Second

// Pinger is satisfied by *pgxpool.Pool
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandlers reports on the backing services
type HealthHandlers struct {
	db        Pinger
	cacheSvc  caching.CacheService
	storage   services.DocumentStorage
	version   string
	startedAt time.Time
}

// NewHealthHandlers creates the probe handlers. storage may be nil when
// document storage is disabled.
func NewHealthHandlers(db Pinger, cacheSvc caching.CacheService, storage services.DocumentStorage, version string) *HealthHandlers {
	return &HealthHandlers{
		db:        db,
		cacheSvc:  cacheSvc,
		storage:   storage,
		version:   version,
		startedAt: time.Now(),
	}
}

type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  string            `json:"timestamp"`
	Services   map[string]string `json:"services"`
	Uptime     string            `json:"uptime"`
	Version    string            `json:"version"`
	Goroutines int               `json:"goroutines"`
}

func probe(ctx context.Context, check func(context.Context) error) string {
	ctx, cancel := context.WithTimeout(ctx, healthProbeTimeout)
	defer cancel()
	if err := check(ctx); err != nil {
		return "unhealthy"
	}
	return "healthy"
}

// HealthCheck probes every dependency. The database is the only hard
// requirement; a failing cache or store only degrades the service.
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	ctx := c.Request().Context()
	health := &HealthStatus{
		Status:     "healthy",
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Services:   make(map[string]string),
		Uptime:     time.Since(h.startedAt).Round(time.Second).String(),
		Version:    h.version,
		Goroutines: runtime.NumGoroutine(),
	}

	health.Services["database"] = probe(ctx, h.db.Ping)
	if h.cacheSvc != nil {
		health.Services["redis"] = probe(ctx, h.cacheSvc.Ping)
	}
	if h.storage != nil {
		health.Services["storage"] = probe(ctx, h.storage.EnsureBucketExists)
	}

	statusCode := http.StatusOK
	for name, state := range health.Services {
		if state == "healthy" {
			continue
		}
		if name == "database" {
			health.Status = "unhealthy"
			statusCode = http.StatusServiceUnavailable
			break
		}
		health.Status = "degraded"
	}

	return c.JSON(statusCode, health)
}

// ReadinessCheck reports ready once the database answers
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	if probe(c.Request().Context(), h.db.Ping) != "healthy" {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status":  "not_ready",
			"message": "Database unavailable",
		})
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ready",
		"message": "All systems operational",
	})
}

func (h *HealthHandlers) LivenessCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "alive",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
