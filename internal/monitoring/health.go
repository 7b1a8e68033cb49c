// ===============================
// FILE: internal/monitoring/health.go
// ===============================

package monitoring

import (
	"net/http"
	"time"

	"badgehub/internal/cache"
	"badgehub/internal/events"
	"badgehub/internal/response"

	"go.uber.org/zap"
)

// HealthChecker reports process liveness plus the state of the ambient
// subsystems (cache, event bus).
type HealthChecker struct {
	cache     cache.Cache
	events    events.EventBus
	builder   *response.Builder
	logger    *zap.Logger
	startTime time.Time
	version   string
}

// NewHealthChecker creates a health checker
func NewHealthChecker(cacheProvider cache.Cache, eventBus events.EventBus, builder *response.Builder, logger *zap.Logger, version string) *HealthChecker {
	return &HealthChecker{
		cache:     cacheProvider,
		events:    eventBus,
		builder:   builder,
		logger:    logger,
		startTime: time.Now(),
		version:   version,
	}
}

// HealthStatus is the health endpoint payload
type HealthStatus struct {
	Status    string                 `json:"status"`
	Version   string                 `json:"version,omitempty"`
	Uptime    string                 `json:"uptime"`
	Checks    map[string]string      `json:"checks"`
	EventBus  *events.EventBusStats  `json:"event_bus,omitempty"`
	CacheInfo map[string]interface{} `json:"cache,omitempty"`
}

// Handler serves GET /health
func (h *HealthChecker) Handler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := &HealthStatus{
		Status:  "ok",
		Version: h.version,
		Uptime:  time.Since(h.startTime).Round(time.Second).String(),
		Checks:  make(map[string]string),
	}

	if err := h.cache.Health(ctx); err != nil {
		status.Status = "degraded"
		status.Checks["cache"] = err.Error()
		h.logger.Warn("Cache health check failed", zap.Error(err))
	} else {
		status.Checks["cache"] = "ok"
		if stats, err := h.cache.Stats(ctx); err == nil {
			status.CacheInfo = map[string]interface{}{
				"keys":      stats.Keys,
				"hit_ratio": stats.HitRatio,
			}
		}
	}

	status.Checks["event_bus"] = "ok"
	status.EventBus = h.events.Stats()

	code := http.StatusOK
	if status.Status != "ok" {
		code = http.StatusServiceUnavailable
	}
	h.builder.WriteJSON(w, r, h.builder.Success(ctx, status), code)
}
