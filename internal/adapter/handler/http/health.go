package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sm8ta/webike_cache_microservice/internal/core/ports"
)

type HealthHandler struct {
	cache   ports.CachePort
	metrics ports.MetricsPort
}

type HealthDTO struct {
	Redis bool `json:"redis"`
}

func NewHealthHandler(cache ports.CachePort, metrics ports.MetricsPort) *HealthHandler {
	return &HealthHandler{
		cache:   cache,
		metrics: metrics,
	}
}

// Health reports the cache liveness flag. It does no I/O.
func (h *HealthHandler) Health(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	status := HealthDTO{Redis: h.cache.IsAlive()}
	if !status.Redis {
		newErrorResponseWithData(c, http.StatusServiceUnavailable, "Cache unavailable", status)
		return
	}
	newSuccessResponse(c, http.StatusOK, "", status)
}
