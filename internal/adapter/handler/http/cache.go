package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sm8ta/webike_cache_microservice/internal/core/domain"
	"github.com/sm8ta/webike_cache_microservice/internal/core/ports"
)

type CacheHandler struct {
	cache   ports.CachePort
	logger  ports.LoggerPort
	metrics ports.MetricsPort
}

// SetRequest carries a string, number or boolean value. Duration is in
// seconds and is handed to the store unchanged.
type SetRequest struct {
	Value    interface{} `json:"value"`
	Duration *int        `json:"duration"`
}

type EntryDTO struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func NewCacheHandler(
	cache ports.CachePort,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *CacheHandler {
	return &CacheHandler{
		cache:   cache,
		logger:  logger,
		metrics: metrics,
	}
}

func (h *CacheHandler) GetEntry(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	key := c.Param("key")

	value, found, err := h.cache.Get(c.Request.Context(), key)
	if err != nil {
		h.handleCacheError(c, "Failed to get cache entry", key, err)
		return
	}
	if !found {
		newErrorResponse(c, http.StatusNotFound, "Key not found")
		return
	}

	newSuccessResponse(c, http.StatusOK, "", EntryDTO{Key: key, Value: value})
}

func (h *CacheHandler) SetEntry(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	key := c.Param("key")

	var req SetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Failed JSON parse in set entry", logFields(c, map[string]interface{}{
			"error": err.Error(),
			"key":   key,
		}))
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}
	if req.Value == nil || req.Duration == nil {
		newErrorResponse(c, http.StatusBadRequest, "value and duration are required")
		return
	}

	if err := h.cache.Set(c.Request.Context(), key, req.Value, *req.Duration); err != nil {
		h.handleCacheError(c, "Failed to set cache entry", key, err)
		return
	}

	h.logger.Debug("Cache entry stored", logFields(c, map[string]interface{}{
		"key":      key,
		"duration": *req.Duration,
	}))
	newSuccessResponse(c, http.StatusOK, "Stored", nil)
}

func (h *CacheHandler) DeleteEntry(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	key := c.Param("key")

	if err := h.cache.Del(c.Request.Context(), key); err != nil {
		h.handleCacheError(c, "Failed to delete cache entry", key, err)
		return
	}

	newSuccessResponse(c, http.StatusOK, "Deleted", nil)
}

func (h *CacheHandler) handleCacheError(c *gin.Context, msg, key string, err error) {
	switch {
	case errors.Is(err, domain.ErrUnsupportedValue):
		newErrorResponse(c, http.StatusBadRequest, "Value must be a string, number or boolean")
	case errors.Is(err, domain.ErrTransport):
		h.logger.Error(msg, logFields(c, map[string]interface{}{
			"error": err.Error(),
			"key":   key,
		}))
		newErrorResponse(c, http.StatusBadGateway, "Cache unavailable")
	default:
		h.logger.Error(msg, logFields(c, map[string]interface{}{
			"error": err.Error(),
			"key":   key,
		}))
		newErrorResponse(c, http.StatusInternalServerError, "Internal error")
	}
}
