package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/snacktrack/snacktrack-api/health"
)

// ConnectionState reports whether the shared Redis client is usable.
type ConnectionState interface {
	Connected() bool
}

// HealthHandler serves the root, liveness and readiness endpoints.
type HealthHandler struct {
	service    string
	version    string
	redis      ConnectionState
	aggregator *health.Aggregator
}

func NewHealthHandler(service, version string, redis ConnectionState, aggregator *health.Aggregator) *HealthHandler {
	return &HealthHandler{service: service, version: version, redis: redis, aggregator: aggregator}
}

// Root is GET /.
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": h.service,
		"version": h.version,
	})
}

// Health is GET /health. It never fails: Redis being down only changes the limiter mode.
func (h *HealthHandler) Health(c *gin.Context) {
	redisStatus, mode := "disconnected", "in-memory"
	if h.redis != nil && h.redis.Connected() {
		redisStatus, mode = "connected", "redis"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"redis":         redisStatus,
		"rate_limiting": mode,
	})
}

// Ready is GET /health/ready: 200 for healthy or degraded, 503 for unhealthy.
func (h *HealthHandler) Ready(c *gin.Context) {
	resp := h.aggregator.Check(c.Request.Context())
	status := http.StatusOK
	if resp.Status == health.StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}

// RegisterHealthRoutes mounts /, /health and /health/ready.
func RegisterHealthRoutes(router gin.IRouter, h *HealthHandler) {
	router.GET("/", h.Root)
	router.GET("/health", h.Health)
	router.GET("/health/ready", h.Ready)
}
