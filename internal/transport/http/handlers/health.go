package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthChecker reports whether a dependency is reachable.
type HealthChecker func(ctx context.Context) error

// HealthHandler exposes liveness and readiness information.
type HealthHandler struct {
	env       string
	startedAt time.Time
	checks    map[string]HealthChecker
}

// NewHealthHandler builds a health handler with named dependency checks.
func NewHealthHandler(env string, checks map[string]HealthChecker) *HealthHandler {
	return &HealthHandler{
		env:       env,
		startedAt: time.Now().UTC(),
		checks:    checks,
	}
}

// Status reports liveness.
func (h *HealthHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data: HealthResponse{
			Status:      "ok",
			Environment: h.env,
			StartedAt:   h.startedAt,
			Timestamp:   time.Now().UTC(),
		},
	})
}

// Ready pings every registered dependency and reports per-check results.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	results := make(map[string]string, len(h.checks))
	healthy := true

	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			results[name] = err.Error()
			healthy = false
			continue
		}
		results[name] = "ok"
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, APIResponse{
		Success: healthy,
		Data:    gin.H{"checks": results},
	})
}
