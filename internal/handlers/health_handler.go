package handlers

import (
	"context"
	"net/http"
	"time"

	"shelterfund/internal/utils"

	"github.com/gin-gonic/gin"
)

// Pinger is a dependency checked by the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	version string
	checks  map[string]Pinger
}

func NewHealthHandler(version string, checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{version: version, checks: checks}
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := "healthy"
	dependencies := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			dependencies[name] = err.Error()
			status = "degraded"
			continue
		}
		dependencies[name] = "ok"
	}

	body := gin.H{
		"status":       status,
		"version":      h.version,
		"dependencies": dependencies,
		"timestamp":    time.Now(),
	}
	if status != "healthy" {
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}
	utils.SuccessResponse(c, "Service is healthy", body)
}
