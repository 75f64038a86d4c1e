package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/signal-subscription/pkg/response"
)

// Pinger is a dependency the health check probes.
type Pinger = func(ctx context.Context) error

type HealthHandler struct {
	Checks  map[string]Pinger
	Timeout time.Duration
}

func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{Checks: checks, Timeout: 2 * time.Second}
}

// Healthz GET /healthz
func (h *HealthHandler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.Timeout)
	defer cancel()

	status := gin.H{}
	healthy := true
	for name, ping := range h.Checks {
		if err := ping(ctx); err != nil {
			status[name] = err.Error()
			healthy = false
			continue
		}
		status[name] = "ok"
	}
	if !healthy {
		response.Send(c, response.Error(c, http.StatusServiceUnavailable, "unhealthy", status))
		return
	}
	response.Send(c, response.Success(c, http.StatusOK, gin.H{"checks": status, "time": time.Now().UTC()}, "ok"))
}
