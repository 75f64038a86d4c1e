package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	handlers "github.com/oksasatya/signal-subscription/internal/interface/http"
	"github.com/oksasatya/signal-subscription/internal/interface/middleware"
)

// OpsModule serves /healthz and, when enabled, the Prometheus /metrics
// endpoint restricted to private addresses.
type OpsModule struct {
	Health  *handlers.HealthHandler
	Metrics bool
	Guard   Guard
}

func NewOpsModule(h *handlers.HealthHandler, metrics bool, g Guard) *OpsModule {
	return &OpsModule{Health: h, Metrics: metrics, Guard: g}
}

func (m *OpsModule) RegisterRoot(e *gin.Engine) {
	e.GET("/healthz", m.Guard.Limit(120, time.Minute, middleware.KeyByIP()), m.Health.Healthz)
	if m.Metrics {
		e.GET("/metrics", middleware.PrivateOnly(), gin.WrapH(promhttp.Handler()))
	}
}

// Register also exposes the health check under /api.
func (m *OpsModule) Register(rg *gin.RouterGroup) {
	rg.GET("/health", m.Health.Healthz)
}
