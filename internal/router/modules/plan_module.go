package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/signal-subscription/internal/interface/http"
	"github.com/oksasatya/signal-subscription/internal/interface/middleware"
)

// PlanModule serves the public catalog.
type PlanModule struct {
	Handler *handlers.PlanHandler
	Guard   Guard
}

func NewPlanModule(h *handlers.PlanHandler, g Guard) *PlanModule {
	return &PlanModule{Handler: h, Guard: g}
}

func (m *PlanModule) Register(rg *gin.RouterGroup) {
	rl := m.Guard.Limit(300, time.Minute, middleware.KeyByIP())
	rg.GET("/plans", rl, m.Handler.List)
	rg.GET("/plans/:id", rl, m.Handler.Get)
}
