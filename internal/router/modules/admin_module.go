package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/signal-subscription/internal/interface/http"
	"github.com/oksasatya/signal-subscription/internal/interface/middleware"
)

type AdminModule struct {
	Handler *handlers.AdminHandler
	Guard   Guard
}

func NewAdminModule(h *handlers.AdminHandler, g Guard) *AdminModule {
	return &AdminModule{Handler: h, Guard: g}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	g := m.Guard
	admin := rg.Group("/admin")
	admin.Use(g.Session(), g.Admin(), g.Limit(120, time.Minute, middleware.KeyByAccount()))
	{
		admin.POST("/accounts/:id/renew", g.With(m.Handler.Renew))
		admin.GET("/accounts/search", m.Handler.Search)
	}
}
