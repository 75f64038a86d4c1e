package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/signal-subscription/internal/interface/http"
	"github.com/oksasatya/signal-subscription/internal/interface/middleware"
)

type ContactModule struct {
	Handler *handlers.ContactHandler
	Guard   Guard
}

func NewContactModule(h *handlers.ContactHandler, g Guard) *ContactModule {
	return &ContactModule{Handler: h, Guard: g}
}

func (m *ContactModule) Register(rg *gin.RouterGroup) {
	rg.POST("/contact", m.Guard.Limit(5, time.Minute, middleware.KeyByIP()), m.Handler.Send)
}
