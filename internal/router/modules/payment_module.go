package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/signal-subscription/internal/interface/http"
	"github.com/oksasatya/signal-subscription/internal/interface/middleware"
)

// PaymentModule wires checkout, verification and the subscription views.
// All routes need a session.
type PaymentModule struct {
	Payments    *handlers.PaymentHandler
	TradingView *handlers.TradingViewHandler
	Guard       Guard
}

func NewPaymentModule(p *handlers.PaymentHandler, tv *handlers.TradingViewHandler, g Guard) *PaymentModule {
	return &PaymentModule{Payments: p, TradingView: tv, Guard: g}
}

func (m *PaymentModule) Register(rg *gin.RouterGroup) {
	g := m.Guard
	auth := rg.Group("/")
	auth.Use(g.Session(), g.Limit(120, time.Minute, middleware.KeyByAccount()))
	{
		auth.POST("/payments/create-order", g.Limit(20, time.Minute, middleware.KeyByAccount()), g.With(m.Payments.CreateOrder))
		auth.POST("/payments/verify", g.With(m.Payments.Verify))
		auth.GET("/payments/history", g.With(m.Payments.History))

		auth.GET("/subscription/status", g.With(m.Payments.Status))
		auth.GET("/subscription/check-expiry", g.With(m.Payments.CheckExpiry))

		auth.GET("/tradingview-id", g.With(m.TradingView.Get))
		auth.POST("/tradingview-id", g.With(m.TradingView.Submit))
	}
}
