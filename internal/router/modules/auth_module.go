package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/signal-subscription/internal/interface/http"
	"github.com/oksasatya/signal-subscription/internal/interface/middleware"
)

type AuthModule struct {
	Handler *handlers.AuthHandler
	Guard   Guard
}

func NewAuthModule(h *handlers.AuthHandler, g Guard) *AuthModule {
	return &AuthModule{Handler: h, Guard: g}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	g := m.Guard
	// Public endpoints with IP-based rate limits
	credentialLimiter := g.Limit(10, time.Minute, middleware.KeyByIPAndPath())
	resetInitLimiter := g.Limit(5, time.Minute, middleware.KeyByIPAndPath())
	resetConfirmLimiter := g.Limit(30, time.Minute, middleware.KeyByIPAndPath())

	rg.POST("/auth/signup", credentialLimiter, m.Handler.Signup)
	rg.POST("/auth/login", credentialLimiter, m.Handler.Login)
	rg.POST("/auth/forgot-password", resetInitLimiter, m.Handler.ForgotPassword)
	rg.POST("/auth/reset-password", resetConfirmLimiter, m.Handler.ResetPassword)

	auth := rg.Group("/auth")
	auth.Use(g.Session())
	{
		auth.GET("/me", g.With(m.Handler.Me))
		auth.POST("/logout", g.With(m.Handler.Logout))
	}
}
