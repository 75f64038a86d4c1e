package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/signal-subscription/internal/application"
	"github.com/oksasatya/signal-subscription/internal/interface/middleware"
)

// Guard bundles what modules need to protect their routes.
type Guard struct {
	Redis redis.Cmdable
	Auth  middleware.Authenticator
	Fail  middleware.FailFunc
}

// Session requires a valid session cookie or bearer token.
func (g Guard) Session() gin.HandlerFunc {
	return middleware.Authenticate(g.Auth, g.Fail)
}

// Admin must follow Session.
func (g Guard) Admin() gin.HandlerFunc {
	return middleware.RequireAdmin(g.Fail)
}

// Limit is a fixed-window rate limit; a no-op without redis.
func (g Guard) Limit(max int, window time.Duration, key middleware.KeyFunc) gin.HandlerFunc {
	return middleware.RateLimit(g.Redis, max, window, key, nil)
}

// With adapts a handler taking the authenticated caller.
func (g Guard) With(h func(c *gin.Context, p *application.Principal)) gin.HandlerFunc {
	return middleware.WithPrincipal(g.Fail, h)
}
