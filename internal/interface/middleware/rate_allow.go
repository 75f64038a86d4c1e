package middleware

import (
	"net"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/signal-subscription/pkg/response"
)

// AllowPrivateIP reports requests from loopback or RFC 1918 addresses.
// Usable as a RateLimit bypass.
func AllowPrivateIP() AllowFunc {
	return func(c *gin.Context) bool {
		parsed := net.ParseIP(ipFromCtx(c))
		if parsed == nil {
			return false
		}
		return parsed.IsLoopback() || parsed.IsPrivate()
	}
}

// PrivateOnly hides an endpoint from public addresses.
func PrivateOnly() gin.HandlerFunc {
	allow := AllowPrivateIP()
	return func(c *gin.Context) {
		if !allow(c) {
			response.Abort(c, response.Error(c, http.StatusForbidden, "forbidden", nil))
			return
		}
		c.Next()
	}
}
