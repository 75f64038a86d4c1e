package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/signal-subscription/internal/application"
)

const principalKey = "principal"

// Authenticator resolves a request's session; *application.SessionService.
type Authenticator interface {
	Authenticate(ctx context.Context, r *http.Request) (*application.Principal, error)
}

// FailFunc writes the error response and aborts the chain.
type FailFunc func(c *gin.Context, err error)

// Authenticate requires a valid session and stores the Principal for
// WithPrincipal. It also sets userID for the rate limiter keys.
func Authenticate(auth Authenticator, fail FailFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := auth.Authenticate(c.Request.Context(), c.Request)
		if err != nil {
			fail(c, err)
			return
		}
		c.Set(principalKey, p)
		c.Set("userID", p.AccountID())
		c.Next()
	}
}

// PrincipalFrom returns the Principal stored by Authenticate.
func PrincipalFrom(c *gin.Context) (*application.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil, false
	}
	p, ok := v.(*application.Principal)
	return p, ok && p != nil
}

// WithPrincipal adapts a handler that takes the caller explicitly. It must
// run behind Authenticate.
func WithPrincipal(fail FailFunc, h func(c *gin.Context, p *application.Principal)) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok {
			fail(c, application.ErrUnauthenticated)
			return
		}
		h(c, p)
	}
}

// RequireAdmin rejects callers without the admin role.
func RequireAdmin(fail FailFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok {
			fail(c, application.ErrUnauthenticated)
			return
		}
		if !p.Account.IsAdmin() {
			fail(c, application.ErrAdminOnly)
			return
		}
		c.Next()
	}
}
