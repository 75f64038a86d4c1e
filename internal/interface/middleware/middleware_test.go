package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/signal-subscription/internal/application"
	"github.com/oksasatya/signal-subscription/internal/domain/entity"
	"github.com/oksasatya/signal-subscription/pkg/helpers"
	"github.com/oksasatya/signal-subscription/pkg/response"
)

func init() { gin.SetMode(gin.TestMode) }

type stubAuth struct {
	p   *application.Principal
	err error
}

func (s stubAuth) Authenticate(context.Context, *http.Request) (*application.Principal, error) {
	return s.p, s.err
}

func failWithKind(c *gin.Context, err error) {
	response.Abort(c, response.Error(c, application.KindOf(err).Status(), err.Error(), nil))
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticateAndWithPrincipal(t *testing.T) {
	user := &application.Principal{Account: &entity.Account{ID: "u1", Role: entity.RoleUser}}
	admin := &application.Principal{Account: &entity.Account{ID: "a1", Role: entity.RoleAdmin}}

	build := func(auth Authenticator) *gin.Engine {
		r := gin.New()
		r.GET("/me", Authenticate(auth, failWithKind), WithPrincipal(failWithKind, func(c *gin.Context, p *application.Principal) {
			c.String(http.StatusOK, p.AccountID()+":"+c.GetString("userID"))
		}))
		r.GET("/admin", Authenticate(auth, failWithKind), RequireAdmin(failWithKind), func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})
		return r
	}

	w := serve(build(stubAuth{p: user}), httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1:u1", w.Body.String())

	w = serve(build(stubAuth{err: application.ErrRevoked}), httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(build(stubAuth{p: user}), httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = serve(build(stubAuth{p: admin}), httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestWithPrincipalWithoutAuthenticate(t *testing.T) {
	r := gin.New()
	r.GET("/x", WithPrincipal(failWithKind, func(c *gin.Context, _ *application.Principal) { c.Status(http.StatusOK) }))
	w := serve(r, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = serve(r, req)
	assert.Equal(t, "abc-123", w.Body.String())
}

func TestRealIP(t *testing.T) {
	r := gin.New()
	r.Use(RealIP())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("real_ip")) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", serve(r, req).Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("CF-Connecting-IP", "198.51.100.7")
	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	assert.Equal(t, "198.51.100.7", serve(r, req).Body.String())
}

func TestPrivateOnly(t *testing.T) {
	r := gin.New()
	r.Use(RealIP())
	r.GET("/metrics", PrivateOnly(), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.RemoteAddr = "127.0.0.1:5555"
	assert.Equal(t, http.StatusOK, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.RemoteAddr = "8.8.8.8:5555"
	assert.Equal(t, http.StatusForbidden, serve(r, req).Code)
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(helpers.NewDiscardLogger(), false))
	r.GET("/boom", func(*gin.Context) { panic("kaboom") })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"internal server error"}`, w.Body.String())
}

func TestRateLimitWithoutRedisPassesThrough(t *testing.T) {
	r := gin.New()
	r.GET("/", RateLimit(nil, 1, 0, KeyByIP(), nil), func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	}
}
