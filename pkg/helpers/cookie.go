package helpers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// SessionCookie is the name of the HTTP-only cookie carrying the session token.
const SessionCookie = "token"

type CookieManager struct {
	Domain string
	Secure bool
	now    func() time.Time
}

func NewCookie(domain string, secure bool) *CookieManager {
	return &CookieManager{Domain: domain, Secure: secure, now: time.Now}
}

// WithClock sets the clock used to turn an expiry into Max-Age.
func (m *CookieManager) WithClock(now func() time.Time) *CookieManager {
	if now != nil {
		m.now = now
	}
	return m
}

func (m *CookieManager) SetSession(c *gin.Context, token string, exp time.Time) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, m.maxAgeFrom(exp), "/", m.Domain, m.Secure, true)
}

func (m *CookieManager) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", m.Domain, m.Secure, true)
}

func (m *CookieManager) maxAgeFrom(exp time.Time) int {
	sec := int(exp.Sub(m.now()).Seconds())
	if sec < 0 {
		return 0
	}
	return sec
}

// TokenFromRequest returns the session token, preferring the cookie over an
// Authorization bearer header. Empty when neither is present.
func TokenFromRequest(r *http.Request) string {
	if ck, err := r.Cookie(SessionCookie); err == nil && ck.Value != "" {
		return ck.Value
	}
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
