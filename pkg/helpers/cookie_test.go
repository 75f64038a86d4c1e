package helpers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenFromRequest(t *testing.T) {
	tests := []struct {
		name   string
		cookie string
		header string
		want   string
	}{
		{"none", "", "", ""},
		{"cookie", "from-cookie", "", "from-cookie"},
		{"bearer", "", "Bearer from-header", "from-header"},
		{"lowercase scheme", "", "bearer from-header", "from-header"},
		{"cookie wins", "from-cookie", "Bearer from-header", "from-cookie"},
		{"basic ignored", "", "Basic dXNlcjpwYXNz", ""},
		{"empty bearer", "", "Bearer ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != "" {
				r.AddCookie(&http.Cookie{Name: SessionCookie, Value: tt.cookie})
			}
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			assert.Equal(t, tt.want, TokenFromRequest(r))
		})
	}
}

func TestCookieManagerSetAndClear(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewCookie("", true)
	now := time.Now()
	m.now = func() time.Time { return now }

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	m.SetSession(c, "abc", now.Add(7*24*time.Hour))

	setCookie := w.Header().Get("Set-Cookie")
	require.NotEmpty(t, setCookie)
	assert.True(t, strings.HasPrefix(setCookie, "token=abc"))
	assert.Contains(t, setCookie, "Max-Age=604800")
	assert.Contains(t, setCookie, "HttpOnly")
	assert.Contains(t, setCookie, "Secure")
	assert.Contains(t, setCookie, "SameSite=Lax")

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	m.Clear(c)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=0")
}
