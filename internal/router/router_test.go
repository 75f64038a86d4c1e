package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/signal-subscription/config"
	"github.com/oksasatya/signal-subscription/internal/container"
	"github.com/oksasatya/signal-subscription/internal/domain/entity"
	"github.com/oksasatya/signal-subscription/internal/testutil"
	"github.com/oksasatya/signal-subscription/pkg/helpers"
)

func init() { gin.SetMode(gin.TestMode) }

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

type harness struct {
	t        *testing.T
	engine   *gin.Engine
	clock    *testClock
	accounts *testutil.Accounts
	gateway  *testutil.Gateway
	mail     *testutil.Dispatcher
	health   error
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		t:        t,
		clock:    &testClock{t: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)},
		accounts: testutil.NewAccounts(),
		gateway:  testutil.NewGateway("rzp_secret"),
		mail:     &testutil.Dispatcher{},
	}
	cfg := &config.Config{
		AppName:            "signals",
		Env:                "test",
		JWTSecret:          "test-secret",
		SessionTTL:         7 * 24 * time.Hour,
		ResetTTL:           time.Hour,
		CORSAllowedOrigins: "http://localhost:3000",
		ExpiryTimezone:     "UTC",
		FrontendURL:        "https://app.example",
		ResetPasswordURL:   "https://app.example/reset-password",
		SupportEmail:       "support@example.com",
		MetricsEnabled:     true,
	}
	ctr, err := container.New(cfg, helpers.NewDiscardLogger(), container.Deps{
		Accounts:   h.accounts,
		Payments:   testutil.NewPayments(h.accounts),
		Blacklist:  testutil.NewBlacklist(),
		Gateway:    h.gateway,
		Dispatcher: h.mail,
		Hasher:     helpers.NewBcryptHasher(4),
		Health: map[string]func(context.Context) error{
			"postgres": func(context.Context) error { return h.health },
		},
		Now: h.clock.Now,
	})
	require.NoError(t, err)
	h.engine = NewEngine(ctr)
	return h
}

type reply struct {
	code    int
	body    map[string]any
	cookies []*http.Cookie
}

func (h *harness) do(method, path, token string, body any) reply {
	h.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(h.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "127.0.0.1:40000"
	if token != "" {
		req.AddCookie(&http.Cookie{Name: helpers.SessionCookie, Value: token})
	}
	w := httptest.NewRecorder()
	h.engine.ServeHTTP(w, req)

	out := reply{code: w.Code, cookies: w.Result().Cookies()}
	if w.Header().Get("Content-Type") != "" && bytes.HasPrefix(bytes.TrimSpace(w.Body.Bytes()), []byte("{")) {
		require.NoError(h.t, json.Unmarshal(w.Body.Bytes(), &out.body))
	}
	return out
}

func sessionCookie(r reply) *http.Cookie {
	for _, c := range r.cookies {
		if c.Name == helpers.SessionCookie {
			return c
		}
	}
	return nil
}

func user(r reply) map[string]any {
	u, _ := r.body["user"].(map[string]any)
	return u
}

func TestAliceSubscribes(t *testing.T) {
	h := newHarness(t)

	res := h.do(http.MethodPost, "/api/auth/signup", "", gin.H{"name": "Alice", "email": "alice@example.com", "password": "secret1"})
	require.Equal(t, http.StatusCreated, res.code, res.body)
	ck := sessionCookie(res)
	require.NotNil(t, ck)
	assert.True(t, ck.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, ck.SameSite)
	assert.Equal(t, 7*24*60*60, ck.MaxAge)

	res = h.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "alice@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, res.code)
	token := sessionCookie(res).Value

	res = h.do(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, res.code)
	assert.Equal(t, true, res.body["success"])
	assert.Equal(t, false, user(res)["isActive"])
	assert.Equal(t, float64(0), user(res)["daysRemaining"])
	assert.Nil(t, user(res)["activePlan"])
	assert.NotContains(t, user(res), "passwordHash")

	res = h.do(http.MethodPost, "/api/payments/create-order", token, gin.H{"planId": "starter_1m"})
	require.Equal(t, http.StatusOK, res.code, res.body)
	orderID := res.body["orderId"].(string)
	assert.Equal(t, float64(99900), res.body["amount"])
	assert.Equal(t, "rzp_test_key", res.body["key"])

	res = h.do(http.MethodPost, "/api/payments/verify", token, gin.H{
		"orderId":   orderID,
		"paymentId": "pay_1",
		"signature": h.gateway.Sign(orderID, "pay_1"),
		"planId":    "starter_1m",
	})
	require.Equal(t, http.StatusOK, res.code, res.body)
	assert.Equal(t, false, res.body["alreadyProcessed"])

	res = h.do(http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, true, user(res)["isActive"])
	assert.Equal(t, true, user(res)["hasActiveSubscription"])
	assert.Equal(t, float64(30), user(res)["daysRemaining"])

	res = h.do(http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, res.code)
	require.NotNil(t, sessionCookie(res))
	assert.Negative(t, sessionCookie(res).MaxAge)

	res = h.do(http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, res.code)
	assert.Equal(t, false, res.body["success"])
	require.NotNil(t, sessionCookie(res), "auth failures clear the cookie")

	var templates []string
	for _, j := range h.mail.Jobs {
		templates = append(templates, j.Template)
	}
	assert.Contains(t, templates, "welcome")
	assert.Contains(t, templates, "purchase_confirmation")
}

func TestLoginErrorsMatch(t *testing.T) {
	h := newHarness(t)
	h.do(http.MethodPost, "/api/auth/signup", "", gin.H{"name": "Alice", "email": "alice@example.com", "password": "secret1"})

	wrong := h.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "alice@example.com", "password": "nope-nope"})
	unknown := h.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "bob@example.com", "password": "secret1"})

	assert.Equal(t, http.StatusBadRequest, wrong.code)
	assert.Equal(t, wrong.code, unknown.code)
	assert.Equal(t, "Invalid credentials", wrong.body["message"])
	assert.Equal(t, wrong.body["message"], unknown.body["message"])
}

func TestSignupValidation(t *testing.T) {
	h := newHarness(t)
	res := h.do(http.MethodPost, "/api/auth/signup", "", gin.H{"name": "A", "email": "a@example.com", "password": "12345"})
	assert.Equal(t, http.StatusBadRequest, res.code)
	assert.Contains(t, res.body, "errors")

	res = h.do(http.MethodPost, "/api/auth/signup", "", gin.H{"name": "A", "email": "a@example.com", "password": "123456"})
	require.Equal(t, http.StatusCreated, res.code)
	res = h.do(http.MethodPost, "/api/auth/signup", "", gin.H{"name": "A", "email": "A@example.com", "password": "123456"})
	assert.Equal(t, http.StatusBadRequest, res.code)
	assert.Equal(t, "User with this email already exists", res.body["message"])
}

func TestPlans(t *testing.T) {
	h := newHarness(t)
	res := h.do(http.MethodGet, "/api/plans", "", nil)
	require.Equal(t, http.StatusOK, res.code)
	plans := res.body["plans"].([]any)
	require.Len(t, plans, 4)
	pro := plans[1].(map[string]any)
	assert.Equal(t, "professional_3m", pro["id"])
	assert.Equal(t, float64(90), pro["durationDays"])
	assert.Equal(t, float64(17), pro["savingsPercentage"])

	res = h.do(http.MethodGet, "/api/plans/elite_12m", "", nil)
	assert.Equal(t, http.StatusOK, res.code)
	res = h.do(http.MethodGet, "/api/plans/platinum", "", nil)
	assert.Equal(t, http.StatusNotFound, res.code)
}

func TestCheckoutErrors(t *testing.T) {
	h := newHarness(t)
	res := h.do(http.MethodPost, "/api/auth/signup", "", gin.H{"name": "A", "email": "a@example.com", "password": "123456"})
	token := sessionCookie(res).Value

	res = h.do(http.MethodPost, "/api/payments/create-order", token, gin.H{"planId": "nope"})
	assert.Equal(t, http.StatusBadRequest, res.code)

	h.gateway.CreateErr = errors.New("upstream: 503")
	res = h.do(http.MethodPost, "/api/payments/create-order", token, gin.H{"planId": "starter_1m"})
	assert.Equal(t, http.StatusBadGateway, res.code)

	res = h.do(http.MethodPost, "/api/payments/verify", token, gin.H{
		"orderId": "order_x", "paymentId": "pay_x", "signature": "deadbeef", "planId": "starter_1m",
	})
	assert.Equal(t, http.StatusBadRequest, res.code)
	assert.Equal(t, "Payment verification failed", res.body["message"])

	res = h.do(http.MethodPost, "/api/payments/create-order", "", gin.H{"planId": "starter_1m"})
	assert.Equal(t, http.StatusUnauthorized, res.code)
}

func TestTradingViewAndStatus(t *testing.T) {
	h := newHarness(t)
	res := h.do(http.MethodPost, "/api/auth/signup", "", gin.H{"name": "A", "email": "a@example.com", "password": "123456"})
	token := sessionCookie(res).Value

	res = h.do(http.MethodPost, "/api/tradingview-id", token, gin.H{"id": "trader_a"})
	assert.Equal(t, http.StatusForbidden, res.code)

	res = h.do(http.MethodGet, "/api/subscription/check-expiry", token, nil)
	require.Equal(t, http.StatusOK, res.code)
	assert.Equal(t, "expired", res.body["status"])
	assert.Nil(t, res.body["endDate"])

	res = h.do(http.MethodPost, "/api/payments/create-order", token, gin.H{"planId": "starter_1m"})
	orderID := res.body["orderId"].(string)
	h.do(http.MethodPost, "/api/payments/verify", token, gin.H{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": "pay_9",
		"razorpay_signature":  h.gateway.Sign(orderID, "pay_9"),
		"planId":              "starter_1m",
	})

	res = h.do(http.MethodPost, "/api/tradingview-id", token, gin.H{"tradingViewId": "trader_a"})
	require.Equal(t, http.StatusOK, res.code, res.body)
	assert.Equal(t, "connected", res.body["tradingViewStatus"])

	res = h.do(http.MethodGet, "/api/tradingview-id", token, nil)
	assert.Equal(t, "trader_a", res.body["tradingViewId"])
	assert.Equal(t, true, res.body["hasActiveSubscription"])

	res = h.do(http.MethodGet, "/api/subscription/status", token, nil)
	sub := res.body["subscription"].(map[string]any)
	assert.Equal(t, true, sub["isActive"])
	assert.Equal(t, "starter_1m", sub["planId"])
	assert.Equal(t, "connected", sub["tradingViewStatus"])

	res = h.do(http.MethodGet, "/api/payments/history", token, nil)
	payments := res.body["payments"].([]any)
	require.Len(t, payments, 1)
	assert.Equal(t, "paid", payments[0].(map[string]any)["status"])
}

func TestAdminRoutes(t *testing.T) {
	h := newHarness(t)
	res := h.do(http.MethodPost, "/api/auth/signup", "", gin.H{"name": "A", "email": "a@example.com", "password": "123456"})
	userToken := sessionCookie(res).Value
	userID := user(res)["id"].(string)

	res = h.do(http.MethodPost, "/api/admin/accounts/"+userID+"/renew", userToken, gin.H{"planId": "expert_6m"})
	assert.Equal(t, http.StatusForbidden, res.code)

	res = h.do(http.MethodPost, "/api/auth/signup", "", gin.H{"name": "Root", "email": "root@example.com", "password": "123456"})
	adminID := user(res)["id"].(string)
	admin, err := h.accounts.GetByID(context.Background(), adminID)
	require.NoError(t, err)
	admin.Role = entity.RoleAdmin
	h.accounts.Put(admin)
	adminToken := sessionCookie(res).Value

	res = h.do(http.MethodPost, "/api/admin/accounts/"+userID+"/renew", adminToken, gin.H{"planId": "expert_6m"})
	require.Equal(t, http.StatusOK, res.code, res.body)
	assert.Equal(t, float64(180), user(res)["daysRemaining"])

	// no search backend in this container
	res = h.do(http.MethodGet, "/api/admin/accounts/search?q=a", adminToken, nil)
	assert.Equal(t, http.StatusInternalServerError, res.code)
	assert.Equal(t, "Account search is not configured", res.body["message"])
}

func TestContact(t *testing.T) {
	h := newHarness(t)
	res := h.do(http.MethodPost, "/api/contact", "", gin.H{"name": "Eve", "email": "not-an-email", "subject": "Hi", "message": "Hello"})
	assert.Equal(t, http.StatusBadRequest, res.code)

	res = h.do(http.MethodPost, "/api/contact", "", gin.H{"name": "Eve", "email": "eve@example.com", "subject": "Hi", "message": "Hello"})
	require.Equal(t, http.StatusOK, res.code)
	require.Len(t, h.mail.Jobs, 1)
	job := h.mail.Jobs[0]
	assert.Equal(t, "support@example.com", job.To)
	assert.Equal(t, "eve@example.com", job.ReplyTo)
}

func TestHealthAndMetrics(t *testing.T) {
	h := newHarness(t)
	res := h.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, res.code)

	h.health = errors.New("connection refused")
	res = h.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, res.code)

	res = h.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, res.code)
}
