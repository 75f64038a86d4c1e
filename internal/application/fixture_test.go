package application_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/signal-subscription/internal/application"
	"github.com/oksasatya/signal-subscription/internal/testutil"
	"github.com/oksasatya/signal-subscription/pkg/helpers"
)

const gatewaySecret = "rzp_secret"

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fixture struct {
	clock     *clock
	accounts  *testutil.Accounts
	payments  *testutil.Payments
	blacklist *testutil.Blacklist
	gateway   *testutil.Gateway
	notifier  *testutil.Notifier
	search    *testutil.Search

	sessions      *application.SessionService
	auth          *application.AuthService
	subscriptions *application.SubscriptionService
	accountsSvc   *application.AccountService
	expiry        *application.ExpiryNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		clock:     &clock{t: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)},
		blacklist: testutil.NewBlacklist(),
		gateway:   testutil.NewGateway(gatewaySecret),
		notifier:  testutil.NewNotifier(),
		search:    testutil.NewSearch(),
	}
	f.accounts = testutil.NewAccounts()
	f.payments = testutil.NewPayments(f.accounts)

	logger := helpers.NewDiscardLogger()
	jwt, err := helpers.NewJWTManager("test-secret", 7*24*time.Hour)
	require.NoError(t, err)
	jwt = jwt.WithClock(f.clock.Now)

	f.sessions = application.NewSessionService(jwt, f.accounts, f.blacklist, logger, f.clock.Now)
	f.auth = application.NewAuthService(f.accounts, helpers.NewBcryptHasher(4), f.sessions, f.notifier, f.search, logger, f.clock.Now,
		application.AuthConfig{ResetTTL: time.Hour, ResetURL: "https://app.example/reset-password"})
	f.subscriptions = application.NewSubscriptionService(application.NewCatalog(application.DefaultPlans()), f.payments, f.accounts,
		f.gateway, f.notifier, nil, f.search, logger, f.clock.Now)
	f.accountsSvc = application.NewAccountService(f.accounts, f.search, f.notifier, logger, f.clock.Now)
	f.expiry = application.NewExpiryNotifier(f.accounts, f.notifier, 0, logger, f.clock.Now)
	return f
}

// bearer builds a request carrying token in the Authorization header.
func bearer(token string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

// signup registers an account and returns its principal.
func (f *fixture) signup(t *testing.T, name, email string) *application.Principal {
	t.Helper()
	_, tok, err := f.auth.Signup(context.Background(), application.SignupInput{Name: name, Email: email, Password: "secret1"})
	require.NoError(t, err)
	p, err := f.sessions.Authenticate(context.Background(), bearer(tok.Token))
	require.NoError(t, err)
	return p
}

// activate runs a full checkout of planID for p.
func (f *fixture) activate(t *testing.T, p *application.Principal, planID string) *application.Activation {
	t.Helper()
	ctx := context.Background()
	co, err := f.subscriptions.CreateOrder(ctx, p, planID)
	require.NoError(t, err)
	act, err := f.subscriptions.VerifyPayment(ctx, p, application.VerifyInput{
		OrderID:   co.OrderID,
		PaymentID: "pay_" + co.OrderID,
		Signature: f.gateway.Sign(co.OrderID, "pay_"+co.OrderID),
		PlanID:    planID,
	})
	require.NoError(t, err)
	return act
}

// refresh reloads the principal's account after a write.
func (f *fixture) refresh(t *testing.T, p *application.Principal) *application.Principal {
	t.Helper()
	np, err := f.sessions.Authenticate(context.Background(), bearer(p.Token))
	require.NoError(t, err)
	return np
}
