package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oksasatya/signal-subscription/internal/application"
	"github.com/oksasatya/signal-subscription/internal/domain/entity"
	"github.com/oksasatya/signal-subscription/internal/domain/gateway"
	"github.com/oksasatya/signal-subscription/internal/domain/repository"
	"github.com/oksasatya/signal-subscription/internal/infrastructure/razorpay"
	"github.com/oksasatya/signal-subscription/pkg/mailer"
)

// Blacklist keeps revoked tokens in a map and ignores TTLs.
type Blacklist struct {
	mu     sync.Mutex
	tokens map[string]time.Duration
	Err    error
}

func NewBlacklist() *Blacklist { return &Blacklist{tokens: map[string]time.Duration{}} }

func (b *Blacklist) Add(_ context.Context, token string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Err != nil {
		return b.Err
	}
	b.tokens[token] = ttl
	return nil
}

func (b *Blacklist) Contains(_ context.Context, token string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Err != nil {
		return false, b.Err
	}
	_, ok := b.tokens[token]
	return ok, nil
}

// TTL returns the ttl a token was revoked with.
func (b *Blacklist) TTL(token string) (time.Duration, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ttl, ok := b.tokens[token]
	return ttl, ok
}

// Gateway issues sequential order ids and checks signatures with the real
// HMAC scheme under Secret.
type Gateway struct {
	mu     sync.Mutex
	Secret string
	Key    string
	seq    int

	// CreateErr, when set, fails CreateOrder.
	CreateErr error
	Requests  []gateway.OrderRequest
}

func NewGateway(secret string) *Gateway {
	return &Gateway{Secret: secret, Key: "rzp_test_key"}
}

func (g *Gateway) CreateOrder(_ context.Context, req gateway.OrderRequest) (*gateway.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.CreateErr != nil {
		return nil, g.CreateErr
	}
	g.seq++
	g.Requests = append(g.Requests, req)
	return &gateway.Order{
		ID:       fmt.Sprintf("order_%d", g.seq),
		Amount:   req.Amount,
		Currency: req.Currency,
		Receipt:  req.Receipt,
		Status:   "created",
	}, nil
}

func (g *Gateway) VerifySignature(orderID, paymentID, signature string) error {
	return razorpay.VerifySignature(g.Secret, orderID, paymentID, signature)
}

func (g *Gateway) KeyID() string { return g.Key }

// Sign produces the signature the checkout widget would send back.
func (g *Gateway) Sign(orderID, paymentID string) string {
	return razorpay.Sign(g.Secret, orderID, paymentID)
}

// Sent is one notification captured by Notifier.
type Sent struct {
	Kind    string
	To      string
	Days    int
	URL     string
	Plan    *entity.Entitlement
	Contact *application.ContactMessage
}

// Notifier records notifications. Fail makes every call of that kind
// ("welcome", "reset", "purchase", "expiry", "contact") return an error;
// FailFor does the same per recipient.
type Notifier struct {
	mu      sync.Mutex
	sent    []Sent
	Fail    map[string]error
	FailFor map[string]error
}

func NewNotifier() *Notifier {
	return &Notifier{Fail: map[string]error{}, FailFor: map[string]error{}}
}

func (n *Notifier) record(s Sent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.Fail[s.Kind]; err != nil {
		return err
	}
	if err := n.FailFor[s.To]; err != nil {
		return err
	}
	n.sent = append(n.sent, s)
	return nil
}

func (n *Notifier) Welcome(_ context.Context, a *entity.Account) error {
	return n.record(Sent{Kind: "welcome", To: a.Email})
}

func (n *Notifier) PasswordReset(_ context.Context, a *entity.Account, resetURL string, _ time.Time) error {
	return n.record(Sent{Kind: "reset", To: a.Email, URL: resetURL})
}

func (n *Notifier) PurchaseConfirmation(_ context.Context, a *entity.Account, ent entity.Entitlement) error {
	return n.record(Sent{Kind: "purchase", To: a.Email, Plan: &ent})
}

func (n *Notifier) ExpiryWarning(_ context.Context, a *entity.Account, days int) error {
	return n.record(Sent{Kind: "expiry", To: a.Email, Days: days})
}

func (n *Notifier) Contact(_ context.Context, msg application.ContactMessage) error {
	return n.record(Sent{Kind: "contact", To: "support", Contact: &msg})
}

// Sent returns the recorded notifications of kind, or all when kind is empty.
func (n *Notifier) Sent(kind string) []Sent {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []Sent
	for _, s := range n.sent {
		if kind == "" || s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}

// ResetToken extracts the token query parameter from the last reset link.
func (n *Notifier) ResetToken() string {
	resets := n.Sent("reset")
	if len(resets) == 0 {
		return ""
	}
	u := resets[len(resets)-1].URL
	if i := strings.Index(u, "token="); i >= 0 {
		return u[i+len("token="):]
	}
	return ""
}

// Dispatcher records email jobs.
type Dispatcher struct {
	mu   sync.Mutex
	Jobs []mailer.EmailJob
	Err  error
}

func (d *Dispatcher) Dispatch(_ context.Context, job mailer.EmailJob) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return d.Err
	}
	d.Jobs = append(d.Jobs, job)
	return nil
}

// Search is an AccountSearch that matches on substrings of name or email.
type Search struct {
	mu   sync.Mutex
	docs map[string]repository.AccountHit
	Err  error
}

func NewSearch() *Search { return &Search{docs: map[string]repository.AccountHit{}} }

func (s *Search) Index(_ context.Context, a *entity.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	hit := repository.AccountHit{ID: a.ID, Name: a.Name, Email: a.Email, Role: string(a.Role), TradingViewID: a.TradingViewID}
	if a.ActivePlan != nil {
		end := a.ActivePlan.EndDate
		hit.PlanID, hit.PlanEndDate = a.ActivePlan.PlanID, &end
	}
	s.docs[a.ID] = hit
	return nil
}

func (s *Search) Search(_ context.Context, query string, size int) ([]repository.AccountHit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	q := strings.ToLower(query)
	var out []repository.AccountHit
	for _, h := range s.docs {
		if strings.Contains(strings.ToLower(h.Name), q) || strings.Contains(h.Email, q) {
			out = append(out, h)
		}
		if len(out) == size {
			break
		}
	}
	return out, nil
}
