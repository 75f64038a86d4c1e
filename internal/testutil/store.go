// Package testutil holds in-memory stand-ins for the stores and external
// services, shared by the application and transport tests.
package testutil

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/signal-subscription/internal/domain/entity"
	"github.com/oksasatya/signal-subscription/internal/domain/repository"
)

type storedAccount struct {
	acc          entity.Account
	resetHash    string
	resetExpires time.Time
}

// Accounts is a map-backed repository.AccountRepository with the same
// uniqueness and conditional-update rules as the postgres one.
type Accounts struct {
	mu   sync.Mutex
	byID map[string]*storedAccount

	// Err, when set, is returned by every call.
	Err error
	// MarkErr is returned by MarkExpiryWarningSent for these account ids.
	MarkErr map[string]error
}

func NewAccounts() *Accounts {
	return &Accounts{byID: map[string]*storedAccount{}, MarkErr: map[string]error{}}
}

func clone(a entity.Account) *entity.Account {
	if a.ActivePlan != nil {
		ent := *a.ActivePlan
		a.ActivePlan = &ent
	}
	return &a
}

func (r *Accounts) Create(_ context.Context, a *entity.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	for _, s := range r.byID {
		if s.acc.Email == a.Email {
			return repository.ErrEmailTaken
		}
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Role == "" {
		a.Role = entity.RoleUser
	}
	now := time.Now().UTC()
	a.CreatedAt, a.UpdatedAt = now, now
	r.byID[a.ID] = &storedAccount{acc: *clone(*a)}
	return nil
}

func (r *Accounts) GetByID(_ context.Context, id string) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	s, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return clone(s.acc), nil
}

func (r *Accounts) GetByEmail(_ context.Context, email string) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for _, s := range r.byID {
		if s.acc.Email == email {
			return clone(s.acc), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *Accounts) SetResetToken(_ context.Context, id, tokenHash string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.resetHash, s.resetExpires = tokenHash, expiresAt
	return nil
}

func (r *Accounts) ConsumeResetToken(_ context.Context, tokenHash, passwordHash string, now time.Time) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.byID {
		if s.resetHash != "" && s.resetHash == tokenHash && s.resetExpires.After(now) {
			s.acc.PasswordHash = passwordHash
			s.resetHash, s.resetExpires = "", time.Time{}
			return id, nil
		}
	}
	return "", repository.ErrNotFound
}

// ResetTokenHash exposes the stored digest for assertions.
func (r *Accounts) ResetTokenHash(id string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.byID[id]; ok {
		return s.resetHash
	}
	return ""
}

func (r *Accounts) SetTradingViewID(_ context.Context, id, tradingViewID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	for otherID, o := range r.byID {
		if otherID != id && o.acc.TradingViewID == tradingViewID {
			return repository.ErrTradingViewIDTaken
		}
	}
	s.acc.TradingViewID = tradingViewID
	return nil
}

func (r *Accounts) SetEntitlement(_ context.Context, id string, ent entity.Entitlement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.setEntitlementLocked(id, ent)
}

func (r *Accounts) setEntitlementLocked(id string, ent entity.Entitlement) error {
	s, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.acc.ActivePlan = &ent
	s.acc.ExpiryWarningEmailSent = false
	return nil
}

func (r *Accounts) ListExpiringBetween(_ context.Context, from, to time.Time) ([]*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	var out []*entity.Account
	for _, s := range r.byID {
		p := s.acc.ActivePlan
		if p == nil || s.acc.ExpiryWarningEmailSent {
			continue
		}
		if !p.EndDate.Before(from) && p.EndDate.Before(to) {
			out = append(out, clone(s.acc))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ActivePlan.EndDate.Before(out[j].ActivePlan.EndDate) })
	return out, nil
}

func (r *Accounts) MarkExpiryWarningSent(_ context.Context, id string, endDate time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.MarkErr[id]; err != nil {
		return false, err
	}
	s, ok := r.byID[id]
	if !ok || s.acc.ActivePlan == nil || !s.acc.ActivePlan.EndDate.Equal(endDate) {
		return false, nil
	}
	s.acc.ExpiryWarningEmailSent = true
	return true, nil
}

// Put stores a copy of a as is, bypassing Create's defaults.
func (r *Accounts) Put(a *entity.Account) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[a.ID] = &storedAccount{acc: *clone(*a)}
}

// Payments is the in-memory repository.PaymentRepository. It shares the
// account store so CompleteAndActivate can write both sides atomically.
type Payments struct {
	mu       sync.Mutex
	accounts *Accounts
	byOrder  map[string]*entity.Payment
	seq      int

	Err error
}

func NewPayments(accounts *Accounts) *Payments {
	return &Payments{accounts: accounts, byOrder: map[string]*entity.Payment{}}
}

func (r *Payments) Create(_ context.Context, p *entity.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if _, dup := r.byOrder[p.OrderID]; dup {
		return errors.New("duplicate order id")
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = entity.PaymentCreated
	}
	// strictly increasing timestamps keep the newest-first order stable
	r.seq++
	p.CreatedAt = time.Unix(1_700_000_000, 0).UTC().Add(time.Duration(r.seq) * time.Second)
	p.UpdatedAt = p.CreatedAt
	cp := *p
	r.byOrder[p.OrderID] = &cp
	return nil
}

func (r *Payments) GetByOrderID(_ context.Context, orderID string) (*entity.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byOrder[orderID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *Payments) ListByAccount(_ context.Context, accountID string) ([]*entity.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Payment
	for _, p := range r.byOrder {
		if p.AccountID == accountID {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *Payments) CompleteAndActivate(_ context.Context, c repository.PaymentCompletion) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return false, r.Err
	}
	p, ok := r.byOrder[c.OrderID]
	if !ok || p.AccountID != c.AccountID || p.Status != entity.PaymentCreated {
		return false, nil
	}
	r.accounts.mu.Lock()
	defer r.accounts.mu.Unlock()
	if err := r.accounts.setEntitlementLocked(c.AccountID, c.Entitlement); err != nil {
		return false, err
	}
	paidAt := c.PaidAt
	p.Status = entity.PaymentPaid
	p.PaymentID = c.PaymentID
	p.Signature = c.Signature
	p.PaidAt = &paidAt
	p.UpdatedAt = paidAt
	return true, nil
}
