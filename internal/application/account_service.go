package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/signal-subscription/internal/domain/entitlement"
	"github.com/oksasatya/signal-subscription/internal/domain/entity"
	"github.com/oksasatya/signal-subscription/internal/domain/repository"
)

const (
	TradingViewConnected    = "connected"
	TradingViewNotSubmitted = "not_submitted"

	defaultSearchSize = 20
	maxSearchSize     = 100
)

// SubscriptionView is the entitlement state of an account at a point in time.
type SubscriptionView struct {
	IsActive          bool
	DaysRemaining     int
	Status            entitlement.Status
	Plan              *entity.Entitlement
	TradingViewID     string
	TradingViewStatus string
	WarningEmailSent  bool
}

// AccountService serves the signed-in account's own data plus the admin lookup.
type AccountService struct {
	accounts repository.AccountRepository
	search   repository.AccountSearch // optional
	notifier Notifier
	logger   *logrus.Logger
	now      func() time.Time
}

func NewAccountService(accounts repository.AccountRepository, search repository.AccountSearch, notifier Notifier, logger *logrus.Logger, now func() time.Time) *AccountService {
	if now == nil {
		now = time.Now
	}
	return &AccountService{accounts: accounts, search: search, notifier: notifier, logger: logger, now: now}
}

// View evaluates the account's plan at the current time.
func (s *AccountService) View(a *entity.Account) SubscriptionView {
	now := s.now()
	v := SubscriptionView{
		IsActive:          entitlement.IsActive(a, now),
		DaysRemaining:     entitlement.DaysRemaining(a, now),
		Status:            entitlement.Evaluate(a, now),
		Plan:              a.ActivePlan,
		TradingViewID:     a.TradingViewID,
		TradingViewStatus: TradingViewNotSubmitted,
		WarningEmailSent:  a.ExpiryWarningEmailSent,
	}
	if a.TradingViewID != "" {
		v.TradingViewStatus = TradingViewConnected
	}
	return v
}

// LinkTradingView attaches a TradingView username to a subscriber. The id is
// unique across accounts.
func (s *AccountService) LinkTradingView(ctx context.Context, p *Principal, tradingViewID string) (*entity.Account, error) {
	id := strings.TrimSpace(tradingViewID)
	if id == "" {
		return nil, Validation("TradingView ID is required")
	}
	if !entitlement.IsActive(p.Account, s.now()) {
		return nil, ErrSubscriptionRequired
	}
	if err := s.accounts.SetTradingViewID(ctx, p.AccountID(), id); err != nil {
		switch {
		case errors.Is(err, repository.ErrTradingViewIDTaken):
			return nil, ErrTradingViewIDTaken
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrAccountNotFound
		}
		return nil, Internal(err)
	}
	acc := *p.Account
	acc.TradingViewID = id
	if s.search != nil {
		if err := s.search.Index(ctx, &acc); err != nil {
			s.logger.WithError(err).WithField("account_id", acc.ID).Warn("account index failed")
		}
	}
	return &acc, nil
}

// SearchAccounts runs the admin full-text lookup.
func (s *AccountService) SearchAccounts(ctx context.Context, query string, size int) ([]repository.AccountHit, error) {
	if s.search == nil {
		return nil, ErrSearchUnavailable
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, Validation("Search query is required")
	}
	if size <= 0 {
		size = defaultSearchSize
	}
	if size > maxSearchSize {
		size = maxSearchSize
	}
	hits, err := s.search.Search(ctx, query, size)
	if err != nil {
		return nil, ErrSearchUnavailable.Wrap(err)
	}
	return hits, nil
}

// Contact forwards a contact form submission to the support inbox. Unlike the
// other notifications a failed hand-off is reported to the caller.
func (s *AccountService) Contact(ctx context.Context, msg ContactMessage) error {
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Email = normalizeEmail(msg.Email)
	msg.Subject = strings.TrimSpace(msg.Subject)
	msg.Message = strings.TrimSpace(msg.Message)
	if msg.Name == "" || msg.Email == "" || msg.Subject == "" || msg.Message == "" {
		return Validation("All fields are required")
	}
	if err := s.notifier.Contact(ctx, msg); err != nil {
		s.logger.WithError(err).Error("contact email failed")
		return Internal(err)
	}
	return nil
}
