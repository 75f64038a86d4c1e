package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/signal-subscription/internal/domain/entity"
	"github.com/oksasatya/signal-subscription/internal/domain/gateway"
	"github.com/oksasatya/signal-subscription/internal/domain/repository"
)

// ReceiptArchive stores a copy of each captured payment.
type ReceiptArchive interface {
	Archive(ctx context.Context, a *entity.Account, ent entity.Entitlement) (string, error)
}

// Checkout is what the client needs to open the gateway widget.
type Checkout struct {
	OrderID  string
	Amount   int64
	Currency string
	KeyID    string
	Plan     entity.Plan
}

type VerifyInput struct {
	OrderID   string
	PaymentID string
	Signature string
	PlanID    string
}

// Activation is the outcome of a payment verification.
type Activation struct {
	Account          *entity.Account
	Entitlement      entity.Entitlement
	AlreadyProcessed bool
}

type SubscriptionService struct {
	catalog  *Catalog
	payments repository.PaymentRepository
	accounts repository.AccountRepository
	gateway  gateway.Gateway
	notifier Notifier
	receipts ReceiptArchive           // optional
	search   repository.AccountSearch // optional
	logger   *logrus.Logger
	now      func() time.Time
}

func NewSubscriptionService(catalog *Catalog, payments repository.PaymentRepository, accounts repository.AccountRepository,
	gw gateway.Gateway, notifier Notifier, receipts ReceiptArchive, search repository.AccountSearch,
	logger *logrus.Logger, now func() time.Time) *SubscriptionService {
	if now == nil {
		now = time.Now
	}
	return &SubscriptionService{
		catalog:  catalog,
		payments: payments,
		accounts: accounts,
		gateway:  gw,
		notifier: notifier,
		receipts: receipts,
		search:   search,
		logger:   logger,
		now:      now,
	}
}

func (s *SubscriptionService) Plans() []entity.Plan { return s.catalog.List() }

func (s *SubscriptionService) Plan(id string) (entity.Plan, error) {
	p, ok := s.catalog.Get(id)
	if !ok {
		return entity.Plan{}, ErrPlanNotFound
	}
	return p, nil
}

// receiptID fits the gateway's 40 character receipt limit.
func receiptID() string {
	return "rcpt_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:24]
}

func (s *SubscriptionService) CreateOrder(ctx context.Context, p *Principal, planID string) (*Checkout, error) {
	plan, ok := s.catalog.Get(strings.TrimSpace(planID))
	if !ok {
		return nil, ErrUnknownPlan
	}

	order, err := s.gateway.CreateOrder(ctx, gateway.OrderRequest{
		Amount:   plan.Price,
		Currency: plan.Currency,
		Receipt:  receiptID(),
		Notes:    map[string]string{"accountId": p.AccountID(), "planId": plan.ID},
	})
	if err != nil {
		ordersTotal.WithLabelValues(plan.ID, "error").Inc()
		if errors.Is(err, gateway.ErrMisconfigured) {
			s.logger.Error("payment gateway credentials missing")
			return nil, ErrGatewayMisconfigured.Wrap(err)
		}
		s.logger.WithError(err).WithField("plan_id", plan.ID).Error("gateway order creation failed")
		return nil, ErrGateway.Wrap(err)
	}

	rec := &entity.Payment{
		AccountID: p.AccountID(),
		PlanID:    plan.ID,
		Amount:    order.Amount,
		Currency:  order.Currency,
		OrderID:   order.ID,
		Status:    entity.PaymentCreated,
	}
	if rec.Amount == 0 {
		rec.Amount = plan.Price
	}
	if rec.Currency == "" {
		rec.Currency = plan.Currency
	}
	if err := s.payments.Create(ctx, rec); err != nil {
		ordersTotal.WithLabelValues(plan.ID, "error").Inc()
		return nil, Internal(err)
	}
	ordersTotal.WithLabelValues(plan.ID, "ok").Inc()

	return &Checkout{
		OrderID:  order.ID,
		Amount:   rec.Amount,
		Currency: rec.Currency,
		KeyID:    s.gateway.KeyID(),
		Plan:     plan,
	}, nil
}

// VerifyPayment checks the gateway signature and activates the plan exactly
// once per order. Replays of a captured order return the stored entitlement
// with AlreadyProcessed set.
func (s *SubscriptionService) VerifyPayment(ctx context.Context, p *Principal, in VerifyInput) (*Activation, error) {
	if in.OrderID == "" || in.PaymentID == "" || in.Signature == "" || in.PlanID == "" {
		return nil, Validation("Missing payment verification details")
	}
	plan, ok := s.catalog.Get(in.PlanID)
	if !ok {
		return nil, ErrUnknownPlan
	}
	log := s.logger.WithFields(logrus.Fields{"account_id": p.AccountID(), "order_id": in.OrderID, "plan_id": plan.ID})

	if err := s.gateway.VerifySignature(in.OrderID, in.PaymentID, in.Signature); err != nil {
		activationsTotal.WithLabelValues(plan.ID, "signature_mismatch").Inc()
		if errors.Is(err, gateway.ErrMisconfigured) {
			return nil, ErrGatewayMisconfigured.Wrap(err)
		}
		log.Warn("payment signature mismatch")
		return nil, ErrSignatureMismatch
	}

	rec, err := s.payments.GetByOrderID(ctx, in.OrderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPaymentRecordNotFound
		}
		return nil, Internal(err)
	}
	if rec.AccountID != p.AccountID() {
		log.Warn("order belongs to another account")
		return nil, ErrPaymentRecordNotFound
	}
	if rec.PlanID != plan.ID {
		return nil, ErrPlanMismatch
	}
	if rec.Status == entity.PaymentPaid {
		return s.alreadyProcessed(ctx, p)
	}

	now := s.now().UTC()
	ent := entity.NewEntitlement(plan, now, in.OrderID, in.PaymentID)
	done, err := s.payments.CompleteAndActivate(ctx, repository.PaymentCompletion{
		OrderID:     in.OrderID,
		PaymentID:   in.PaymentID,
		Signature:   in.Signature,
		PaidAt:      now,
		AccountID:   p.AccountID(),
		Entitlement: ent,
	})
	if err != nil {
		activationsTotal.WithLabelValues(plan.ID, "error").Inc()
		return nil, Internal(err)
	}
	if !done {
		// lost the race against a concurrent verification of the same order
		return s.alreadyProcessed(ctx, p)
	}
	activationsTotal.WithLabelValues(plan.ID, "ok").Inc()
	log.WithField("end_date", ent.EndDate).Info("subscription activated")

	acc, err := s.accounts.GetByID(ctx, p.AccountID())
	if err != nil {
		return nil, Internal(err)
	}
	acc.PasswordHash = ""
	s.afterActivation(ctx, acc, ent)

	return &Activation{Account: acc, Entitlement: ent}, nil
}

func (s *SubscriptionService) alreadyProcessed(ctx context.Context, p *Principal) (*Activation, error) {
	acc, err := s.accounts.GetByID(ctx, p.AccountID())
	if err != nil {
		return nil, Internal(err)
	}
	acc.PasswordHash = ""
	out := &Activation{Account: acc, AlreadyProcessed: true}
	if acc.ActivePlan != nil {
		out.Entitlement = *acc.ActivePlan
	}
	return out, nil
}

// afterActivation runs the best-effort side effects of a new window.
func (s *SubscriptionService) afterActivation(ctx context.Context, acc *entity.Account, ent entity.Entitlement) {
	log := s.logger.WithField("account_id", acc.ID)
	if err := s.notifier.PurchaseConfirmation(ctx, acc, ent); err != nil {
		log.WithError(err).Warn("purchase confirmation email failed")
	}
	if s.receipts != nil && ent.OrderID != "" {
		if uri, err := s.receipts.Archive(ctx, acc, ent); err != nil {
			log.WithError(err).Warn("receipt archive failed")
		} else {
			log.WithField("receipt", uri).Debug("receipt archived")
		}
	}
	if s.search != nil {
		if err := s.search.Index(ctx, acc); err != nil {
			log.WithError(err).Warn("account index failed")
		}
	}
}

// Renew overwrites an account's plan with [now, now+duration); admin only.
func (s *SubscriptionService) Renew(ctx context.Context, admin *Principal, accountID, planID string) (*entity.Account, error) {
	if !admin.Account.IsAdmin() {
		return nil, ErrAdminOnly
	}
	plan, ok := s.catalog.Get(strings.TrimSpace(planID))
	if !ok {
		return nil, ErrUnknownPlan
	}
	ent := entity.NewEntitlement(plan, s.now().UTC(), "", "")
	if err := s.accounts.SetEntitlement(ctx, accountID, ent); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, Internal(err)
	}
	acc, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, Internal(err)
	}
	acc.PasswordHash = ""
	s.logger.WithFields(logrus.Fields{"account_id": accountID, "plan_id": plan.ID, "admin_id": admin.AccountID()}).Info("subscription renewed by admin")
	s.afterActivation(ctx, acc, ent)
	return acc, nil
}

// History lists the caller's payment records, newest first.
func (s *SubscriptionService) History(ctx context.Context, p *Principal) ([]*entity.Payment, error) {
	list, err := s.payments.ListByAccount(ctx, p.AccountID())
	if err != nil {
		return nil, Internal(err)
	}
	return list, nil
}
