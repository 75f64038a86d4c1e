package repository

import (
	"context"
	"time"

	"github.com/oksasatya/signal-subscription/internal/domain/entity"
)

// PaymentCompletion carries everything written when a verified payment is captured.
type PaymentCompletion struct {
	OrderID     string
	PaymentID   string
	Signature   string
	PaidAt      time.Time
	AccountID   string
	Entitlement entity.Entitlement
}

type PaymentRepository interface {
	Create(ctx context.Context, p *entity.Payment) error
	GetByOrderID(ctx context.Context, orderID string) (*entity.Payment, error)
	ListByAccount(ctx context.Context, accountID string) ([]*entity.Payment, error)

	// CompleteAndActivate marks the order paid and writes the entitlement in one
	// transaction. It returns false, leaving everything untouched, when the
	// order is no longer in the created state.
	CompleteAndActivate(ctx context.Context, c PaymentCompletion) (bool, error)
}
