package repository

import (
	"context"
	"errors"
	"time"

	"github.com/oksasatya/signal-subscription/internal/domain/entity"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrTradingViewIDTaken = errors.New("tradingview id already linked to another account")
)

// AccountRepository defines the interface for account-related database operations.
// Emails are stored lowercased; lookups expect a normalized address.
type AccountRepository interface {
	Create(ctx context.Context, a *entity.Account) error
	GetByID(ctx context.Context, id string) (*entity.Account, error)
	GetByEmail(ctx context.Context, email string) (*entity.Account, error)

	// SetResetToken stores the digest of a password reset token, replacing any previous one.
	SetResetToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error
	// ConsumeResetToken swaps the password for the account holding an unexpired
	// token digest and clears the token in the same statement. ErrNotFound when
	// no account matches.
	ConsumeResetToken(ctx context.Context, tokenHash, passwordHash string, now time.Time) (string, error)

	SetTradingViewID(ctx context.Context, id, tradingViewID string) error

	// SetEntitlement overwrites the active plan and clears the expiry warning flag.
	SetEntitlement(ctx context.Context, id string, ent entity.Entitlement) error

	// ListExpiringBetween returns accounts whose plan ends in [from, to) and
	// that have not been warned for the current window.
	ListExpiringBetween(ctx context.Context, from, to time.Time) ([]*entity.Account, error)
	// MarkExpiryWarningSent flags the account only while its plan still ends at
	// endDate. It returns false when the window changed in the meantime.
	MarkExpiryWarningSent(ctx context.Context, id string, endDate time.Time) (bool, error)
}
