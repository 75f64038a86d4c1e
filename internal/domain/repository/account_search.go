package repository

import (
	"context"
	"time"

	"github.com/oksasatya/signal-subscription/internal/domain/entity"
)

// AccountHit is the search-side projection of an account.
type AccountHit struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Role          string     `json:"role"`
	PlanID        string     `json:"planId,omitempty"`
	PlanEndDate   *time.Time `json:"planEndDate,omitempty"`
	TradingViewID string     `json:"tradingViewId,omitempty"`
}

// AccountSearch is the admin lookup index kept beside the primary store.
type AccountSearch interface {
	Index(ctx context.Context, a *entity.Account) error
	Search(ctx context.Context, query string, size int) ([]AccountHit, error)
}
