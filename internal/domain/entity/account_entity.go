package entity

import (
	"time"
)

// Account is the aggregate root for the subscriber domain
// Passwords are stored as bcrypt hashes in PasswordHash and never leave the
// repository layer through API responses.
type Account struct {
	ID            string
	Name          string
	Email         string
	PasswordHash  string
	Role          Role
	ActivePlan    *Entitlement
	TradingViewID string

	// ExpiryWarningEmailSent is set once per entitlement window by the expiry
	// sweep and reset whenever a new window is written.
	ExpiryWarningEmailSent bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAdmin reports whether the account carries the admin role.
func (a *Account) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}

// Entitlement is the paid access window attached to an account.
// EndDate is never before StartDate.
type Entitlement struct {
	PlanID    string
	Name      string
	Price     int64 // paise
	Currency  string
	StartDate time.Time
	EndDate   time.Time
	OrderID   string
	PaymentID string
}

// NewEntitlement opens a window of plan.Duration() starting at start.
func NewEntitlement(plan Plan, start time.Time, orderID, paymentID string) Entitlement {
	return Entitlement{
		PlanID:    plan.ID,
		Name:      plan.Name,
		Price:     plan.Price,
		Currency:  plan.Currency,
		StartDate: start,
		EndDate:   start.Add(plan.Duration()),
		OrderID:   orderID,
		PaymentID: paymentID,
	}
}
