package entity

import "time"

type PaymentStatus string

const (
	PaymentCreated PaymentStatus = "created"
	PaymentPaid    PaymentStatus = "paid"
)

// Payment tracks one gateway order from creation to capture.
// OrderID is unique; Status only moves created -> paid.
type Payment struct {
	ID        string
	AccountID string
	PlanID    string
	Amount    int64 // paise
	Currency  string
	OrderID   string
	PaymentID string
	Signature string
	Status    PaymentStatus
	CreatedAt time.Time
	UpdatedAt time.Time
	PaidAt    *time.Time
}
