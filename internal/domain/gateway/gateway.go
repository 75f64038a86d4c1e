// Package gateway describes the payment provider as seen by the application.
package gateway

import (
	"context"
	"errors"
)

var (
	// ErrMisconfigured means the provider credentials are absent.
	ErrMisconfigured = errors.New("payment gateway credentials are not configured")
	// ErrUpstream wraps transport failures and non-2xx provider answers.
	ErrUpstream = errors.New("payment gateway request failed")
	// ErrSignatureMismatch is returned when a callback signature does not verify.
	ErrSignatureMismatch = errors.New("payment signature mismatch")
)

type OrderRequest struct {
	Amount   int64 // paise
	Currency string
	Receipt  string
	Notes    map[string]string
}

type Order struct {
	ID       string
	Amount   int64
	Currency string
	Receipt  string
	Status   string
}

// Gateway creates provider orders and checks signed checkout callbacks.
type Gateway interface {
	CreateOrder(ctx context.Context, req OrderRequest) (*Order, error)
	VerifySignature(orderID, paymentID, signature string) error
	// KeyID is the public key handed to the checkout widget.
	KeyID() string
}
