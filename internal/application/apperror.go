package application

import (
	"errors"
	"net/http"
)

// Kind classifies failures for the transport layer.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindInvalidToken
	KindRevoked
	KindAccountNotFound
	KindForbidden
	KindNotFound
	KindConflict
	KindGateway
	KindGatewayMisconfigured
)

// Error is the typed application error. Message is safe to show to clients;
// Err carries the cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches sentinels by kind and message so wrapped copies still compare equal.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == e.Message
}

// Wrap attaches cause to a copy of the sentinel.
func (e *Error) Wrap(cause error) *Error {
	return &Error{Kind: e.Kind, Message: e.Message, Err: cause}
}

// Status maps the kind onto an HTTP status code.
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthenticated, KindInvalidToken, KindRevoked, KindAccountNotFound:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindGateway:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// IsAuthFailure reports kinds that invalidate the caller's session.
func (k Kind) IsAuthFailure() bool {
	switch k {
	case KindUnauthenticated, KindInvalidToken, KindRevoked, KindAccountNotFound:
		return true
	}
	return false
}

// KindOf returns the kind of err, KindInternal for untyped errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

func Validation(msg string) *Error { return &Error{Kind: KindValidation, Message: msg} }

func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Message: "internal server error", Err: cause}
}

var (
	ErrInvalidCredentials = &Error{Kind: KindValidation, Message: "Invalid credentials"}
	ErrEmailTaken         = &Error{Kind: KindValidation, Message: "User with this email already exists"}
	ErrInvalidResetToken  = &Error{Kind: KindValidation, Message: "Invalid or expired reset token"}

	ErrUnauthenticated   = &Error{Kind: KindUnauthenticated, Message: "Access denied. No token provided."}
	ErrInvalidToken      = &Error{Kind: KindInvalidToken, Message: "Invalid or expired token."}
	ErrRevoked           = &Error{Kind: KindRevoked, Message: "Token has been revoked. Please log in again."}
	ErrAccountNotFound   = &Error{Kind: KindAccountNotFound, Message: "Invalid token. User not found."}

	ErrSessionUnavailable = &Error{Kind: KindInternal, Message: "Authentication is temporarily unavailable"}

	ErrUnknownPlan           = &Error{Kind: KindValidation, Message: "Invalid plan selected"}
	ErrPlanNotFound          = &Error{Kind: KindNotFound, Message: "Plan not found"}
	ErrGatewayMisconfigured  = &Error{Kind: KindGatewayMisconfigured, Message: "Payment gateway is not configured"}
	ErrGateway               = &Error{Kind: KindGateway, Message: "Failed to create payment order"}
	ErrSignatureMismatch     = &Error{Kind: KindValidation, Message: "Payment verification failed"}
	ErrPaymentRecordNotFound = &Error{Kind: KindValidation, Message: "Payment record not found"}
	ErrPlanMismatch          = &Error{Kind: KindValidation, Message: "Plan does not match the order"}

	ErrSubscriptionRequired = &Error{Kind: KindForbidden, Message: "An active subscription is required"}
	ErrTradingViewIDTaken   = &Error{Kind: KindConflict, Message: "This TradingView ID is already linked to another account"}
	ErrAdminOnly            = &Error{Kind: KindForbidden, Message: "Admin access required"}
	ErrUserNotFound         = &Error{Kind: KindNotFound, Message: "User not found"}
	ErrSearchUnavailable    = &Error{Kind: KindInternal, Message: "Account search is not configured"}
)
