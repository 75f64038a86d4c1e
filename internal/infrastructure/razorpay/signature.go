package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/oksasatya/signal-subscription/internal/domain/gateway"
)

// Sign computes the checkout signature: hex(HMAC-SHA256(secret, orderID|paymentID)).
func Sign(secret, orderID, paymentID string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(h.Sum(nil))
}

// VerifySignature checks a checkout callback in constant time.
func VerifySignature(secret, orderID, paymentID, signature string) error {
	if secret == "" {
		return gateway.ErrMisconfigured
	}
	if orderID == "" || paymentID == "" || signature == "" {
		return fmt.Errorf("%w: missing fields", gateway.ErrSignatureMismatch)
	}
	expected := Sign(secret, orderID, paymentID)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return gateway.ErrSignatureMismatch
	}
	return nil
}
