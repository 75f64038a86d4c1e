package razorpay

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/signal-subscription/internal/domain/gateway"
)

func TestSignKnownVector(t *testing.T) {
	// openssl: printf 'order_1|pay_1' | openssl dgst -sha256 -hmac secret
	sig := Sign("secret", "order_1", "pay_1")
	assert.Equal(t, "52115a0d3400de9e86aade1f1b6eba9e8974604f4e267a9e9a16633a4c8dd2cb", sig)
	assert.NoError(t, VerifySignature("secret", "order_1", "pay_1", sig))
}

func TestAnySingleBitFlipIsRejected(t *testing.T) {
	sig := Sign("secret", "order_1", "pay_1")
	raw, err := hex.DecodeString(sig)
	require.NoError(t, err)

	for i := 0; i < len(raw)*8; i++ {
		flipped := append([]byte(nil), raw...)
		flipped[i/8] ^= 1 << (i % 8)
		err := VerifySignature("secret", "order_1", "pay_1", hex.EncodeToString(flipped))
		assert.ErrorIs(t, err, gateway.ErrSignatureMismatch, "bit %d", i)
	}
}

func TestVerifySignatureRejects(t *testing.T) {
	sig := Sign("secret", "order_1", "pay_1")

	assert.ErrorIs(t, VerifySignature("secret", "order_2", "pay_1", sig), gateway.ErrSignatureMismatch)
	assert.ErrorIs(t, VerifySignature("secret", "order_1", "pay_2", sig), gateway.ErrSignatureMismatch)
	assert.ErrorIs(t, VerifySignature("other", "order_1", "pay_1", sig), gateway.ErrSignatureMismatch)
	assert.ErrorIs(t, VerifySignature("secret", "order_1", "pay_1", ""), gateway.ErrSignatureMismatch)
	assert.ErrorIs(t, VerifySignature("", "order_1", "pay_1", sig), gateway.ErrMisconfigured)
}
