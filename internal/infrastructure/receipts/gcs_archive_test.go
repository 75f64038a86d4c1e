package receipts

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/signal-subscription/internal/domain/entity"
)

func TestRenderReceipt(t *testing.T) {
	start := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	ent := entity.Entitlement{PlanID: "professional_3m", Name: "Professional", Price: 249900, Currency: "INR",
		StartDate: start, EndDate: start.Add(90 * 24 * time.Hour), OrderID: "order_9", PaymentID: "pay_9"}
	acc := &entity.Account{ID: "acc-1", Email: "alice@example.com", PasswordHash: "secret-hash"}

	b, err := render(acc, ent, start)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "secret-hash")

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "order_9", got["orderId"])
	assert.Equal(t, "₹2,499", got["amountText"])
	assert.EqualValues(t, 249900, got["amount"])

	assert.Equal(t, "receipts/acc-1/order_9.json", ObjectPath("acc-1", "order_9"))
}
