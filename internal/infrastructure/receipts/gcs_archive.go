// Package receipts archives captured payments as JSON objects in Cloud Storage.
package receipts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/storage"

	"github.com/oksasatya/signal-subscription/internal/domain/entity"
	"github.com/oksasatya/signal-subscription/pkg/helpers"
)

type GCSArchive struct {
	client *storage.Client
	bucket string
}

func NewGCSArchive(client *storage.Client, bucket string) *GCSArchive {
	return &GCSArchive{client: client, bucket: bucket}
}

type receipt struct {
	OrderID     string    `json:"orderId"`
	PaymentID   string    `json:"paymentId"`
	AccountID   string    `json:"accountId"`
	Email       string    `json:"email"`
	PlanID      string    `json:"planId"`
	PlanName    string    `json:"planName"`
	Amount      int64     `json:"amount"`
	AmountText  string    `json:"amountText"`
	Currency    string    `json:"currency"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// ObjectPath is receipts/<account>/<order>.json.
func ObjectPath(accountID, orderID string) string {
	return fmt.Sprintf("receipts/%s/%s.json", accountID, orderID)
}

func render(a *entity.Account, ent entity.Entitlement, at time.Time) ([]byte, error) {
	return json.MarshalIndent(receipt{
		OrderID:     ent.OrderID,
		PaymentID:   ent.PaymentID,
		AccountID:   a.ID,
		Email:       a.Email,
		PlanID:      ent.PlanID,
		PlanName:    ent.Name,
		Amount:      ent.Price,
		AmountText:  helpers.FormatPaise(ent.Price),
		Currency:    ent.Currency,
		StartDate:   ent.StartDate,
		EndDate:     ent.EndDate,
		GeneratedAt: at.UTC(),
	}, "", "  ")
}

// Archive uploads the receipt and returns its gs:// URI.
func (g *GCSArchive) Archive(ctx context.Context, a *entity.Account, ent entity.Entitlement) (string, error) {
	body, err := render(a, ent, time.Now())
	if err != nil {
		return "", err
	}
	c, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	return helpers.UploadObject(c, g.client, g.bucket, ObjectPath(a.ID, ent.OrderID), "application/json", bytes.NewReader(body))
}
