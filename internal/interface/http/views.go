package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/signal-subscription/internal/application"
	"github.com/oksasatya/signal-subscription/internal/domain/entity"
)

type entitlementView struct {
	PlanID    string    `json:"planId"`
	Name      string    `json:"name"`
	Price     int64     `json:"price"`
	Currency  string    `json:"currency"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	OrderID   string    `json:"orderId,omitempty"`
	PaymentID string    `json:"paymentId,omitempty"`
}

func toEntitlementView(e *entity.Entitlement) *entitlementView {
	if e == nil {
		return nil
	}
	return &entitlementView{
		PlanID:    e.PlanID,
		Name:      e.Name,
		Price:     e.Price,
		Currency:  e.Currency,
		StartDate: e.StartDate,
		EndDate:   e.EndDate,
		OrderID:   e.OrderID,
		PaymentID: e.PaymentID,
	}
}

type userView struct {
	ID                    string           `json:"id"`
	Name                  string           `json:"name"`
	Email                 string           `json:"email"`
	Role                  entity.Role      `json:"role"`
	ActivePlan            *entitlementView `json:"activePlan"`
	TradingViewID         string           `json:"tradingViewId,omitempty"`
	IsActive              bool             `json:"isActive"`
	HasActiveSubscription bool             `json:"hasActiveSubscription"`
	DaysRemaining         int              `json:"daysRemaining"`
	CreatedAt             time.Time        `json:"createdAt"`
}

func toUserView(a *entity.Account, v application.SubscriptionView) userView {
	return userView{
		ID:                    a.ID,
		Name:                  a.Name,
		Email:                 a.Email,
		Role:                  a.Role,
		ActivePlan:            toEntitlementView(a.ActivePlan),
		TradingViewID:         a.TradingViewID,
		IsActive:              v.IsActive,
		HasActiveSubscription: v.IsActive,
		DaysRemaining:         v.DaysRemaining,
		CreatedAt:             a.CreatedAt,
	}
}

type planView struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	DurationDays      int      `json:"durationDays"`
	Price             int64    `json:"price"`
	OriginalPrice     int64    `json:"originalPrice,omitempty"`
	Currency          string   `json:"currency"`
	SavingsPercentage int      `json:"savingsPercentage"`
	PricePerDay       int64    `json:"pricePerDay"`
	Popular           bool     `json:"popular"`
	Features          []string `json:"features"`
}

func toPlanView(p entity.Plan) planView {
	return planView{
		ID:                p.ID,
		Name:              p.Name,
		Description:       p.Description,
		DurationDays:      p.DurationDays,
		Price:             p.Price,
		OriginalPrice:     p.OriginalPrice,
		Currency:          p.Currency,
		SavingsPercentage: p.SavingsPercentage(),
		PricePerDay:       p.PricePerDay(),
		Popular:           p.Popular,
		Features:          p.Features,
	}
}

type paymentView struct {
	ID        string               `json:"id"`
	PlanID    string               `json:"planId"`
	Amount    int64                `json:"amount"`
	Currency  string               `json:"currency"`
	OrderID   string               `json:"orderId"`
	PaymentID string               `json:"paymentId,omitempty"`
	Status    entity.PaymentStatus `json:"status"`
	CreatedAt time.Time            `json:"createdAt"`
	PaidAt    *time.Time           `json:"paidAt,omitempty"`
}

func toPaymentViews(list []*entity.Payment) []paymentView {
	out := make([]paymentView, 0, len(list))
	for _, p := range list {
		out = append(out, paymentView{
			ID:        p.ID,
			PlanID:    p.PlanID,
			Amount:    p.Amount,
			Currency:  p.Currency,
			OrderID:   p.OrderID,
			PaymentID: p.PaymentID,
			Status:    p.Status,
			CreatedAt: p.CreatedAt,
			PaidAt:    p.PaidAt,
		})
	}
	return out
}

// subscriptionBody is the payload of GET /subscription/status.
func subscriptionBody(v application.SubscriptionView) gin.H {
	sub := gin.H{
		"isActive":              v.IsActive,
		"hasActiveSubscription": v.IsActive,
		"daysRemaining":         v.DaysRemaining,
		"status":                v.Status,
		"tradingViewStatus":     v.TradingViewStatus,
	}
	if v.IsActive && v.Plan != nil {
		sub["planId"] = v.Plan.PlanID
		sub["planName"] = v.Plan.Name
		sub["price"] = v.Plan.Price
		sub["currency"] = v.Plan.Currency
		sub["startDate"] = v.Plan.StartDate
		sub["endDate"] = v.Plan.EndDate
	}
	if v.TradingViewID != "" {
		sub["tradingViewId"] = v.TradingViewID
	}
	return sub
}
