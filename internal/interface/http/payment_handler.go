package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/signal-subscription/internal/application"
	"github.com/oksasatya/signal-subscription/internal/domain/entitlement"
	"github.com/oksasatya/signal-subscription/pkg/response"
)

type PaymentHandler struct {
	Subscriptions *application.SubscriptionService
	Accounts      *application.AccountService
	Errors        *Errors
}

func NewPaymentHandler(subs *application.SubscriptionService, accounts *application.AccountService, errs *Errors) *PaymentHandler {
	return &PaymentHandler{Subscriptions: subs, Accounts: accounts, Errors: errs}
}

type createOrderRequest struct {
	PlanID string `json:"planId" binding:"required,planid"`
}

// verifyRequest also accepts the field names the checkout widget posts.
type verifyRequest struct {
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
	Signature string `json:"signature"`
	PlanID    string `json:"planId" binding:"required,planid"`

	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

func (r verifyRequest) input() application.VerifyInput {
	in := application.VerifyInput{OrderID: r.OrderID, PaymentID: r.PaymentID, Signature: r.Signature, PlanID: r.PlanID}
	if in.OrderID == "" {
		in.OrderID = r.RazorpayOrderID
	}
	if in.PaymentID == "" {
		in.PaymentID = r.RazorpayPaymentID
	}
	if in.Signature == "" {
		in.Signature = r.RazorpaySignature
	}
	return in
}

// CreateOrder POST /api/payments/create-order
func (h *PaymentHandler) CreateOrder(c *gin.Context, p *application.Principal) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Errors.BadRequest(c, err)
		return
	}
	co, err := h.Subscriptions.CreateOrder(c.Request.Context(), p, req.PlanID)
	if err != nil {
		h.Errors.Respond(c, err)
		return
	}
	response.Send(c, response.Success(c, http.StatusOK, gin.H{
		"orderId":  co.OrderID,
		"amount":   co.Amount,
		"currency": co.Currency,
		"key":      co.KeyID,
		"plan":     toPlanView(co.Plan),
	}, ""))
}

// Verify POST /api/payments/verify
func (h *PaymentHandler) Verify(c *gin.Context, p *application.Principal) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Errors.BadRequest(c, err)
		return
	}
	act, err := h.Subscriptions.VerifyPayment(c.Request.Context(), p, req.input())
	if err != nil {
		h.Errors.Respond(c, err)
		return
	}

	msg := "Payment verified and subscription activated"
	if act.AlreadyProcessed {
		msg = "Payment already processed"
	}
	view := h.Accounts.View(act.Account)
	response.Send(c, response.Success(c, http.StatusOK, gin.H{
		"alreadyProcessed": act.AlreadyProcessed,
		"subscription":     toEntitlementView(&act.Entitlement),
		"daysRemaining":    view.DaysRemaining,
		"user":             toUserView(act.Account, view),
	}, msg))
}

// History GET /api/payments/history
func (h *PaymentHandler) History(c *gin.Context, p *application.Principal) {
	list, err := h.Subscriptions.History(c.Request.Context(), p)
	if err != nil {
		h.Errors.Respond(c, err)
		return
	}
	response.Send(c, response.Success(c, http.StatusOK, gin.H{"payments": toPaymentViews(list)}, ""))
}

// Status GET /api/subscription/status
func (h *PaymentHandler) Status(c *gin.Context, p *application.Principal) {
	v := h.Accounts.View(p.Account)
	response.Send(c, response.Success(c, http.StatusOK, gin.H{"subscription": subscriptionBody(v)}, ""))
}

// CheckExpiry GET /api/subscription/check-expiry
func (h *PaymentHandler) CheckExpiry(c *gin.Context, p *application.Principal) {
	v := h.Accounts.View(p.Account)
	status := v.Status
	if status == entitlement.StatusNone {
		status = entitlement.StatusExpired
	}
	var endDate any
	if v.Plan != nil {
		endDate = v.Plan.EndDate
	}
	response.Send(c, response.Success(c, http.StatusOK, gin.H{
		"status":           status,
		"daysRemaining":    v.DaysRemaining,
		"endDate":          endDate,
		"warningEmailSent": v.WarningEmailSent,
	}, ""))
}
