package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/signal-subscription/internal/application"
	"github.com/oksasatya/signal-subscription/pkg/response"
)

type TradingViewHandler struct {
	Accounts *application.AccountService
	Errors   *Errors
}

func NewTradingViewHandler(accounts *application.AccountService, errs *Errors) *TradingViewHandler {
	return &TradingViewHandler{Accounts: accounts, Errors: errs}
}

// tradingViewRequest takes either "id" or "tradingViewId".
type tradingViewRequest struct {
	ID            string `json:"id"`
	TradingViewID string `json:"tradingViewId"`
}

// Get GET /api/tradingview-id
func (h *TradingViewHandler) Get(c *gin.Context, p *application.Principal) {
	v := h.Accounts.View(p.Account)
	var id any
	if v.TradingViewID != "" {
		id = v.TradingViewID
	}
	response.Send(c, response.Success(c, http.StatusOK, gin.H{
		"tradingViewId":         id,
		"tradingViewStatus":     v.TradingViewStatus,
		"hasActiveSubscription": v.IsActive,
	}, ""))
}

// Submit POST /api/tradingview-id
func (h *TradingViewHandler) Submit(c *gin.Context, p *application.Principal) {
	var req tradingViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Errors.BadRequest(c, err)
		return
	}
	id := req.ID
	if id == "" {
		id = req.TradingViewID
	}
	acc, err := h.Accounts.LinkTradingView(c.Request.Context(), p, id)
	if err != nil {
		h.Errors.Respond(c, err)
		return
	}
	response.Send(c, response.Success(c, http.StatusOK, gin.H{
		"tradingViewId":     acc.TradingViewID,
		"tradingViewStatus": application.TradingViewConnected,
	}, "TradingView ID submitted successfully"))
}
