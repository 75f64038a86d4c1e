package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/signal-subscription/internal/application"
	"github.com/oksasatya/signal-subscription/pkg/response"
)

type AdminHandler struct {
	Subscriptions *application.SubscriptionService
	Accounts      *application.AccountService
	Errors        *Errors
}

func NewAdminHandler(subs *application.SubscriptionService, accounts *application.AccountService, errs *Errors) *AdminHandler {
	return &AdminHandler{Subscriptions: subs, Accounts: accounts, Errors: errs}
}

type renewRequest struct {
	PlanID string `json:"planId" binding:"required,planid"`
}

// Renew POST /api/admin/accounts/:id/renew
func (h *AdminHandler) Renew(c *gin.Context, p *application.Principal) {
	var req renewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Errors.BadRequest(c, err)
		return
	}
	acc, err := h.Subscriptions.Renew(c.Request.Context(), p, c.Param("id"), req.PlanID)
	if err != nil {
		h.Errors.Respond(c, err)
		return
	}
	response.Send(c, response.Success(c, http.StatusOK, gin.H{
		"user": toUserView(acc, h.Accounts.View(acc)),
	}, "Subscription renewed"))
}

// Search GET /api/admin/accounts/search?q=&size=
func (h *AdminHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.Query("size"))
	hits, err := h.Accounts.SearchAccounts(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		h.Errors.Respond(c, err)
		return
	}
	response.Send(c, response.Success(c, http.StatusOK, gin.H{"accounts": hits, "count": len(hits)}, ""))
}
