package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/signal-subscription/internal/application"
	"github.com/oksasatya/signal-subscription/pkg/response"
)

type PlanHandler struct {
	Subscriptions *application.SubscriptionService
	Errors        *Errors
}

func NewPlanHandler(subs *application.SubscriptionService, errs *Errors) *PlanHandler {
	return &PlanHandler{Subscriptions: subs, Errors: errs}
}

// List GET /api/plans
func (h *PlanHandler) List(c *gin.Context) {
	plans := h.Subscriptions.Plans()
	out := make([]planView, 0, len(plans))
	for _, p := range plans {
		out = append(out, toPlanView(p))
	}
	response.Send(c, response.Success(c, http.StatusOK, gin.H{"plans": out}, ""))
}

// Get GET /api/plans/:id
func (h *PlanHandler) Get(c *gin.Context) {
	p, err := h.Subscriptions.Plan(c.Param("id"))
	if err != nil {
		h.Errors.Respond(c, err)
		return
	}
	response.Send(c, response.Success(c, http.StatusOK, gin.H{"plan": toPlanView(p)}, ""))
}
