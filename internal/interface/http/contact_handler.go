package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/signal-subscription/internal/application"
	"github.com/oksasatya/signal-subscription/pkg/response"
)

type ContactHandler struct {
	Accounts *application.AccountService
	Errors   *Errors
}

func NewContactHandler(accounts *application.AccountService, errs *Errors) *ContactHandler {
	return &ContactHandler{Accounts: accounts, Errors: errs}
}

type contactRequest struct {
	Name    string `json:"name" binding:"required,max=120"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"required,max=200"`
	Message string `json:"message" binding:"required,max=5000"`
}

// Send POST /api/contact forwards the form to the support inbox.
func (h *ContactHandler) Send(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Errors.BadRequest(c, err)
		return
	}
	err := h.Accounts.Contact(c.Request.Context(), application.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		h.Errors.Respond(c, err)
		return
	}
	response.Send(c, response.Success(c, http.StatusOK, nil, "Message sent successfully! We will get back to you soon."))
}
