package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/signal-subscription/internal/application"
	"github.com/oksasatya/signal-subscription/pkg/helpers"
	"github.com/oksasatya/signal-subscription/pkg/response"
)

type AuthHandler struct {
	Auth     *application.AuthService
	Accounts *application.AccountService
	Cookies  *helpers.CookieManager
	Errors   *Errors
}

func NewAuthHandler(auth *application.AuthService, accounts *application.AccountService, cookies *helpers.CookieManager, errs *Errors) *AuthHandler {
	return &AuthHandler{Auth: auth, Accounts: accounts, Cookies: cookies, Errors: errs}
}

type signupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type resetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,pwd"`
}

// Signup POST /api/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Errors.BadRequest(c, err)
		return
	}
	acc, tok, err := h.Auth.Signup(c.Request.Context(), application.SignupInput{Name: req.Name, Email: req.Email, Password: req.Password})
	if err != nil {
		h.Errors.Respond(c, err)
		return
	}
	h.Cookies.SetSession(c, tok.Token, tok.ExpiresAt)
	response.Send(c, response.Success(c, http.StatusCreated, gin.H{
		"user":  toUserView(acc, h.Accounts.View(acc)),
		"token": tok.Token,
	}, "Account created successfully"))
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Errors.BadRequest(c, err)
		return
	}
	acc, tok, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.Errors.Respond(c, err)
		return
	}
	h.Cookies.SetSession(c, tok.Token, tok.ExpiresAt)
	response.Send(c, response.Success(c, http.StatusOK, gin.H{
		"user":  toUserView(acc, h.Accounts.View(acc)),
		"token": tok.Token,
	}, "Login successful"))
}

// Me GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context, p *application.Principal) {
	response.Send(c, response.Success(c, http.StatusOK, gin.H{
		"user": toUserView(p.Account, h.Accounts.View(p.Account)),
	}, ""))
}

// Logout POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context, p *application.Principal) {
	if err := h.Auth.Logout(c.Request.Context(), p); err != nil {
		h.Errors.Respond(c, err)
		return
	}
	h.Cookies.Clear(c)
	response.Send(c, response.Success(c, http.StatusOK, nil, "Logged out successfully"))
}

// ForgotPassword POST /api/auth/forgot-password. The answer is the same
// whether or not the email is registered.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Errors.BadRequest(c, err)
		return
	}
	if err := h.Auth.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		h.Errors.Respond(c, err)
		return
	}
	response.Send(c, response.Success(c, http.StatusOK, nil, "If an account exists with this email, a password reset link has been sent"))
}

// ResetPassword POST /api/auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Errors.BadRequest(c, err)
		return
	}
	if err := h.Auth.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		h.Errors.Respond(c, err)
		return
	}
	response.Send(c, response.Success(c, http.StatusOK, nil, "Password has been reset successfully"))
}
