package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/signal-subscription/internal/application"
	"github.com/oksasatya/signal-subscription/pkg/helpers"
	"github.com/oksasatya/signal-subscription/pkg/response"
	"github.com/oksasatya/signal-subscription/pkg/validation"
)

// Errors renders application errors as envelopes.
type Errors struct {
	Cookies *helpers.CookieManager
	Logger  *logrus.Logger
	// HideInternal keeps the causes of internal errors out of responses.
	HideInternal bool
}

func (e *Errors) build(c *gin.Context, err error) response.APIResponse {
	kind := application.KindOf(err)
	if kind.IsAuthFailure() && e.Cookies != nil {
		e.Cookies.Clear(c)
	}

	msg := "internal server error"
	var details any
	var ae *application.Error
	if errors.As(err, &ae) {
		msg = ae.Message
	}
	if kind == application.KindInternal || kind == application.KindGatewayMisconfigured || kind == application.KindGateway {
		e.Logger.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
		}).Error("request failed")
		if kind == application.KindInternal && !e.HideInternal {
			details = err.Error()
		}
	}
	return response.Error(c, kind.Status(), msg, details)
}

// Respond writes err as the response.
func (e *Errors) Respond(c *gin.Context, err error) {
	response.Send(c, e.build(c, err))
}

// Abort writes err and stops the chain; used as the middleware failure hook.
func (e *Errors) Abort(c *gin.Context, err error) {
	response.Abort(c, e.build(c, err))
}

// BadRequest answers a binding failure with per-field details.
func (e *Errors) BadRequest(c *gin.Context, err error) {
	details := validation.ToDetails(err)
	msg := validation.FirstMessage(details)
	if msg == "" {
		msg = "Invalid request payload"
	}
	response.Send(c, response.Error(c, http.StatusBadRequest, msg, details))
}
