package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/signal-subscription/pkg/response"
)

// Recovery turns a panic into a 500 envelope. The panic value is only
// echoed to clients when showDetails is set.
func Recovery(logger *logrus.Logger, showDetails bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			logger.WithFields(logrus.Fields{
				"request_id": c.GetString("request_id"),
				"path":       c.Request.URL.Path,
				"panic":      rec,
				"stack":      string(debug.Stack()),
			}).Error("panic recovered")

			var details any
			if showDetails {
				details = fmt.Sprint(rec)
			}
			response.Abort(c, response.Error(c, http.StatusInternalServerError, "internal server error", details))
		}()
		c.Next()
	}
}
