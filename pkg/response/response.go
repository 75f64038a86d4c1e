package response

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIResponse is the envelope every endpoint answers with. Data keys are
// flattened next to success and message, so {"user": ...} becomes
// {"success": true, "user": ...}.
type APIResponse struct {
	Status    int    `json:"-"`
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	Data      gin.H  `json:"-"`
	Errors    any    `json:"errors,omitempty"`
}

func (r APIResponse) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Data)+4)
	for k, v := range r.Data {
		out[k] = v
	}
	out["success"] = r.Success
	if r.Message != "" {
		out["message"] = r.Message
	}
	if r.RequestID != "" {
		out["request_id"] = r.RequestID
	}
	if r.Errors != nil {
		out["errors"] = r.Errors
	}
	return json.Marshal(out)
}

func Success(ctx *gin.Context, status int, data gin.H, message string) APIResponse {
	if status == 0 {
		status = http.StatusOK
	}
	return APIResponse{
		Status:    status,
		RequestID: ctx.GetString("request_id"),
		Success:   true,
		Message:   message,
		Data:      data,
	}
}

func Error(ctx *gin.Context, status int, message string, details any) APIResponse {
	if status == 0 {
		status = http.StatusBadRequest
	}
	return APIResponse{
		Status:    status,
		RequestID: ctx.GetString("request_id"),
		Success:   false,
		Message:   message,
		Errors:    details,
	}
}

// Send writes resp with its status.
func Send(ctx *gin.Context, resp APIResponse) {
	ctx.JSON(resp.Status, resp)
}

// Abort writes resp and stops the handler chain.
func Abort(ctx *gin.Context, resp APIResponse) {
	ctx.AbortWithStatusJSON(resp.Status, resp)
}
