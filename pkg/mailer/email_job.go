package mailer

import (
	"errors"
	"fmt"
	"strings"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Template (+Data) or Subject with Text/HTML must be set.
type EmailJob struct {
	To       string         `json:"to"`
	ReplyTo  string         `json:"replyTo,omitempty"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // e.g. "welcome", "forgot_password", "expiry_warning"
	Data     map[string]any `json:"data,omitempty"`
}

var ErrInvalidJob = errors.New("invalid email job")

// Normalize fills recipient fields templates rely on and rejects jobs that
// cannot produce a message.
func (j *EmailJob) Normalize() error {
	j.To = strings.TrimSpace(j.To)
	if j.To == "" {
		return fmt.Errorf("%w: missing recipient", ErrInvalidJob)
	}
	if j.Template == "" && (j.Subject == "" || (j.Text == "" && j.HTML == "")) {
		return fmt.Errorf("%w: template or subject with body required", ErrInvalidJob)
	}
	if j.Data == nil {
		j.Data = map[string]any{}
	}
	if v, ok := j.Data["RecipientEmail"]; !ok || fmt.Sprintf("%v", v) == "" {
		j.Data["RecipientEmail"] = j.To
	}
	return nil
}
