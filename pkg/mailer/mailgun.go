package mailer

import (
	"context"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

// Sender delivers one rendered message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type Message struct {
	To      string
	ReplyTo string
	Subject string
	Text    string
	HTML    string
}

// Mailgun wraps Mailgun client configuration.
type Mailgun struct {
	Domain  string
	Sender  string
	client  *mg.MailgunImpl
	timeout time.Duration
}

func NewMailgun(domain, apiKey, sender string) *Mailgun {
	return &Mailgun{
		Domain:  domain,
		Sender:  sender,
		client:  mg.NewMailgun(domain, apiKey),
		timeout: 10 * time.Second,
	}
}

// Configured reports whether all Mailgun settings are present.
func (m *Mailgun) Configured() bool {
	return m != nil && m.Domain != "" && m.Sender != "" && m.client.APIKey() != ""
}

// Send sends an email via Mailgun. HTML is optional; if provided it will be used as HTML body.
func (m *Mailgun) Send(ctx context.Context, msg Message) error {
	message := m.client.NewMessage(m.Sender, msg.Subject, msg.Text, msg.To)
	if msg.HTML != "" {
		message.SetHtml(msg.HTML)
	}
	if msg.ReplyTo != "" {
		message.SetReplyTo(msg.ReplyTo)
	}
	c, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	_, _, err := m.client.Send(c, message)
	return err
}
