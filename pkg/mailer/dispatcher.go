package mailer

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/signal-subscription/pkg/mailer/templates"
)

// Dispatcher hands an email job to whatever delivers it.
type Dispatcher interface {
	Dispatch(ctx context.Context, job EmailJob) error
}

// JSONPublisher is satisfied by helpers.RabbitPublisher.
type JSONPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// QueueDispatcher enqueues jobs for the email worker.
type QueueDispatcher struct {
	Publisher JSONPublisher
}

func (d QueueDispatcher) Dispatch(ctx context.Context, job EmailJob) error {
	if err := job.Normalize(); err != nil {
		return err
	}
	return d.Publisher.PublishJSON(ctx, job)
}

// DirectDispatcher renders and sends inline; used when no queue is configured.
type DirectDispatcher struct {
	Sender Sender
}

func (d DirectDispatcher) Dispatch(ctx context.Context, job EmailJob) error {
	msg, err := Compose(job)
	if err != nil {
		return err
	}
	return d.Sender.Send(ctx, msg)
}

// NoopDispatcher logs and drops jobs when MAIL_SEND_ENABLED=false.
type NoopDispatcher struct {
	Logger *logrus.Logger
}

func (d NoopDispatcher) Dispatch(_ context.Context, job EmailJob) error {
	if d.Logger != nil {
		d.Logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template}).Debug("email sending disabled; job dropped")
	}
	return nil
}

// Compose normalizes job and renders its template, if any, into a Message.
func Compose(job EmailJob) (Message, error) {
	if err := job.Normalize(); err != nil {
		return Message{}, err
	}
	msg := Message{To: job.To, ReplyTo: job.ReplyTo, Subject: job.Subject, Text: job.Text, HTML: job.HTML}
	if job.Template == "" {
		return msg, nil
	}
	subject, text, html, err := templates.Render(job.Template, job.Data)
	if err != nil {
		return Message{}, fmt.Errorf("render %s: %w", job.Template, err)
	}
	msg.Subject, msg.Text, msg.HTML = subject, text, html
	return msg, nil
}
