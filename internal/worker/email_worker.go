// Package worker consumes queued email jobs and delivers them through a
// mailer.Sender.
package worker

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/signal-subscription/pkg/mailer"
)

// Outcome says what to do with a delivery after handling it.
type Outcome int

const (
	Ack Outcome = iota
	// Drop rejects a message that can never succeed.
	Drop
	// Requeue puts the message back for one more attempt.
	Requeue
)

func (o Outcome) String() string {
	switch o {
	case Ack:
		return "ack"
	case Drop:
		return "drop"
	default:
		return "requeue"
	}
}

// EmailWorker renders and sends one EmailJob per message.
type EmailWorker struct {
	Sender      mailer.Sender
	Logger      *logrus.Logger
	SendTimeout time.Duration
}

func NewEmailWorker(sender mailer.Sender, logger *logrus.Logger) *EmailWorker {
	return &EmailWorker{Sender: sender, Logger: logger, SendTimeout: 15 * time.Second}
}

// Handle processes one message body. A failed send is retried once; a
// redelivered message that fails again is dropped.
func (w *EmailWorker) Handle(ctx context.Context, body []byte, redelivered bool) Outcome {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		w.Logger.WithError(err).Warn("email worker: bad message")
		return Drop
	}
	msg, err := mailer.Compose(job)
	if err != nil {
		w.Logger.WithError(err).WithField("template", job.Template).Warn("email worker: cannot render job")
		return Drop
	}

	c, cancel := context.WithTimeout(ctx, w.SendTimeout)
	defer cancel()
	if err := w.Sender.Send(c, msg); err != nil {
		entry := w.Logger.WithError(err).WithFields(logrus.Fields{"to": msg.To, "template": job.Template})
		if redelivered {
			entry.Error("email worker: send failed again, dropping")
			return Drop
		}
		entry.Warn("email worker: send failed, requeueing")
		return Requeue
	}
	w.Logger.WithFields(logrus.Fields{"to": msg.To, "template": job.Template}).Debug("email sent")
	return Ack
}

// Run consumes deliveries until ctx is done or the channel closes.
func (w *EmailWorker) Run(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				return
			}
			switch w.Handle(ctx, d.Body, d.Redelivered) {
			case Ack:
				_ = d.Ack(false)
			case Drop:
				_ = d.Nack(false, false)
			case Requeue:
				_ = d.Nack(false, true)
			}
		}
	}
}
