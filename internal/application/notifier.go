package application

import (
	"context"
	"time"

	"github.com/oksasatya/signal-subscription/internal/domain/entity"
	"github.com/oksasatya/signal-subscription/pkg/helpers"
	"github.com/oksasatya/signal-subscription/pkg/mailer"
	tpl "github.com/oksasatya/signal-subscription/pkg/mailer/templates"
)

// ContactMessage is a submission of the public contact form.
type ContactMessage struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// Notifier sends the transactional emails. Callers treat every error as
// non-fatal for the operation that triggered it.
type Notifier interface {
	Welcome(ctx context.Context, a *entity.Account) error
	PasswordReset(ctx context.Context, a *entity.Account, resetURL string, expiresAt time.Time) error
	PurchaseConfirmation(ctx context.Context, a *entity.Account, ent entity.Entitlement) error
	ExpiryWarning(ctx context.Context, a *entity.Account, daysRemaining int) error
	Contact(ctx context.Context, msg ContactMessage) error
}

// MailSettings are the branding and addresses used to build emails.
type MailSettings struct {
	Branding     tpl.Branding
	SupportEmail string
	RenewalURL   string
	Location     *time.Location
}

// MailNotifier turns notifications into email jobs for a mailer.Dispatcher.
type MailNotifier struct {
	dispatcher mailer.Dispatcher
	settings   MailSettings
}

func NewMailNotifier(d mailer.Dispatcher, s MailSettings) *MailNotifier {
	if s.Location == nil {
		s.Location = time.UTC
	}
	return &MailNotifier{dispatcher: d, settings: s}
}

func (n *MailNotifier) send(ctx context.Context, to, template string, data map[string]any, replyTo string) error {
	err := n.dispatcher.Dispatch(ctx, mailer.EmailJob{To: to, ReplyTo: replyTo, Template: template, Data: data})
	emailsTotal.WithLabelValues(template, outcome(err)).Inc()
	return err
}

func (n *MailNotifier) Welcome(ctx context.Context, a *entity.Account) error {
	data := tpl.NewEmailData(n.settings.Branding, tpl.Welcome, a.Name, a.Email)
	return n.send(ctx, a.Email, tpl.Welcome, data, "")
}

func (n *MailNotifier) PasswordReset(ctx context.Context, a *entity.Account, resetURL string, expiresAt time.Time) error {
	data := tpl.NewEmailData(n.settings.Branding, tpl.ForgotPassword, a.Name, a.Email,
		tpl.WithResetURL(resetURL),
		tpl.WithExpiresAtText(helpers.FormatDateTime(expiresAt, n.settings.Location)),
	)
	return n.send(ctx, a.Email, tpl.ForgotPassword, data, "")
}

func (n *MailNotifier) PurchaseConfirmation(ctx context.Context, a *entity.Account, ent entity.Entitlement) error {
	loc := n.settings.Location
	data := tpl.NewEmailData(n.settings.Branding, tpl.PurchaseConfirmation, a.Name, a.Email,
		tpl.WithPlan(ent.Name, helpers.FormatPaise(ent.Price), helpers.FormatDate(ent.StartDate, loc), helpers.FormatDate(ent.EndDate, loc)),
		tpl.WithPayment(ent.OrderID, ent.PaymentID),
	)
	return n.send(ctx, a.Email, tpl.PurchaseConfirmation, data, "")
}

func (n *MailNotifier) ExpiryWarning(ctx context.Context, a *entity.Account, daysRemaining int) error {
	opts := []tpl.Option{tpl.WithDaysRemaining(daysRemaining), tpl.WithRenewalURL(n.settings.RenewalURL)}
	if ent := a.ActivePlan; ent != nil {
		loc := n.settings.Location
		opts = append(opts, tpl.WithPlan(ent.Name, helpers.FormatPaise(ent.Price), helpers.FormatDate(ent.StartDate, loc), helpers.FormatDate(ent.EndDate, loc)))
	}
	data := tpl.NewEmailData(n.settings.Branding, tpl.ExpiryWarning, a.Name, a.Email, opts...)
	return n.send(ctx, a.Email, tpl.ExpiryWarning, data, "")
}

// Contact forwards the message to the support inbox with Reply-To set to the sender.
func (n *MailNotifier) Contact(ctx context.Context, msg ContactMessage) error {
	data := tpl.NewEmailData(n.settings.Branding, tpl.ContactForm, "Support", n.settings.SupportEmail,
		tpl.WithContact(msg.Name, msg.Email, msg.Subject, msg.Message))
	return n.send(ctx, n.settings.SupportEmail, tpl.ContactForm, data, msg.Email)
}
