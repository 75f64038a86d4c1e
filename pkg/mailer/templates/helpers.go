package templates

// Option pattern
type Option func(*EmailData)

// Branding carries the company fields shared by every email.
type Branding struct {
	AppName     string
	CompanyName string
	SupportURL  string
	FrontendURL string
}

func WithResetURL(url string) Option { return func(d *EmailData) { d.ResetURL = url } }
func WithRenewalURL(url string) Option {
	return func(d *EmailData) { d.RenewalURL = url }
}
func WithExpiresAtText(s string) Option { return func(d *EmailData) { d.ExpiresAtText = s } }
func WithDaysRemaining(n int) Option     { return func(d *EmailData) { d.DaysRemaining = n } }

// WithPlan fills the subscription block; dates are pre-formatted by the caller.
func WithPlan(name, price, start, end string) Option {
	return func(d *EmailData) {
		d.PlanName = name
		d.PlanPrice = price
		d.StartDateText = start
		d.EndDateText = end
	}
}

func WithPayment(orderID, paymentID string) Option {
	return func(d *EmailData) {
		d.OrderID = orderID
		d.PaymentID = paymentID
	}
}

func WithContact(name, email, subject, message string) Option {
	return func(d *EmailData) {
		d.ContactName = name
		d.ContactEmail = email
		d.Subject = subject
		d.Message = message
	}
}

// NewEmailData fills branding and recipient fields, then applies opts.
func NewEmailData(b Branding, typ, name, recipient string, opts ...Option) map[string]any {
	d := EmailData{
		Name:           name,
		Email:          recipient,
		RecipientEmail: recipient,
		Type:           typ,

		AppName:     b.AppName,
		CompanyName: b.CompanyName,
		SupportURL:  b.SupportURL,
		FrontendURL: b.FrontendURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return ToMap(d)
}
