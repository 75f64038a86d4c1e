package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var branding = Branding{AppName: "signals", CompanyName: "Signal Desk", FrontendURL: "https://app.example"}

func TestEveryTemplateRenders(t *testing.T) {
	for _, name := range []string{Welcome, ForgotPassword, PurchaseConfirmation, ExpiryWarning, ContactForm} {
		t.Run(name, func(t *testing.T) {
			data := NewEmailData(branding, name, "Alice", "alice@example.com")
			subject, text, html, err := Render(name, data)
			require.NoError(t, err)
			assert.NotEmpty(t, subject)
			assert.NotContains(t, subject, "\n")
			assert.NotEmpty(t, text)
			assert.Contains(t, html, "<html>")
		})
	}
}

func TestExpiryWarningPluralizes(t *testing.T) {
	one := NewEmailData(branding, ExpiryWarning, "Alice", "alice@example.com", WithDaysRemaining(1))
	subject, _, _, err := Render(ExpiryWarning, one)
	require.NoError(t, err)
	assert.Equal(t, "Your subscription expires in 1 day", subject)

	six := NewEmailData(branding, ExpiryWarning, "Alice", "alice@example.com",
		WithDaysRemaining(6),
		WithRenewalURL("https://app.example/plans"),
		WithPlan("Starter", "₹999", "01 March 2026", "31 March 2026"),
	)
	subject, text, _, err := Render(ExpiryWarning, six)
	require.NoError(t, err)
	assert.Equal(t, "Your subscription expires in 6 days", subject)
	assert.Contains(t, text, "https://app.example/plans")
	assert.Contains(t, text, "31 March 2026")
}

func TestHTMLEscapesContactMessage(t *testing.T) {
	data := NewEmailData(branding, ContactForm, "Support", "support@example.com",
		WithContact("Mallory", "m@example.com", "hi", "<script>alert(1)</script>"))
	_, text, html, err := Render(ContactForm, data)
	require.NoError(t, err)
	assert.Contains(t, text, "<script>")
	assert.NotContains(t, html, "<script>")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, _, err := Render("nope", nil)
	assert.Error(t, err)
}
