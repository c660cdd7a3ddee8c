package mailer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wincantonlogs/firewood/internal/adapter/mailer"
	"github.com/wincantonlogs/firewood/internal/domain"
	"github.com/wincantonlogs/firewood/internal/interfaces"
)

func TestPounds(t *testing.T) {
	assert.Equal(t, "£45.50", mailer.Pounds(4550))
	assert.Equal(t, "£0.05", mailer.Pounds(5))
	assert.Equal(t, "£95.00", mailer.Pounds(9500))
	assert.Equal(t, "£0.00", mailer.Pounds(0))
}

func intentFixture() interfaces.NotificationIntent {
	return interfaces.NotificationIntent{
		Kind:         interfaces.NotificationOrderCreated,
		OrderID:      7,
		Reference:    "FW-20250901-001",
		CustomerName: "Jo Hartley",
		Postcode:     "BA9 8BW",
		Items: []interfaces.NotificationItem{
			{Name: "Seasoned hardwood, bulk bag", Quantity: 2, LineTotal: 19000},
			{Name: "Kindling net", Quantity: 1, LineTotal: 600},
		},
		Total: 19600,
	}
}

func TestRenderOrderConfirmation(t *testing.T) {
	email, err := mailer.RenderOrderConfirmation(intentFixture(), "jo@example.test")
	require.NoError(t, err)

	assert.Equal(t, "jo@example.test", email.To)
	assert.Equal(t, "Order FW-20250901-001 confirmed", email.Subject)
	assert.Contains(t, email.TextBody, "Jo Hartley")
	assert.Contains(t, email.TextBody, "2 x Seasoned hardwood, bulk bag")
	assert.Contains(t, email.TextBody, "£196.00")
	assert.Contains(t, email.HTMLBody, "BA9 8BW")
	assert.Contains(t, email.HTMLBody, "<strong>£196.00</strong>")
}

func TestRenderStaffNewOrder(t *testing.T) {
	email, err := mailer.RenderStaffNewOrder(intentFixture(), "orders@wincantonlogs.co.uk")
	require.NoError(t, err)

	assert.Equal(t, "New order FW-20250901-001: £196.00", email.Subject)
	assert.Contains(t, email.TextBody, "2 x Seasoned hardwood, bulk bag - £190.00")
	assert.Contains(t, email.TextBody, "(BA9 8BW)")
}

func TestRenderStatusChange(t *testing.T) {
	intent := intentFixture()
	intent.Kind = interfaces.NotificationStatusChanged
	intent.OldStatus = domain.StatusPaid
	intent.NewStatus = domain.StatusOFD

	email, err := mailer.RenderStatusChange(intent, "jo@example.test")
	require.NoError(t, err)

	assert.Equal(t, "Order FW-20250901-001 update: out for delivery", email.Subject)
	assert.Contains(t, email.TextBody, "is now out for delivery")
	assert.NotContains(t, email.TextBody, "out_for_delivery", "raw enum never leaks into email copy")
}
