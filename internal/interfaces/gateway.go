package interfaces

import "context"

// CreatePaymentRequest describes an outbound "create payment" call.
// Amount is integer pence; the gateway wire format is the client's
// concern.
type CreatePaymentRequest struct {
	Amount      int
	Currency    string
	Description string
	RedirectURL string
	WebhookURL  string
	OrderID     int
}

// GatewayPayment is the gateway's view of a payment. OrderID is
// recovered from the metadata the create call attached; it is nil when
// the gateway record carries none.
type GatewayPayment struct {
	ID          string
	Status      string
	CheckoutURL string
	OrderID     *int
}

type PaymentGateway interface {
	CreatePayment(ctx context.Context, req CreatePaymentRequest) (*GatewayPayment, error)
	GetPayment(ctx context.Context, id string) (*GatewayPayment, error)
}

// Email is a rendered outbound message.
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

type Mailer interface {
	Send(ctx context.Context, email Email) error
}
