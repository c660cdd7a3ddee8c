package domain

import "time"

type PaymentMethod string

const (
	PaymentMethodCard PaymentMethod = "card"
	PaymentMethodBank PaymentMethod = "bank_transfer"
	PaymentMethodCash PaymentMethod = "cash"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case PaymentMethodCard, PaymentMethodBank, PaymentMethodCash:
		return PaymentMethod(s), nil
	}
	return "", NewValidationError("payment_method", "payment method must be one of: card, bank_transfer, cash")
}

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentExpired  PaymentStatus = "expired"
	PaymentCanceled PaymentStatus = "canceled"
)

// gatewayStatuses maps the gateway's status vocabulary onto ours.
// Anything the gateway says that we do not recognize is treated as
// still pending rather than rejected.
var gatewayStatuses = map[string]PaymentStatus{
	"paid":       PaymentPaid,
	"authorized": PaymentPaid,
	"pending":    PaymentPending,
	"open":       PaymentPending,
	"canceled":   PaymentCanceled,
	"expired":    PaymentExpired,
	"failed":     PaymentFailed,
}

// MapGatewayStatus translates a gateway-reported status string.
func MapGatewayStatus(s string) PaymentStatus {
	if status, ok := gatewayStatuses[s]; ok {
		return status
	}
	return PaymentPending
}

// ApplyGatewayStatus reconciles the order's payment state with the
// status just fetched from the gateway. It reports whether anything
// changed; applying the same status twice is a no-op. PaidAt is set
// only on the first transition into paid and never overwritten by
// repeated notifications.
func (o *Order) ApplyGatewayStatus(status PaymentStatus, now time.Time) bool {
	changed := false
	if o.PaymentStatus != status {
		o.PaymentStatus = status
		changed = true
	}
	if status == PaymentPaid && o.PaidAt == nil {
		paidAt := now
		o.PaidAt = &paidAt
		changed = true
	}
	return changed
}

// CanStartPayment guards online checkout creation: only card orders
// that are not already settled may open a checkout session.
func (o *Order) CanStartPayment() error {
	if o.PaymentMethod != PaymentMethodCard {
		return ErrConflict
	}
	if o.PaymentStatus == PaymentPaid {
		return ErrConflict
	}
	return nil
}

// InitialPaymentStatus is the payment state a fresh order starts in.
func InitialPaymentStatus(method PaymentMethod) PaymentStatus {
	if method == PaymentMethodCard {
		return PaymentPending
	}
	return PaymentUnpaid
}
