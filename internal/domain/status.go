package domain

// Status is the staff-driven fulfillment state of an order.
type Status string

const (
	StatusNew       Status = "new"
	StatusPaid      Status = "paid"
	StatusOFD       Status = "out_for_delivery"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusNew, StatusPaid, StatusOFD, StatusDelivered, StatusCancelled:
		return Status(s), nil
	}
	return "", NewValidationError("status", "status must be one of: new, paid, out_for_delivery, delivered, cancelled")
}

// IsTerminal reports whether no further staff transition is allowed.
// Cancelled is terminal for transitions; restore is a separate path
// that also clears the cancellation record.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}
