package domain

import (
	"strings"
	"time"
)

// Customer holds who ordered and how to reach them. Email is optional;
// orders without one simply get no customer notifications.
type Customer struct {
	Name  string
	Phone string
	Email *string
}

// DeliveryAddress is where the load gets dropped.
type DeliveryAddress struct {
	Line1    string
	Line2    *string
	Town     string
	County   *string
	Postcode string
}

// Order is the persisted aggregate: customer and delivery details, the
// snapshotted line items, the computed totals, and the two independent
// state tracks (fulfillment status and payment status).
type Order struct {
	ID        int
	Reference string
	CreatedAt time.Time

	Customer Customer
	Address  DeliveryAddress

	PreferredDay  *string
	DeliveryNotes *string

	Items       []OrderItem
	Subtotal    int
	DeliveryFee int
	Total       int

	Status       Status
	CancelledAt  *time.Time
	CancelReason *string
	ArchivedAt   *time.Time

	PaymentMethod PaymentMethod
	PaymentStatus PaymentStatus
	PaymentID     *string
	CheckoutURL   *string
	PaidAt        *time.Time
}

// OrderItem snapshots a product at order time. Name and unit price are
// copied from the catalog row and never recalculated afterwards.
type OrderItem struct {
	ID        int
	OrderID   int
	ProductID int
	Name      string
	UnitPrice int
	Quantity  int
	LineTotal int
}

// NewOrder builds a validated, fully priced order. The cart is priced
// against live catalog rows and the result snapshotted onto the items.
func NewOrder(customer Customer, address DeliveryAddress, lines []CartLine, products map[int]*Product, table FeeTable, method PaymentMethod) (*Order, error) {
	if strings.TrimSpace(customer.Name) == "" {
		return nil, NewValidationError("customer_name", "customer name is required")
	}
	if strings.TrimSpace(customer.Phone) == "" {
		return nil, NewValidationError("customer_phone", "customer phone is required")
	}
	if strings.TrimSpace(address.Line1) == "" {
		return nil, NewValidationError("address_line1", "address is required")
	}
	if strings.TrimSpace(address.Town) == "" {
		return nil, NewValidationError("town", "town is required")
	}
	if strings.TrimSpace(address.Postcode) == "" {
		return nil, NewValidationError("postcode", "postcode is required")
	}

	address.Postcode = NormalizePostcode(address.Postcode)

	quote, err := PriceCart(lines, products, table, address.Postcode)
	if err != nil {
		return nil, err
	}

	items := make([]OrderItem, len(lines))
	for i, line := range lines {
		product := products[line.ProductID]
		items[i] = OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  line.Quantity,
			LineTotal: product.Price * line.Quantity,
		}
	}

	return &Order{
		CreatedAt:     time.Now(),
		Customer:      customer,
		Address:       address,
		Items:         items,
		Subtotal:      quote.Subtotal,
		DeliveryFee:   quote.DeliveryFee,
		Total:         quote.Total,
		Status:        StatusNew,
		PaymentMethod: method,
		PaymentStatus: InitialPaymentStatus(method),
	}, nil
}

// validTransitions drives the fulfillment state machine. Cancellation
// is reachable from every non-terminal state; restore is handled
// separately because it also clears the cancellation record.
var validTransitions = map[Status][]Status{
	StatusNew:  {StatusPaid, StatusOFD, StatusCancelled},
	StatusPaid: {StatusOFD, StatusDelivered, StatusCancelled},
	StatusOFD:  {StatusDelivered, StatusCancelled},
}

// CanTransitionTo checks whether staff may move the order to newStatus.
func (o *Order) CanTransitionTo(newStatus Status) bool {
	if o.Status.IsTerminal() {
		return false
	}
	for _, s := range validTransitions[o.Status] {
		if s == newStatus {
			return true
		}
	}
	return false
}

// TransitionTo moves the order to newStatus, recording cancellation
// details when the target is cancelled.
func (o *Order) TransitionTo(newStatus Status, now time.Time) error {
	if newStatus == StatusCancelled {
		return o.Cancel(nil, now)
	}
	if !o.CanTransitionTo(newStatus) {
		return ErrInvalidStatusTransition
	}
	o.Status = newStatus
	return nil
}

// Cancel marks the order cancelled with an optional free-text reason.
func (o *Order) Cancel(reason *string, now time.Time) error {
	if !o.CanTransitionTo(StatusCancelled) {
		return ErrInvalidStatusTransition
	}
	o.Status = StatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	return nil
}

// Restore returns a cancelled order to new. The state it held before
// cancellation is deliberately not reconstructed.
func (o *Order) Restore() error {
	if o.Status != StatusCancelled {
		return ErrInvalidStatusTransition
	}
	o.Status = StatusNew
	o.CancelledAt = nil
	o.CancelReason = nil
	return nil
}

// Archive hides the order from default views. It never touches status
// or payment fields; archiving an already-archived order is a no-op.
func (o *Order) Archive(now time.Time) {
	if o.ArchivedAt == nil {
		o.ArchivedAt = &now
	}
}

func (o *Order) Unarchive() {
	o.ArchivedAt = nil
}
