package interfaces

import (
	"context"

	"github.com/wincantonlogs/firewood/internal/domain"
)

// Commands carried from the HTTP layer into the services.

type CreateOrderCommand struct {
	CustomerName  string
	CustomerPhone string
	CustomerEmail *string
	AddressLine1  string
	AddressLine2  *string
	Town          string
	County        *string
	Postcode      string
	PreferredDay  *string
	DeliveryNotes *string
	PaymentMethod string
	Items         []CreateOrderItemCommand
}

type CreateOrderItemCommand struct {
	ProductID int
	Quantity  int
}

type CatalogService interface {
	ListProducts(ctx context.Context) ([]*domain.Product, error)
}

type OrderService interface {
	CreateOrder(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error)
	GetOrder(ctx context.Context, id int) (*domain.Order, error)
	// StartPayment opens a checkout session for a card order and
	// returns the URL the customer should be sent to.
	StartPayment(ctx context.Context, id int) (string, error)
}

type PaymentService interface {
	// HandleNotification reconciles payment state for the gateway
	// payment id delivered by a webhook.
	HandleNotification(ctx context.Context, paymentID string) error
}

// BulkResult reports per-id outcomes of a bulk operation. One failing
// id never prevents the others from being applied.
type BulkResult struct {
	Updated []int
	Failed  map[int]string
}

// DispatchGroup is one delivery zone's worth of loads going out.
type DispatchGroup struct {
	OutwardCode string
	Orders      []*domain.Order
}

type AdminService interface {
	ListOrders(ctx context.Context, filter ListOrdersFilter) ([]*domain.Order, error)
	GetOrder(ctx context.Context, id int) (*domain.Order, error)

	UpdateStatus(ctx context.Context, id int, status domain.Status) error
	CancelOrder(ctx context.Context, id int, reason *string) error
	RestoreOrder(ctx context.Context, id int) error
	ArchiveOrder(ctx context.Context, id int) error
	UnarchiveOrder(ctx context.Context, id int) error

	BulkCancel(ctx context.Context, ids []int, reason *string) BulkResult
	BulkRestore(ctx context.Context, ids []int) BulkResult
	BulkArchive(ctx context.Context, ids []int) BulkResult
	BulkUnarchive(ctx context.Context, ids []int) BulkResult

	AddNote(ctx context.Context, orderID int, note string, author *string) (*domain.HusbandryLog, error)
	ListNotes(ctx context.Context, orderID int) ([]*domain.HusbandryLog, error)

	DispatchList(ctx context.Context) ([]DispatchGroup, error)
}
