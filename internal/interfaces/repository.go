package interfaces

import (
	"context"
	"time"

	"github.com/wincantonlogs/firewood/internal/domain"
)

// ListOrdersFilter narrows admin order listings. Archived orders are
// hidden unless explicitly asked for.
type ListOrdersFilter struct {
	Status          *domain.Status
	IncludeArchived bool
}

type ProductRepository interface {
	ListActive(ctx context.Context) ([]*domain.Product, error)
	FindActiveByIDs(ctx context.Context, ids []int) (map[int]*domain.Product, error)
}

type OrderRepository interface {
	// Create persists the order and its items in one transaction.
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id int) (*domain.Order, error)
	List(ctx context.Context, filter ListOrdersFilter) ([]*domain.Order, error)
	GenerateReference(ctx context.Context) (string, error)

	// UpdateStatus writes status, cancelled_at and cancel_reason.
	UpdateStatus(ctx context.Context, order *domain.Order) error
	// UpdateArchived writes only archived_at.
	UpdateArchived(ctx context.Context, orderID int, archivedAt *time.Time) error
	// UpdatePayment writes payment_status, payment_id, checkout_url
	// and paid_at.
	UpdatePayment(ctx context.Context, order *domain.Order) error
}

type HusbandryRepository interface {
	Create(ctx context.Context, entry *domain.HusbandryLog) error
	// ListByOrder returns entries newest-first.
	ListByOrder(ctx context.Context, orderID int) ([]*domain.HusbandryLog, error)
}
