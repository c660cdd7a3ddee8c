package admin

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/wincantonlogs/firewood/internal/adapter/logger"
	"github.com/wincantonlogs/firewood/internal/domain"
	"github.com/wincantonlogs/firewood/internal/interfaces"
)

// Service drives the staff side: fulfillment transitions, cancel and
// restore, archiving, husbandry notes and the dispatch view. Every
// single-order write is one atomic row update; bulk variants apply the
// same semantics per id with no all-or-nothing rollback across the set.
type Service struct {
	orders    interfaces.OrderRepository
	husbandry interfaces.HusbandryRepository
	publisher interfaces.NotificationPublisher
	logger    logger.Logger
	now       func() time.Time
}

func NewService(
	orders interfaces.OrderRepository,
	husbandry interfaces.HusbandryRepository,
	publisher interfaces.NotificationPublisher,
	logger logger.Logger,
) *Service {
	return &Service{
		orders:    orders,
		husbandry: husbandry,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Service) ListOrders(ctx context.Context, filter interfaces.ListOrdersFilter) ([]*domain.Order, error) {
	return s.orders.List(ctx, filter)
}

func (s *Service) GetOrder(ctx context.Context, id int) (*domain.Order, error) {
	return s.orders.FindByID(ctx, id)
}

// UpdateStatus applies a staff-driven fulfillment transition and emits
// a status-changed notification intent. Intent publication is
// best-effort: a dead broker never rolls back a committed transition.
func (s *Service) UpdateStatus(ctx context.Context, id int, status domain.Status) error {
	ord, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return err
	}

	oldStatus := ord.Status
	if err := ord.TransitionTo(status, s.now()); err != nil {
		return err
	}

	if err := s.orders.UpdateStatus(ctx, ord); err != nil {
		return err
	}

	s.publishStatusChanged(ctx, ord, oldStatus)
	return nil
}

func (s *Service) CancelOrder(ctx context.Context, id int, reason *string) error {
	ord, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return err
	}

	oldStatus := ord.Status
	if err := ord.Cancel(reason, s.now()); err != nil {
		return err
	}

	if err := s.orders.UpdateStatus(ctx, ord); err != nil {
		return err
	}

	s.publishStatusChanged(ctx, ord, oldStatus)
	return nil
}

// RestoreOrder returns a cancelled order to new, clearing the
// cancellation timestamp and reason. No notification is sent: restore
// is an internal correction, not a customer-facing event.
func (s *Service) RestoreOrder(ctx context.Context, id int) error {
	ord, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := ord.Restore(); err != nil {
		return err
	}

	return s.orders.UpdateStatus(ctx, ord)
}

// ArchiveOrder goes through the aggregate so re-archiving keeps the
// original timestamp instead of stamping a new one.
func (s *Service) ArchiveOrder(ctx context.Context, id int) error {
	ord, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return err
	}

	ord.Archive(s.now())
	return s.orders.UpdateArchived(ctx, id, ord.ArchivedAt)
}

func (s *Service) UnarchiveOrder(ctx context.Context, id int) error {
	ord, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return err
	}

	ord.Unarchive()
	return s.orders.UpdateArchived(ctx, id, ord.ArchivedAt)
}

func (s *Service) BulkCancel(ctx context.Context, ids []int, reason *string) interfaces.BulkResult {
	return s.applyBulk(ids, func(id int) error {
		return s.CancelOrder(ctx, id, reason)
	})
}

func (s *Service) BulkRestore(ctx context.Context, ids []int) interfaces.BulkResult {
	return s.applyBulk(ids, func(id int) error {
		return s.RestoreOrder(ctx, id)
	})
}

func (s *Service) BulkArchive(ctx context.Context, ids []int) interfaces.BulkResult {
	return s.applyBulk(ids, func(id int) error {
		return s.ArchiveOrder(ctx, id)
	})
}

func (s *Service) BulkUnarchive(ctx context.Context, ids []int) interfaces.BulkResult {
	return s.applyBulk(ids, func(id int) error {
		return s.UnarchiveOrder(ctx, id)
	})
}

// applyBulk runs op per id, collecting per-id outcomes. A failure on
// one id never stops the rest.
func (s *Service) applyBulk(ids []int, op func(id int) error) interfaces.BulkResult {
	result := interfaces.BulkResult{Failed: make(map[int]string)}
	for _, id := range ids {
		if err := op(id); err != nil {
			s.logger.Error("bulk_update_failed", "Bulk update failed for order", "", map[string]interface{}{
				"order_id": id,
			}, err)
			result.Failed[id] = err.Error()
			continue
		}
		result.Updated = append(result.Updated, id)
	}
	return result
}

func (s *Service) AddNote(ctx context.Context, orderID int, note string, author *string) (*domain.HusbandryLog, error) {
	if _, err := s.orders.FindByID(ctx, orderID); err != nil {
		return nil, err
	}

	entry, err := domain.NewHusbandryLog(orderID, note, author)
	if err != nil {
		return nil, err
	}

	if err := s.husbandry.Create(ctx, entry); err != nil {
		return nil, err
	}

	return entry, nil
}

func (s *Service) ListNotes(ctx context.Context, orderID int) ([]*domain.HusbandryLog, error) {
	if _, err := s.orders.FindByID(ctx, orderID); err != nil {
		return nil, err
	}
	return s.husbandry.ListByOrder(ctx, orderID)
}

// DispatchList groups out-for-delivery orders by outward code so loads
// heading the same way end up on the same run. Groups come back in
// alphabetical order, orders within a group oldest first.
func (s *Service) DispatchList(ctx context.Context) ([]interfaces.DispatchGroup, error) {
	status := domain.StatusOFD
	orders, err := s.orders.List(ctx, interfaces.ListOrdersFilter{Status: &status})
	if err != nil {
		return nil, err
	}

	byZone := make(map[string][]*domain.Order)
	for _, ord := range orders {
		zone := domain.OutwardCode(ord.Address.Postcode)
		byZone[zone] = append(byZone[zone], ord)
	}

	groups := make([]interfaces.DispatchGroup, 0, len(byZone))
	for zone, zoneOrders := range byZone {
		sort.Slice(zoneOrders, func(i, j int) bool {
			return zoneOrders[i].CreatedAt.Before(zoneOrders[j].CreatedAt)
		})
		groups = append(groups, interfaces.DispatchGroup{OutwardCode: zone, Orders: zoneOrders})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].OutwardCode < groups[j].OutwardCode
	})

	return groups, nil
}

func (s *Service) publishStatusChanged(ctx context.Context, ord *domain.Order, oldStatus domain.Status) {
	intent := interfaces.NotificationIntent{
		IntentID:      uuid.NewString(),
		Kind:          interfaces.NotificationStatusChanged,
		OrderID:       ord.ID,
		Reference:     ord.Reference,
		CustomerName:  ord.Customer.Name,
		CustomerEmail: ord.Customer.Email,
		Postcode:      ord.Address.Postcode,
		Total:         ord.Total,
		OldStatus:     oldStatus,
		NewStatus:     ord.Status,
	}

	if err := s.publisher.PublishNotification(ctx, intent); err != nil {
		s.logger.Error("intent_publish_failed", "Failed to publish status-changed intent", "", map[string]interface{}{
			"reference":  ord.Reference,
			"new_status": ord.Status,
		}, err)
	}
}
