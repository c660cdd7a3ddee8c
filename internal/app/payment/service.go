package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wincantonlogs/firewood/internal/adapter/logger"
	"github.com/wincantonlogs/firewood/internal/domain"
	"github.com/wincantonlogs/firewood/internal/interfaces"
)

// Service reconciles local payment state with the gateway. Webhook
// notifications are unauthenticated, so the payload is never trusted:
// the payment is always re-fetched from the gateway by id, and the
// order is identified from the metadata stored on the gateway's
// payment record.
type Service struct {
	orders  interfaces.OrderRepository
	gateway interfaces.PaymentGateway
	logger  logger.Logger
	now     func() time.Time
}

func NewService(orders interfaces.OrderRepository, gateway interfaces.PaymentGateway, logger logger.Logger) *Service {
	return &Service{
		orders:  orders,
		gateway: gateway,
		logger:  logger,
		now:     time.Now,
	}
}

// HandleNotification processes one webhook delivery. Unknown orders
// and payments without order metadata are acknowledged without any
// database write: returning an error would only make the gateway
// retry a notification that can never succeed. Gateway or database
// failures do propagate so the gateway retries later.
func (s *Service) HandleNotification(ctx context.Context, paymentID string) error {
	gwPayment, err := s.gateway.GetPayment(ctx, paymentID)
	if err != nil {
		return fmt.Errorf("failed to fetch payment %s: %w", paymentID, err)
	}

	if gwPayment.OrderID == nil {
		s.logger.Info("webhook_no_metadata", "Payment carries no order metadata, acknowledging", paymentID, map[string]interface{}{
			"payment_id": paymentID,
		})
		return nil
	}

	ord, err := s.orders.FindByID(ctx, *gwPayment.OrderID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Info("webhook_unknown_order", "Payment references unknown order, acknowledging", paymentID, map[string]interface{}{
				"payment_id": paymentID,
				"order_id":   *gwPayment.OrderID,
			})
			return nil
		}
		return err
	}

	status := domain.MapGatewayStatus(gwPayment.Status)

	if !ord.ApplyGatewayStatus(status, s.now()) {
		s.logger.Debug("webhook_noop", "Payment status unchanged", paymentID, map[string]interface{}{
			"reference": ord.Reference,
			"status":    status,
		})
		return nil
	}

	if ord.PaymentID == nil {
		ord.PaymentID = &gwPayment.ID
	}

	if err := s.orders.UpdatePayment(ctx, ord); err != nil {
		return err
	}

	s.logger.Info("payment_reconciled", "Payment status updated from gateway", paymentID, map[string]interface{}{
		"reference":      ord.Reference,
		"gateway_status": gwPayment.Status,
		"status":         status,
	})

	return nil
}
