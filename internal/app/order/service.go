package order

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/wincantonlogs/firewood/internal/adapter/logger"
	"github.com/wincantonlogs/firewood/internal/config"
	"github.com/wincantonlogs/firewood/internal/domain"
	"github.com/wincantonlogs/firewood/internal/interfaces"
)

type Service struct {
	orders    interfaces.OrderRepository
	products  interfaces.ProductRepository
	publisher interfaces.NotificationPublisher
	gateway   interfaces.PaymentGateway
	checkout  config.CheckoutConfig
	feeTable  domain.FeeTable
	logger    logger.Logger
}

func NewService(
	orders interfaces.OrderRepository,
	products interfaces.ProductRepository,
	publisher interfaces.NotificationPublisher,
	gateway interfaces.PaymentGateway,
	checkout config.CheckoutConfig,
	feeTable domain.FeeTable,
	logger logger.Logger,
) *Service {
	return &Service{
		orders:    orders,
		products:  products,
		publisher: publisher,
		gateway:   gateway,
		checkout:  checkout,
		feeTable:  feeTable,
		logger:    logger,
	}
}

// CreateOrder validates the cart, prices it server-side against live
// catalog rows, persists order and snapshotted items in one
// transaction, then emits the order-created notification intent.
func (s *Service) CreateOrder(ctx context.Context, cmd interfaces.CreateOrderCommand) (*domain.Order, error) {
	method, err := domain.ParsePaymentMethod(cmd.PaymentMethod)
	if err != nil {
		return nil, err
	}

	lines := make([]domain.CartLine, len(cmd.Items))
	ids := make([]int, len(cmd.Items))
	for i, item := range cmd.Items {
		lines[i] = domain.CartLine{ProductID: item.ProductID, Quantity: item.Quantity}
		ids[i] = item.ProductID
	}

	products, err := s.products.FindActiveByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	customer := domain.Customer{
		Name:  cmd.CustomerName,
		Phone: cmd.CustomerPhone,
		Email: cmd.CustomerEmail,
	}
	address := domain.DeliveryAddress{
		Line1:    cmd.AddressLine1,
		Line2:    cmd.AddressLine2,
		Town:     cmd.Town,
		County:   cmd.County,
		Postcode: cmd.Postcode,
	}

	ord, err := domain.NewOrder(customer, address, lines, products, s.feeTable, method)
	if err != nil {
		s.logger.Error("validation_failed", "Order validation failed", "", nil, err)
		return nil, err
	}
	ord.PreferredDay = cmd.PreferredDay
	ord.DeliveryNotes = cmd.DeliveryNotes

	reference, err := s.orders.GenerateReference(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate order reference: %w", err)
	}
	ord.Reference = reference

	if err := s.orders.Create(ctx, ord); err != nil {
		s.logger.Error("db_transaction_failed", "Failed to create order", "", nil, err)
		return nil, err
	}
	s.logger.Debug("order_created", "Order created in DB", "", map[string]interface{}{"reference": ord.Reference})

	// The order exists regardless of whether the intent makes it out;
	// notification delivery is best-effort.
	if err := s.publisher.PublishNotification(ctx, NewOrderCreatedIntent(ord)); err != nil {
		s.logger.Error("intent_publish_failed", "Failed to publish order-created intent", "", map[string]interface{}{
			"reference": ord.Reference,
		}, err)
	}

	return ord, nil
}

func (s *Service) GetOrder(ctx context.Context, id int) (*domain.Order, error) {
	return s.orders.FindByID(ctx, id)
}

// StartPayment opens a checkout session at the gateway for a card
// order. Wrongly-configured or already-settled orders are rejected
// with a conflict so no duplicate session is ever created.
func (s *Service) StartPayment(ctx context.Context, id int) (string, error) {
	ord, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return "", err
	}

	if err := ord.CanStartPayment(); err != nil {
		return "", fmt.Errorf("cannot start payment for order %s: %w", ord.Reference, err)
	}

	payment, err := s.gateway.CreatePayment(ctx, interfaces.CreatePaymentRequest{
		Amount:      ord.Total,
		Currency:    s.checkout.Currency,
		Description: fmt.Sprintf("Firewood order %s", ord.Reference),
		RedirectURL: s.checkout.RedirectURL,
		WebhookURL:  s.checkout.WebhookURL,
		OrderID:     ord.ID,
	})
	if err != nil {
		s.logger.Error("gateway_create_failed", "Failed to create gateway payment", "", map[string]interface{}{
			"reference": ord.Reference,
		}, err)
		return "", err
	}

	ord.PaymentID = &payment.ID
	ord.CheckoutURL = &payment.CheckoutURL
	ord.PaymentStatus = domain.PaymentPending

	if err := s.orders.UpdatePayment(ctx, ord); err != nil {
		return "", err
	}

	s.logger.Info("payment_started", "Checkout session created", "", map[string]interface{}{
		"reference":  ord.Reference,
		"payment_id": payment.ID,
	})

	return payment.CheckoutURL, nil
}

// NewOrderCreatedIntent snapshots the order fields the notification
// worker needs to render emails without re-reading the database.
func NewOrderCreatedIntent(ord *domain.Order) interfaces.NotificationIntent {
	items := make([]interfaces.NotificationItem, len(ord.Items))
	for i, item := range ord.Items {
		items[i] = interfaces.NotificationItem{
			Name:      item.Name,
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal,
		}
	}

	return interfaces.NotificationIntent{
		IntentID:      uuid.NewString(),
		Kind:          interfaces.NotificationOrderCreated,
		OrderID:       ord.ID,
		Reference:     ord.Reference,
		CustomerName:  ord.Customer.Name,
		CustomerEmail: ord.Customer.Email,
		Postcode:      ord.Address.Postcode,
		Items:         items,
		Total:         ord.Total,
	}
}
