package order_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wincantonlogs/firewood/internal/adapter/logger"
	"github.com/wincantonlogs/firewood/internal/app/order"
	"github.com/wincantonlogs/firewood/internal/config"
	"github.com/wincantonlogs/firewood/internal/domain"
	"github.com/wincantonlogs/firewood/internal/interfaces"
)

type fakeOrderRepo struct {
	orders         map[int]*domain.Order
	nextID         int
	paymentUpdates int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[int]*domain.Order), nextID: 1}
}

func (r *fakeOrderRepo) Create(ctx context.Context, ord *domain.Order) error {
	ord.ID = r.nextID
	r.nextID++
	for i := range ord.Items {
		ord.Items[i].OrderID = ord.ID
	}
	stored := *ord
	r.orders[ord.ID] = &stored
	return nil
}

func (r *fakeOrderRepo) FindByID(ctx context.Context, id int) (*domain.Order, error) {
	ord, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *ord
	return &copied, nil
}

func (r *fakeOrderRepo) List(ctx context.Context, filter interfaces.ListOrdersFilter) ([]*domain.Order, error) {
	return nil, nil
}

func (r *fakeOrderRepo) GenerateReference(ctx context.Context) (string, error) {
	return "FW-20250901-001", nil
}

func (r *fakeOrderRepo) UpdateStatus(ctx context.Context, ord *domain.Order) error {
	return errors.New("not implemented")
}

func (r *fakeOrderRepo) UpdateArchived(ctx context.Context, orderID int, archivedAt *time.Time) error {
	return errors.New("not implemented")
}

func (r *fakeOrderRepo) UpdatePayment(ctx context.Context, ord *domain.Order) error {
	if _, ok := r.orders[ord.ID]; !ok {
		return domain.ErrNotFound
	}
	r.paymentUpdates++
	copied := *ord
	r.orders[ord.ID] = &copied
	return nil
}

type fakeProductRepo struct {
	products map[int]*domain.Product
}

func (r *fakeProductRepo) ListActive(ctx context.Context) ([]*domain.Product, error) {
	return nil, nil
}

func (r *fakeProductRepo) FindActiveByIDs(ctx context.Context, ids []int) (map[int]*domain.Product, error) {
	found := make(map[int]*domain.Product)
	for _, id := range ids {
		if p, ok := r.products[id]; ok && p.Active {
			found[id] = p
		}
	}
	return found, nil
}

type fakePublisher struct {
	intents []interfaces.NotificationIntent
	err     error
}

func (p *fakePublisher) PublishNotification(ctx context.Context, intent interfaces.NotificationIntent) error {
	if p.err != nil {
		return p.err
	}
	p.intents = append(p.intents, intent)
	return nil
}

type fakeGateway struct {
	created []interfaces.CreatePaymentRequest
	payment *interfaces.GatewayPayment
	err     error
}

func (g *fakeGateway) CreatePayment(ctx context.Context, req interfaces.CreatePaymentRequest) (*interfaces.GatewayPayment, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.created = append(g.created, req)
	return g.payment, nil
}

func (g *fakeGateway) GetPayment(ctx context.Context, id string) (*interfaces.GatewayPayment, error) {
	return g.payment, nil
}

func catalogFixture() *fakeProductRepo {
	return &fakeProductRepo{products: map[int]*domain.Product{
		1: {ID: 1, Name: "Seasoned hardwood, bulk bag", Price: 9500, Active: true},
		2: {ID: 2, Name: "Kindling net", Price: 600, Active: true},
	}}
}

func checkoutConfig() config.CheckoutConfig {
	return config.CheckoutConfig{
		Currency:    "GBP",
		RedirectURL: "https://example.test/thanks",
		WebhookURL:  "https://example.test/payments/webhook",
	}
}

func validCommand() interfaces.CreateOrderCommand {
	return interfaces.CreateOrderCommand{
		CustomerName:  "Jo Hartley",
		CustomerPhone: "01963 000000",
		AddressLine1:  "4 Mill Lane",
		Town:          "Wincanton",
		Postcode:      "ba98bw",
		PaymentMethod: "cash",
		Items: []interfaces.CreateOrderItemCommand{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 1},
		},
	}
}

func newService(repo *fakeOrderRepo, products *fakeProductRepo, pub *fakePublisher, gw *fakeGateway) *order.Service {
	return order.NewService(repo, products, pub, gw, checkoutConfig(), domain.DefaultFeeTable(), logger.New("test"))
}

func TestCreateOrder(t *testing.T) {
	repo := newFakeOrderRepo()
	pub := &fakePublisher{}
	svc := newService(repo, catalogFixture(), pub, &fakeGateway{})

	ord, err := svc.CreateOrder(context.Background(), validCommand())
	require.NoError(t, err)

	assert.Equal(t, "FW-20250901-001", ord.Reference)
	assert.Equal(t, 2*9500+600, ord.Subtotal)
	assert.Equal(t, 0, ord.DeliveryFee, "BA9 is a free local zone")
	assert.Equal(t, ord.Subtotal, ord.Total)
	assert.Len(t, repo.orders, 1)

	require.Len(t, pub.intents, 1)
	intent := pub.intents[0]
	assert.Equal(t, interfaces.NotificationOrderCreated, intent.Kind)
	assert.Equal(t, ord.Reference, intent.Reference)
	assert.NotEmpty(t, intent.IntentID)
	assert.Len(t, intent.Items, 2)
}

func TestCreateOrderRejectsZeroQuantity(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := newService(repo, catalogFixture(), &fakePublisher{}, &fakeGateway{})

	cmd := validCommand()
	cmd.Items[0].Quantity = 0

	_, err := svc.CreateOrder(context.Background(), cmd)
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Empty(t, repo.orders, "no partial order row")
}

func TestCreateOrderRejectsUnknownProduct(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := newService(repo, catalogFixture(), &fakePublisher{}, &fakeGateway{})

	cmd := validCommand()
	cmd.Items[0].ProductID = 99

	_, err := svc.CreateOrder(context.Background(), cmd)
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Empty(t, repo.orders)
}

func TestCreateOrderSurvivesPublisherFailure(t *testing.T) {
	repo := newFakeOrderRepo()
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := newService(repo, catalogFixture(), pub, &fakeGateway{})

	ord, err := svc.CreateOrder(context.Background(), validCommand())
	require.NoError(t, err, "notification delivery is best-effort")
	assert.Len(t, repo.orders, 1)
	assert.NotZero(t, ord.ID)
}

func TestStartPayment(t *testing.T) {
	repo := newFakeOrderRepo()
	gw := &fakeGateway{payment: &interfaces.GatewayPayment{
		ID:          "tr_abc123",
		Status:      "open",
		CheckoutURL: "https://pay.example.test/tr_abc123",
	}}
	svc := newService(repo, catalogFixture(), &fakePublisher{}, gw)

	cmd := validCommand()
	cmd.PaymentMethod = "card"
	ord, err := svc.CreateOrder(context.Background(), cmd)
	require.NoError(t, err)

	checkoutURL, err := svc.StartPayment(context.Background(), ord.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.test/tr_abc123", checkoutURL)

	require.Len(t, gw.created, 1)
	req := gw.created[0]
	assert.Equal(t, ord.Total, req.Amount)
	assert.Equal(t, "GBP", req.Currency)
	assert.Equal(t, ord.ID, req.OrderID)

	stored, err := repo.FindByID(context.Background(), ord.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.PaymentID)
	assert.Equal(t, "tr_abc123", *stored.PaymentID)
	require.NotNil(t, stored.CheckoutURL)
	assert.Equal(t, domain.PaymentPending, stored.PaymentStatus)
}

func TestStartPaymentConflicts(t *testing.T) {
	repo := newFakeOrderRepo()
	gw := &fakeGateway{payment: &interfaces.GatewayPayment{ID: "tr_x"}}
	svc := newService(repo, catalogFixture(), &fakePublisher{}, gw)

	// Cash order: wrong payment method.
	cash, err := svc.CreateOrder(context.Background(), validCommand())
	require.NoError(t, err)

	_, err = svc.StartPayment(context.Background(), cash.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Empty(t, gw.created, "no checkout session for non-card orders")

	// Card order already settled.
	cmd := validCommand()
	cmd.PaymentMethod = "card"
	card, err := svc.CreateOrder(context.Background(), cmd)
	require.NoError(t, err)

	stored := repo.orders[card.ID]
	stored.PaymentStatus = domain.PaymentPaid

	_, err = svc.StartPayment(context.Background(), card.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestStartPaymentUnknownOrder(t *testing.T) {
	svc := newService(newFakeOrderRepo(), catalogFixture(), &fakePublisher{}, &fakeGateway{})

	_, err := svc.StartPayment(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
