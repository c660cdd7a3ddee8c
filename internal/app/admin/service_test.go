package admin_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wincantonlogs/firewood/internal/adapter/logger"
	"github.com/wincantonlogs/firewood/internal/app/admin"
	"github.com/wincantonlogs/firewood/internal/domain"
	"github.com/wincantonlogs/firewood/internal/interfaces"
)

type fakeOrderRepo struct {
	orders map[int]*domain.Order
}

func newFakeOrderRepo(orders ...*domain.Order) *fakeOrderRepo {
	repo := &fakeOrderRepo{orders: make(map[int]*domain.Order)}
	for _, ord := range orders {
		repo.orders[ord.ID] = ord
	}
	return repo
}

func (r *fakeOrderRepo) Create(ctx context.Context, ord *domain.Order) error {
	return errors.New("not implemented")
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
	var out []*domain.Order
	for _, ord := range r.orders {
		if !filter.IncludeArchived && ord.ArchivedAt != nil {
			continue
		}
		if filter.Status != nil && ord.Status != *filter.Status {
			continue
		}
		copied := *ord
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeOrderRepo) GenerateReference(ctx context.Context) (string, error) {
	return "", errors.New("not implemented")
}

func (r *fakeOrderRepo) UpdateStatus(ctx context.Context, ord *domain.Order) error {
	if _, ok := r.orders[ord.ID]; !ok {
		return domain.ErrNotFound
	}
	copied := *ord
	r.orders[ord.ID] = &copied
	return nil
}

func (r *fakeOrderRepo) UpdateArchived(ctx context.Context, orderID int, archivedAt *time.Time) error {
	ord, ok := r.orders[orderID]
	if !ok {
		return domain.ErrNotFound
	}
	ord.ArchivedAt = archivedAt
	return nil
}

func (r *fakeOrderRepo) UpdatePayment(ctx context.Context, ord *domain.Order) error {
	return errors.New("not implemented")
}

type fakeHusbandryRepo struct {
	entries []*domain.HusbandryLog
}

func (r *fakeHusbandryRepo) Create(ctx context.Context, entry *domain.HusbandryLog) error {
	entry.ID = len(r.entries) + 1
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeHusbandryRepo) ListByOrder(ctx context.Context, orderID int) ([]*domain.HusbandryLog, error) {
	var out []*domain.HusbandryLog
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].OrderID == orderID {
			out = append(out, r.entries[i])
		}
	}
	return out, nil
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

func orderFixture(id int, status domain.Status) *domain.Order {
	return &domain.Order{
		ID:        id,
		Reference: "FW-20250901-001",
		Customer:  domain.Customer{Name: "Jo Hartley", Phone: "01963 000000"},
		Address: domain.DeliveryAddress{
			Line1:    "4 Mill Lane",
			Town:     "Wincanton",
			Postcode: "BA9 8BW",
		},
		Status:        status,
		PaymentMethod: domain.PaymentMethodCash,
		PaymentStatus: domain.PaymentUnpaid,
		Total:         9500,
		CreatedAt:     time.Date(2025, 8, 30, 9, 0, 0, 0, time.UTC),
	}
}

func newService(repo *fakeOrderRepo, notes *fakeHusbandryRepo, pub *fakePublisher) *admin.Service {
	return admin.NewService(repo, notes, pub, logger.New("test"))
}

func TestUpdateStatusPublishesIntent(t *testing.T) {
	repo := newFakeOrderRepo(orderFixture(1, domain.StatusPaid))
	pub := &fakePublisher{}
	svc := newService(repo, &fakeHusbandryRepo{}, pub)

	require.NoError(t, svc.UpdateStatus(context.Background(), 1, domain.StatusOFD))
	assert.Equal(t, domain.StatusOFD, repo.orders[1].Status)

	require.Len(t, pub.intents, 1)
	intent := pub.intents[0]
	assert.Equal(t, interfaces.NotificationStatusChanged, intent.Kind)
	assert.Equal(t, domain.StatusPaid, intent.OldStatus)
	assert.Equal(t, domain.StatusOFD, intent.NewStatus)
	assert.NotEmpty(t, intent.IntentID)
}

func TestUpdateStatusRejectsInvalidTransition(t *testing.T) {
	repo := newFakeOrderRepo(orderFixture(1, domain.StatusDelivered))
	pub := &fakePublisher{}
	svc := newService(repo, &fakeHusbandryRepo{}, pub)

	err := svc.UpdateStatus(context.Background(), 1, domain.StatusPaid)
	assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)
	assert.Empty(t, pub.intents, "no intent for a rejected transition")
}

func TestUpdateStatusSurvivesPublisherFailure(t *testing.T) {
	repo := newFakeOrderRepo(orderFixture(1, domain.StatusNew))
	svc := newService(repo, &fakeHusbandryRepo{}, &fakePublisher{err: errors.New("broker down")})

	require.NoError(t, svc.UpdateStatus(context.Background(), 1, domain.StatusPaid),
		"a committed transition never rolls back on broker failure")
	assert.Equal(t, domain.StatusPaid, repo.orders[1].Status)
}

func TestCancelAndRestoreOrder(t *testing.T) {
	repo := newFakeOrderRepo(orderFixture(1, domain.StatusPaid))
	svc := newService(repo, &fakeHusbandryRepo{}, &fakePublisher{})

	reason := "customer moved away"
	require.NoError(t, svc.CancelOrder(context.Background(), 1, &reason))

	cancelled := repo.orders[1]
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelReason)
	assert.Equal(t, reason, *cancelled.CancelReason)
	require.NotNil(t, cancelled.CancelledAt)

	require.NoError(t, svc.RestoreOrder(context.Background(), 1))

	restored := repo.orders[1]
	assert.Equal(t, domain.StatusNew, restored.Status)
	assert.Nil(t, restored.CancelReason)
	assert.Nil(t, restored.CancelledAt)
}

func TestBulkCancelContinuesPastMissingID(t *testing.T) {
	repo := newFakeOrderRepo(
		orderFixture(1, domain.StatusNew),
		orderFixture(3, domain.StatusPaid),
	)
	svc := newService(repo, &fakeHusbandryRepo{}, &fakePublisher{})

	result := svc.BulkCancel(context.Background(), []int{1, 2, 3}, nil)

	assert.ElementsMatch(t, []int{1, 3}, result.Updated)
	require.Contains(t, result.Failed, 2)
	assert.Equal(t, domain.StatusCancelled, repo.orders[1].Status)
	assert.Equal(t, domain.StatusCancelled, repo.orders[3].Status)
}

func TestBulkRestoreReportsInvalidStates(t *testing.T) {
	cancelled := orderFixture(1, domain.StatusCancelled)
	repo := newFakeOrderRepo(cancelled, orderFixture(2, domain.StatusNew))
	svc := newService(repo, &fakeHusbandryRepo{}, &fakePublisher{})

	result := svc.BulkRestore(context.Background(), []int{1, 2})

	assert.Equal(t, []int{1}, result.Updated)
	assert.Contains(t, result.Failed, 2, "only cancelled orders restore")
	assert.Equal(t, domain.StatusNew, repo.orders[1].Status)
}

func TestArchiveAndUnarchive(t *testing.T) {
	repo := newFakeOrderRepo(orderFixture(1, domain.StatusDelivered))
	svc := newService(repo, &fakeHusbandryRepo{}, &fakePublisher{})

	require.NoError(t, svc.ArchiveOrder(context.Background(), 1))
	require.NotNil(t, repo.orders[1].ArchivedAt)
	assert.Equal(t, domain.StatusDelivered, repo.orders[1].Status, "archive leaves status alone")

	require.NoError(t, svc.UnarchiveOrder(context.Background(), 1))
	assert.Nil(t, repo.orders[1].ArchivedAt)
}

func TestArchiveTwiceKeepsOriginalTimestamp(t *testing.T) {
	repo := newFakeOrderRepo(orderFixture(1, domain.StatusDelivered))
	svc := newService(repo, &fakeHusbandryRepo{}, &fakePublisher{})

	require.NoError(t, svc.ArchiveOrder(context.Background(), 1))
	require.NotNil(t, repo.orders[1].ArchivedAt)
	first := *repo.orders[1].ArchivedAt

	require.NoError(t, svc.ArchiveOrder(context.Background(), 1))
	assert.Equal(t, first, *repo.orders[1].ArchivedAt,
		"repeat archive never rewrites archived_at")
}

func TestAddNote(t *testing.T) {
	repo := newFakeOrderRepo(orderFixture(1, domain.StatusNew))
	notes := &fakeHusbandryRepo{}
	svc := newService(repo, notes, &fakePublisher{})

	author := "sam"
	entry, err := svc.AddNote(context.Background(), 1, "Left by the side gate", &author)
	require.NoError(t, err)
	assert.Equal(t, "Left by the side gate", entry.Note)
	assert.Len(t, notes.entries, 1)

	_, err = svc.AddNote(context.Background(), 42, "ghost order", nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.AddNote(context.Background(), 1, "   ", nil)
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Len(t, notes.entries, 1, "rejected notes never persist")
}

func TestListNotesNewestFirst(t *testing.T) {
	repo := newFakeOrderRepo(orderFixture(1, domain.StatusNew))
	notes := &fakeHusbandryRepo{}
	svc := newService(repo, notes, &fakePublisher{})

	_, err := svc.AddNote(context.Background(), 1, "first call", nil)
	require.NoError(t, err)
	_, err = svc.AddNote(context.Background(), 1, "second call", nil)
	require.NoError(t, err)

	listed, err := svc.ListNotes(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "second call", listed[0].Note)
	assert.Equal(t, "first call", listed[1].Note)
}

func TestDispatchListGroupsByOutwardCode(t *testing.T) {
	mkOrder := func(id int, postcode string, createdAt time.Time) *domain.Order {
		ord := orderFixture(id, domain.StatusOFD)
		ord.Address.Postcode = postcode
		ord.CreatedAt = createdAt
		return ord
	}

	base := time.Date(2025, 8, 30, 9, 0, 0, 0, time.UTC)
	repo := newFakeOrderRepo(
		mkOrder(1, "DT9 3AB", base.Add(2*time.Hour)),
		mkOrder(2, "BA9 8BW", base),
		mkOrder(3, "DT9 4FF", base.Add(time.Hour)),
		orderFixture(4, domain.StatusPaid), // not out for delivery
	)
	svc := newService(repo, &fakeHusbandryRepo{}, &fakePublisher{})

	groups, err := svc.DispatchList(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, "BA9", groups[0].OutwardCode)
	require.Len(t, groups[0].Orders, 1)
	assert.Equal(t, 2, groups[0].Orders[0].ID)

	assert.Equal(t, "DT9", groups[1].OutwardCode)
	require.Len(t, groups[1].Orders, 2)
	assert.Equal(t, 3, groups[1].Orders[0].ID, "oldest first within a group")
	assert.Equal(t, 1, groups[1].Orders[1].ID)
}
