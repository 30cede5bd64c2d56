package worker

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/furnix/furnix-api/internal/events"
	"github.com/furnix/furnix-api/internal/model"
	"github.com/furnix/furnix-api/internal/notify"
	"github.com/furnix/furnix-api/internal/realtime"
	"github.com/furnix/furnix-api/internal/repository"
)

type stubOrderRepo struct {
	order *model.Order
}

func (s *stubOrderRepo) Create(context.Context, *model.Order) error { return nil }
func (s *stubOrderRepo) GetByID(_ context.Context, id primitive.ObjectID) (*model.Order, error) {
	if s.order != nil && s.order.ID == id {
		return s.order, nil
	}
	return nil, nil
}
func (s *stubOrderRepo) List(context.Context, model.OrderStatus) ([]model.Order, error) {
	return nil, nil
}
func (s *stubOrderRepo) UpdateStatus(context.Context, primitive.ObjectID, model.OrderStatus) (*model.Order, error) {
	return nil, nil
}
func (s *stubOrderRepo) Assign(context.Context, primitive.ObjectID, primitive.ObjectID) (*model.Order, error) {
	return nil, nil
}

type stubCustomOrderRepo struct {
	order *model.CustomOrder
}

func (s *stubCustomOrderRepo) Create(context.Context, *model.CustomOrder) error { return nil }
func (s *stubCustomOrderRepo) GetByID(_ context.Context, id primitive.ObjectID) (*model.CustomOrder, error) {
	if s.order != nil && s.order.ID == id {
		return s.order, nil
	}
	return nil, nil
}
func (s *stubCustomOrderRepo) List(context.Context, repository.CustomOrderFilter) ([]model.CustomOrder, int64, error) {
	return nil, 0, nil
}
func (s *stubCustomOrderRepo) ListByEmail(context.Context, string) ([]model.CustomOrder, error) {
	return nil, nil
}
func (s *stubCustomOrderRepo) UpdateStatus(context.Context, primitive.ObjectID, model.CustomOrderStatus, string) (*model.CustomOrder, error) {
	return nil, nil
}
func (s *stubCustomOrderRepo) Delete(context.Context, primitive.ObjectID) error { return nil }

type stubUserRepo struct {
	users []*model.User
}

func (s *stubUserRepo) Create(context.Context, *model.User) error { return nil }
func (s *stubUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*model.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}
func (s *stubUserRepo) GetByEmail(context.Context, string) (*model.User, error) { return nil, nil }
func (s *stubUserRepo) List(context.Context) ([]model.User, error)             { return nil, nil }
func (s *stubUserRepo) ListByRole(context.Context, model.Role) ([]model.User, error) {
	return nil, nil
}

type recordingEmail struct {
	mu       sync.Mutex
	to       []string
	subjects []string
}

func (r *recordingEmail) Send(_ context.Context, to, subject, _ string) error {
	r.mu.Lock()
	r.to = append(r.to, to)
	r.subjects = append(r.subjects, subject)
	r.mu.Unlock()
	return nil
}

type recordingSMS struct {
	mu sync.Mutex
	to []string
}

func (r *recordingSMS) Send(_ context.Context, to, _ string) error {
	r.mu.Lock()
	r.to = append(r.to, to)
	r.mu.Unlock()
	return nil
}

type recordingHub struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingHub) Broadcast(event string, _ any) {
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
}

type workerFixture struct {
	worker *NotificationWorker
	email  *recordingEmail
	sms    *recordingSMS
	hub    *recordingHub
	redis  *redis.Client
}

func newWorkerFixture(t *testing.T, orders *stubOrderRepo, customOrders *stubCustomOrderRepo, users *stubUserRepo) *workerFixture {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	email := &recordingEmail{}
	sms := &recordingSMS{}
	hub := &recordingHub{}
	dispatcher := notify.NewDispatcher(email, sms, hub, 0, log)

	w := NewNotificationWorker(nil, orders, customOrders, users, redisClient, dispatcher, "admin@furnix.shop", log)
	return &workerFixture{worker: w, email: email, sms: sms, hub: hub, redis: redisClient}
}

func TestNotificationWorker_OrderCreated(t *testing.T) {
	order := &model.Order{
		ID:            primitive.NewObjectID(),
		CustomerName:  "Jane",
		CustomerEmail: "jane@example.com",
		CustomerPhone: "+880170",
		Status:        model.OrderStatusPending,
		Total:         120,
	}
	f := newWorkerFixture(t, &stubOrderRepo{order: order}, &stubCustomOrderRepo{}, &stubUserRepo{})

	f.worker.Process(context.Background(), events.Event{
		Entity: events.EntityOrder, ID: order.ID.Hex(), Status: "PENDING", Created: true,
	})

	require.Equal(t, []string{"jane@example.com"}, f.email.to)
	assert.Equal(t, []string{"Order Confirmation"}, f.email.subjects)
	assert.Equal(t, []string{"+880170"}, f.sms.to)
	assert.Equal(t, []string{realtime.EventOrderUpdate}, f.hub.events)
}

func TestNotificationWorker_Idempotency(t *testing.T) {
	order := &model.Order{
		ID:            primitive.NewObjectID(),
		CustomerEmail: "jane@example.com",
		Status:        model.OrderStatusShipped,
	}
	f := newWorkerFixture(t, &stubOrderRepo{order: order}, &stubCustomOrderRepo{}, &stubUserRepo{})

	ev := events.Event{Entity: events.EntityOrder, ID: order.ID.Hex(), Status: "SHIPPED"}
	f.worker.Process(context.Background(), ev)
	f.worker.Process(context.Background(), ev)

	assert.Len(t, f.email.to, 1)
	assert.Len(t, f.hub.events, 1)
}

func TestNotificationWorker_AssignmentNotifiesDistributor(t *testing.T) {
	distributor := &model.User{
		ID:    primitive.NewObjectID(),
		Name:  "Dist",
		Email: "dist@example.com",
		Role:  model.RoleDistributor,
	}
	order := &model.Order{
		ID:            primitive.NewObjectID(),
		CustomerEmail: "jane@example.com",
		Status:        model.OrderStatusAssigned,
	}
	f := newWorkerFixture(t, &stubOrderRepo{order: order}, &stubCustomOrderRepo{}, &stubUserRepo{users: []*model.User{distributor}})

	f.worker.Process(context.Background(), events.Event{
		Entity: events.EntityOrder, ID: order.ID.Hex(),
		Status: "ASSIGNED", DistributorID: distributor.ID.Hex(),
	})

	require.Equal(t, []string{"dist@example.com"}, f.email.to)
	assert.Equal(t, []string{"New Order Assigned"}, f.email.subjects)
	assert.Empty(t, f.sms.to)
}

func TestNotificationWorker_ReassignmentNotifiesNewDistributor(t *testing.T) {
	distA := &model.User{ID: primitive.NewObjectID(), Name: "A", Email: "a@dist.com", Role: model.RoleDistributor}
	distB := &model.User{ID: primitive.NewObjectID(), Name: "B", Email: "b@dist.com", Role: model.RoleDistributor}
	order := &model.Order{
		ID:            primitive.NewObjectID(),
		CustomerEmail: "jane@example.com",
		Status:        model.OrderStatusAssigned,
	}
	f := newWorkerFixture(t, &stubOrderRepo{order: order}, &stubCustomOrderRepo{}, &stubUserRepo{users: []*model.User{distA, distB}})

	f.worker.Process(context.Background(), events.Event{
		Entity: events.EntityOrder, ID: order.ID.Hex(),
		Status: "ASSIGNED", DistributorID: distA.ID.Hex(),
	})
	f.worker.Process(context.Background(), events.Event{
		Entity: events.EntityOrder, ID: order.ID.Hex(),
		Status: "ASSIGNED", DistributorID: distB.ID.Hex(),
	})

	assert.Equal(t, []string{"a@dist.com", "b@dist.com"}, f.email.to)

	// The same assignment delivered twice is still suppressed.
	f.worker.Process(context.Background(), events.Event{
		Entity: events.EntityOrder, ID: order.ID.Hex(),
		Status: "ASSIGNED", DistributorID: distB.ID.Hex(),
	})
	assert.Len(t, f.email.to, 2)
}

func TestNotificationWorker_CustomOrderCreatedNotifiesAdmin(t *testing.T) {
	order := &model.CustomOrder{
		ID:     primitive.NewObjectID(),
		Name:   "Jane",
		Email:  "jane@example.com",
		Status: model.CustomOrderStatusSubmitted,
	}
	f := newWorkerFixture(t, &stubOrderRepo{}, &stubCustomOrderRepo{order: order}, &stubUserRepo{})

	f.worker.Process(context.Background(), events.Event{
		Entity: events.EntityCustomOrder, ID: order.ID.Hex(), Status: "SUBMITTED", Created: true,
	})

	require.Equal(t, []string{"admin@furnix.shop"}, f.email.to)
	assert.Equal(t, []string{realtime.EventCustomOrderUpdate}, f.hub.events)
}

func TestNotificationWorker_CustomOrderDeletedBroadcastsOnly(t *testing.T) {
	f := newWorkerFixture(t, &stubOrderRepo{}, &stubCustomOrderRepo{}, &stubUserRepo{})

	f.worker.Process(context.Background(), events.Event{
		Entity: events.EntityCustomOrder, ID: primitive.NewObjectID().Hex(), Deleted: true,
	})

	assert.Empty(t, f.email.to)
	assert.Empty(t, f.sms.to)
	assert.Equal(t, []string{realtime.EventCustomOrderUpdate}, f.hub.events)
}

func TestNotificationWorker_UnknownOrderSkipped(t *testing.T) {
	f := newWorkerFixture(t, &stubOrderRepo{}, &stubCustomOrderRepo{}, &stubUserRepo{})

	f.worker.Process(context.Background(), events.Event{
		Entity: events.EntityOrder, ID: primitive.NewObjectID().Hex(), Status: "PAID",
	})

	assert.Empty(t, f.email.to)
	assert.Empty(t, f.hub.events)
}
