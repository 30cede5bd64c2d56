package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/furnix/furnix-api/internal/dto"
	"github.com/furnix/furnix-api/internal/events"
	"github.com/furnix/furnix-api/internal/model"
	"github.com/furnix/furnix-api/internal/repository"
	"github.com/furnix/furnix-api/internal/storage"
)

type mockCustomOrderRepo struct {
	orders map[primitive.ObjectID]*model.CustomOrder
}

func newMockCustomOrderRepo() *mockCustomOrderRepo {
	return &mockCustomOrderRepo{orders: make(map[primitive.ObjectID]*model.CustomOrder)}
}

func (m *mockCustomOrderRepo) add(order *model.CustomOrder) *model.CustomOrder {
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	if order.Status == "" {
		order.Status = model.CustomOrderStatusSubmitted
	}
	m.orders[order.ID] = order
	return order
}

func (m *mockCustomOrderRepo) Create(_ context.Context, order *model.CustomOrder) error {
	order.ID = primitive.NewObjectID()
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	if order.Status == "" {
		order.Status = model.CustomOrderStatusSubmitted
	}
	m.orders[order.ID] = order
	return nil
}

func (m *mockCustomOrderRepo) GetByID(_ context.Context, id primitive.ObjectID) (*model.CustomOrder, error) {
	return m.orders[id], nil
}

func (m *mockCustomOrderRepo) List(_ context.Context, filter repository.CustomOrderFilter) ([]model.CustomOrder, int64, error) {
	var orders []model.CustomOrder
	for _, o := range m.orders {
		if filter.Email != "" && o.Email != filter.Email {
			continue
		}
		orders = append(orders, *o)
	}
	return orders, int64(len(orders)), nil
}

func (m *mockCustomOrderRepo) ListByEmail(_ context.Context, email string) ([]model.CustomOrder, error) {
	var orders []model.CustomOrder
	for _, o := range m.orders {
		if o.Email == email {
			orders = append(orders, *o)
		}
	}
	return orders, nil
}

func (m *mockCustomOrderRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, status model.CustomOrderStatus, adminNotes string) (*model.CustomOrder, error) {
	order, ok := m.orders[id]
	if !ok {
		return nil, nil
	}
	order.Status = status
	if adminNotes != "" {
		order.AdminNotes = adminNotes
	}
	order.UpdatedAt = time.Now()
	return order, nil
}

func (m *mockCustomOrderRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(m.orders, id)
	return nil
}

func testDisk(t *testing.T) *storage.Disk {
	t.Helper()
	disk, err := storage.NewDisk(t.TempDir())
	require.NoError(t, err)
	return disk
}

func TestCustomOrderService_Create_StoresAttachments(t *testing.T) {
	repo := newMockCustomOrderRepo()
	disk := testDisk(t)
	pub := &mockPublisher{}
	svc := NewCustomOrderService(repo, disk, pub, discardLogger())

	resp, err := svc.Create(context.Background(), dto.CreateCustomOrderRequest{
		Name: "Jane", Email: "jane@example.com", Phone: "+880170",
		RoomMeasurements: "4m x 3m", Details: "Corner bookshelf",
	}, "", []Attachment{
		{Name: "sketch.png", Content: strings.NewReader("png-bytes")},
	})
	require.NoError(t, err)
	assert.Equal(t, "SUBMITTED", resp.Status)
	require.Len(t, resp.Attachments, 1)
	assert.True(t, strings.HasPrefix(resp.Attachments[0], storage.PublicPrefix+"/"))

	on := filepath.Join(disk.Root(), filepath.Base(resp.Attachments[0]))
	_, statErr := os.Stat(on)
	assert.NoError(t, statErr)

	require.Len(t, pub.events, 1)
	assert.Equal(t, events.EntityCustomOrder, pub.events[0].Entity)
	assert.True(t, pub.events[0].Created)
}

func TestCustomOrderService_Create_LinksCustomer(t *testing.T) {
	repo := newMockCustomOrderRepo()
	svc := NewCustomOrderService(repo, testDisk(t), &mockPublisher{}, discardLogger())

	customerID := primitive.NewObjectID().Hex()
	resp, err := svc.Create(context.Background(), dto.CreateCustomOrderRequest{
		Name: "Jane", Email: "jane@example.com", Phone: "x", Details: "Desk",
	}, customerID, nil)
	require.NoError(t, err)
	assert.Equal(t, customerID, resp.CustomerID)
}

func TestCustomOrderService_Create_InvalidCustomerID(t *testing.T) {
	svc := NewCustomOrderService(newMockCustomOrderRepo(), testDisk(t), &mockPublisher{}, discardLogger())

	_, err := svc.Create(context.Background(), dto.CreateCustomOrderRequest{
		Name: "Jane", Email: "jane@example.com", Phone: "x",
	}, "broken", nil)
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestCustomOrderService_List_RestrictsToEmail(t *testing.T) {
	repo := newMockCustomOrderRepo()
	svc := NewCustomOrderService(repo, testDisk(t), &mockPublisher{}, discardLogger())

	repo.add(&model.CustomOrder{Name: "A", Email: "a@example.com"})
	repo.add(&model.CustomOrder{Name: "B", Email: "b@example.com"})

	resp, err := svc.List(context.Background(), dto.ListCustomOrdersRequest{Page: 1, PageSize: 10}, "a@example.com")
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "a@example.com", resp.Items[0].Email)
}

func TestCustomOrderService_UpdateStatus_ExactMatchOnly(t *testing.T) {
	repo := newMockCustomOrderRepo()
	svc := NewCustomOrderService(repo, testDisk(t), &mockPublisher{}, discardLogger())

	order := repo.add(&model.CustomOrder{Name: "A", Email: "a@example.com"})

	// The custom-order domain is exact-match; lower case must be rejected.
	_, err := svc.UpdateStatus(context.Background(), order.ID.Hex(), "approved", "")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	resp, err := svc.UpdateStatus(context.Background(), order.ID.Hex(), "APPROVED", "looks good")
	require.NoError(t, err)
	assert.Equal(t, "APPROVED", resp.Status)
	assert.Equal(t, "looks good", resp.AdminNotes)
}

func TestCustomOrderService_UpdateStatus_UnknownStatus(t *testing.T) {
	repo := newMockCustomOrderRepo()
	svc := NewCustomOrderService(repo, testDisk(t), &mockPublisher{}, discardLogger())

	order := repo.add(&model.CustomOrder{Name: "A", Email: "a@example.com"})

	_, err := svc.UpdateStatus(context.Background(), order.ID.Hex(), "DONE", "")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestCustomOrderService_Delete_RemovesAttachments(t *testing.T) {
	repo := newMockCustomOrderRepo()
	disk := testDisk(t)
	pub := &mockPublisher{}
	svc := NewCustomOrderService(repo, disk, pub, discardLogger())

	path, err := disk.Save("sketch.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	order := repo.add(&model.CustomOrder{Name: "A", Email: "a@example.com", Attachments: []string{path}})

	require.NoError(t, svc.Delete(context.Background(), order.ID.Hex()))

	_, statErr := os.Stat(filepath.Join(disk.Root(), filepath.Base(path)))
	assert.True(t, os.IsNotExist(statErr))

	require.Len(t, pub.events, 1)
	assert.True(t, pub.events[0].Deleted)
}

func TestCustomOrderService_Delete_NoAttachments(t *testing.T) {
	repo := newMockCustomOrderRepo()
	svc := NewCustomOrderService(repo, testDisk(t), &mockPublisher{}, discardLogger())

	order := repo.add(&model.CustomOrder{Name: "A", Email: "a@example.com"})

	require.NoError(t, svc.Delete(context.Background(), order.ID.Hex()))
	assert.Empty(t, repo.orders)
}

func TestCustomOrderService_Delete_NotFound(t *testing.T) {
	svc := NewCustomOrderService(newMockCustomOrderRepo(), testDisk(t), &mockPublisher{}, discardLogger())

	err := svc.Delete(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrCustomOrderNotFound)
}
