package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/furnix/furnix-api/internal/model"
)

func TestUserRepo_CreateAndGetByEmail(t *testing.T) {
	cleanupCollections(t, "users")

	repo := NewUserRepository(testDB)
	ctx := context.Background()

	user := &model.User{
		Name: "John Doe", Email: "test@example.com",
		PasswordHash: "hashed", Role: model.RoleCustomer,
	}
	require.NoError(t, repo.Create(ctx, user))
	assert.False(t, user.ID.IsZero())

	found, err := repo.GetByEmail(ctx, "test@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)

	missing, err := repo.GetByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserRepo_ListByRole(t *testing.T) {
	cleanupCollections(t, "users")

	repo := NewUserRepository(testDB)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.User{
		Name: "D", Email: "dist@example.com", PasswordHash: "h", Role: model.RoleDistributor,
	}))
	require.NoError(t, repo.Create(ctx, &model.User{
		Name: "C", Email: "cust@example.com", PasswordHash: "h", Role: model.RoleCustomer,
	}))

	distributors, err := repo.ListByRole(ctx, model.RoleDistributor)
	require.NoError(t, err)
	require.Len(t, distributors, 1)
	assert.Equal(t, "dist@example.com", distributors[0].Email)
}

func TestProductRepo_CRUD(t *testing.T) {
	cleanupCollections(t, "products")

	repo := NewProductRepository(testDB)
	ctx := context.Background()

	product := &model.Product{
		Slug: "oak-table", Title: "Oak Table", Description: "Solid oak",
		Variants: []model.Variant{{SKU: "OT-1", Price: 299.99, Stock: 10}},
	}
	require.NoError(t, repo.Create(ctx, product))
	assert.False(t, product.ID.IsZero())

	found, err := repo.GetByID(ctx, product.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Oak Table", found.Title)

	bySlug, err := repo.GetBySlug(ctx, "oak-table")
	require.NoError(t, err)
	require.NotNil(t, bySlug)
	assert.Equal(t, product.ID, bySlug.ID)

	exists, err := repo.SlugExists(ctx, "oak-table")
	require.NoError(t, err)
	assert.True(t, exists)

	product.Title = "Updated Oak Table"
	require.NoError(t, repo.Update(ctx, product))

	found, _ = repo.GetByID(ctx, product.ID)
	assert.Equal(t, "Updated Oak Table", found.Title)

	require.NoError(t, repo.Delete(ctx, product.ID))
	found, _ = repo.GetByID(ctx, product.ID)
	assert.Nil(t, found)
}

func TestProductRepo_SearchMatchesTags(t *testing.T) {
	cleanupCollections(t, "products")

	repo := NewProductRepository(testDB)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.Product{
		Slug: "velvet-sofa", Title: "Velvet Sofa", Tags: []string{"living room", "fabric"},
	}))
	require.NoError(t, repo.Create(ctx, &model.Product{
		Slug: "steel-lamp", Title: "Steel Lamp", Tags: []string{"lighting"},
	}))

	results, err := repo.Search(ctx, "fabric", 50)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Velvet Sofa", results[0].Title)
}

func TestOrderRepo_CreateAndUpdateStatus(t *testing.T) {
	cleanupCollections(t, "orders")

	repo := NewOrderRepository(testDB)
	ctx := context.Background()

	order := &model.Order{
		CustomerName: "Jane", CustomerEmail: "jane@example.com",
		Items: []model.OrderItem{{Title: "Chair", Price: 49.5, Quantity: 2}},
		Total: 99,
	}
	require.NoError(t, repo.Create(ctx, order))
	assert.Equal(t, model.OrderStatusPending, order.Status)

	updated, err := repo.UpdateStatus(ctx, order.ID, model.OrderStatusShipped)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, model.OrderStatusShipped, updated.Status)

	listed, err := repo.List(ctx, model.OrderStatusShipped)
	require.NoError(t, err)
	require.Len(t, listed, 1)
}

func TestCustomOrderRepo_ListByEmail(t *testing.T) {
	cleanupCollections(t, "custom_orders")

	repo := NewCustomOrderRepository(testDB)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.CustomOrder{
		Name: "A", Email: "a@example.com", Details: "Corner shelf",
	}))
	require.NoError(t, repo.Create(ctx, &model.CustomOrder{
		Name: "B", Email: "b@example.com", Details: "Wall unit",
	}))

	mine, err := repo.ListByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, model.CustomOrderStatusSubmitted, mine[0].Status)

	all, total, err := repo.List(ctx, CustomOrderFilter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)
}
