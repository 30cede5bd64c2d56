//go:build integration

package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/furnix/furnix-api/internal/model"
)

func TestProductRepository_ListFilters(t *testing.T) {
	cleanupCollections(t, "products")

	repo := NewProductRepository(testDB)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.Product{
		Slug: "walnut-desk", Title: "Walnut Desk",
		Variants: []model.Variant{{Material: "walnut", Color: "brown", Price: 450, Stock: 5}},
	}))
	require.NoError(t, repo.Create(ctx, &model.Product{
		Slug: "pine-stool", Title: "Pine Stool",
		Variants: []model.Variant{{Material: "pine", Color: "natural", Price: 60, Stock: 20}},
	}))

	byMaterial, total, err := repo.List(ctx, ProductFilter{Material: "walnut", Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, byMaterial, 1)
	assert.Equal(t, "Walnut Desk", byMaterial[0].Title)

	byPrice, total, err := repo.List(ctx, ProductFilter{PriceMax: 100, Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, byPrice, 1)
	assert.Equal(t, "Pine Stool", byPrice[0].Title)

	paged, total, err := repo.List(ctx, ProductFilter{Page: 2, PageSize: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, paged, 1)
}
