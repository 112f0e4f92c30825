package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osarobo/threadcart/backend/internal/adapters/database"
	"github.com/osarobo/threadcart/backend/internal/domain/entities"
	"github.com/osarobo/threadcart/backend/internal/domain/repositories"
	apperrors "github.com/osarobo/threadcart/backend/pkg/errors"
)

func TestProductAdapter_CreateThenGetRoundTrips(t *testing.T) {
	client := newTestClient(t)
	adapter := database.NewProductAdapter(client)
	ctx := context.Background()

	owner := createTestUser(t, client, "seller")

	now := time.Now().UTC()
	product := &entities.Product{
		ID:            uuid.New().String(),
		UserID:        owner.ID,
		Name:          "Away Jersey",
		Description:   "Breathable away kit",
		Price:         79.99,
		StockQuantity: 12,
		Category:      entities.CategoryJerseys,
		ImageURL:      "https://cdn.example.com/jersey.png",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, adapter.Create(ctx, product))

	got, err := adapter.GetByID(ctx, product.ID)
	require.NoError(t, err)

	assert.Equal(t, product.Name, got.Name)
	assert.Equal(t, product.Description, got.Description)
	assert.Equal(t, product.Price, got.Price)
	assert.Equal(t, product.StockQuantity, got.StockQuantity)
	assert.Equal(t, product.Category, got.Category)
	assert.Equal(t, product.ImageURL, got.ImageURL)
	assert.Equal(t, owner.ID, got.UserID)
}

func TestProductAdapter_GetByID_NotFound(t *testing.T) {
	client := newTestClient(t)
	adapter := database.NewProductAdapter(client)

	_, err := adapter.GetByID(context.Background(), "no-such-product")
	assertErrType(t, err, apperrors.ErrorTypeNotFound)
}

func TestProductAdapter_DeleteUnknownIsNotFound(t *testing.T) {
	client := newTestClient(t)
	adapter := database.NewProductAdapter(client)

	err := adapter.Delete(context.Background(), "no-such-product")
	assertErrType(t, err, apperrors.ErrorTypeNotFound)
}

func TestProductAdapter_UpdateUnknownIsNotFound(t *testing.T) {
	client := newTestClient(t)
	adapter := database.NewProductAdapter(client)

	err := adapter.Update(context.Background(), &entities.Product{
		ID:       "no-such-product",
		Name:     "Ghost",
		Category: entities.CategorySocks,
	})
	assertErrType(t, err, apperrors.ErrorTypeNotFound)
}

func TestProductAdapter_ListFilters(t *testing.T) {
	client := newTestClient(t)
	adapter := database.NewProductAdapter(client)
	ctx := context.Background()

	owner := createTestUser(t, client, "seller")

	cheap := createTestProduct(t, client, owner.ID, "Wool Socks", 50)
	expensive := &entities.Product{
		ID:            uuid.New().String(),
		UserID:        owner.ID,
		Name:          "Ankara Dress",
		Description:   "Hand-finished print",
		Price:         120.00,
		StockQuantity: 4,
		Category:      entities.CategoryDresses,
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}
	require.NoError(t, adapter.Create(ctx, expensive))

	t.Run("search matches name case-insensitively", func(t *testing.T) {
		results, err := adapter.List(ctx, repositories.ProductFilter{Search: "wool"})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, cheap.ID, results[0].ID)
	})

	t.Run("max price filter", func(t *testing.T) {
		maxPrice := 50.0
		results, err := adapter.List(ctx, repositories.ProductFilter{MaxPrice: &maxPrice})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, cheap.ID, results[0].ID)
	})

	t.Run("category filter", func(t *testing.T) {
		results, err := adapter.List(ctx, repositories.ProductFilter{Category: entities.CategoryDresses})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, expensive.ID, results[0].ID)
	})

	t.Run("limit and offset", func(t *testing.T) {
		page1, err := adapter.List(ctx, repositories.ProductFilter{Limit: 1})
		require.NoError(t, err)
		assert.Len(t, page1, 1)

		page2, err := adapter.List(ctx, repositories.ProductFilter{Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, page2, 1)
		assert.NotEqual(t, page1[0].ID, page2[0].ID)
	})
}
