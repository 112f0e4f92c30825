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
	apperrors "github.com/osarobo/threadcart/backend/pkg/errors"
)

func newOrder(userID, productID string, quantity int) *entities.Order {
	now := time.Now().UTC()
	return &entities.Order{
		ID:        uuid.New().String(),
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		Status:    entities.OrderStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestOrderAdapter_CreateDecrementsStock(t *testing.T) {
	client := newTestClient(t)
	orders := database.NewOrderAdapter(client)
	products := database.NewProductAdapter(client)
	ctx := context.Background()

	user := createTestUser(t, client, "buyer")
	product := createTestProduct(t, client, user.ID, "Canvas Low-Tops", 10)

	require.NoError(t, orders.Create(ctx, newOrder(user.ID, product.ID, 3)))

	got, err := products.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.StockQuantity)
}

func TestOrderAdapter_CreateUnknownProductIsNotFound(t *testing.T) {
	client := newTestClient(t)
	orders := database.NewOrderAdapter(client)

	user := createTestUser(t, client, "buyer")

	err := orders.Create(context.Background(), newOrder(user.ID, "no-such-product", 1))
	assertErrType(t, err, apperrors.ErrorTypeNotFound)
}

func TestOrderAdapter_InsufficientStockLeavesNothingBehind(t *testing.T) {
	client := newTestClient(t)
	orders := database.NewOrderAdapter(client)
	products := database.NewProductAdapter(client)
	ctx := context.Background()

	user := createTestUser(t, client, "buyer")
	product := createTestProduct(t, client, user.ID, "Wool Socks", 2)

	err := orders.Create(ctx, newOrder(user.ID, product.ID, 5))
	assertErrType(t, err, apperrors.ErrorTypeValidation)

	// Stock untouched, no order row
	got, err := products.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.StockQuantity)

	listed, err := orders.ListByUser(ctx, user.ID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestOrderAdapter_DuplicateOrderConflicts(t *testing.T) {
	client := newTestClient(t)
	orders := database.NewOrderAdapter(client)
	products := database.NewProductAdapter(client)
	ctx := context.Background()

	user := createTestUser(t, client, "buyer")
	product := createTestProduct(t, client, user.ID, "Linen Shorts", 10)

	require.NoError(t, orders.Create(ctx, newOrder(user.ID, product.ID, 2)))

	err := orders.Create(ctx, newOrder(user.ID, product.ID, 1))
	assertErrType(t, err, apperrors.ErrorTypeConflict)

	// The duplicate attempt must not burn stock
	got, err := products.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, got.StockQuantity)
}

func TestOrderAdapter_OwnerScoping(t *testing.T) {
	client := newTestClient(t)
	orders := database.NewOrderAdapter(client)
	ctx := context.Background()

	alice := createTestUser(t, client, "alice")
	bob := createTestUser(t, client, "bob")
	product := createTestProduct(t, client, alice.ID, "Away Jersey", 20)

	aliceOrder := newOrder(alice.ID, product.ID, 1)
	require.NoError(t, orders.Create(ctx, aliceOrder))

	t.Run("listing never shows another user's orders", func(t *testing.T) {
		bobOrders, err := orders.ListByUser(ctx, bob.ID, 10, 0)
		require.NoError(t, err)
		assert.Empty(t, bobOrders)

		aliceOrders, err := orders.ListByUser(ctx, alice.ID, 10, 0)
		require.NoError(t, err)
		require.Len(t, aliceOrders, 1)
		assert.Equal(t, aliceOrder.ID, aliceOrders[0].ID)
	})

	t.Run("foreign order reads as not found", func(t *testing.T) {
		_, err := orders.GetByIDForUser(ctx, aliceOrder.ID, bob.ID)
		assertErrType(t, err, apperrors.ErrorTypeNotFound)
	})

	t.Run("foreign order cannot be deleted", func(t *testing.T) {
		err := orders.DeleteForUser(ctx, aliceOrder.ID, bob.ID)
		assertErrType(t, err, apperrors.ErrorTypeNotFound)

		// Still there for the owner
		_, err = orders.GetByIDForUser(ctx, aliceOrder.ID, alice.ID)
		require.NoError(t, err)
	})
}

func TestOrderAdapter_UpdateAndDelete(t *testing.T) {
	client := newTestClient(t)
	orders := database.NewOrderAdapter(client)
	ctx := context.Background()

	user := createTestUser(t, client, "buyer")
	product := createTestProduct(t, client, user.ID, "Ankara Dress", 10)

	order := newOrder(user.ID, product.ID, 2)
	require.NoError(t, orders.Create(ctx, order))

	order.Quantity = 3
	order.Status = entities.OrderStatusCompleted
	require.NoError(t, orders.Update(ctx, order))

	got, err := orders.GetByIDForUser(ctx, order.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Quantity)
	assert.Equal(t, entities.OrderStatusCompleted, got.Status)

	require.NoError(t, orders.DeleteForUser(ctx, order.ID, user.ID))

	_, err = orders.GetByIDForUser(ctx, order.ID, user.ID)
	assertErrType(t, err, apperrors.ErrorTypeNotFound)
}
