package repositories

import (
	"context"

	"github.com/osarobo/threadcart/backend/internal/domain/entities"
)

// OrderRepository defines the interface for order data operations.
// Reads and mutations of existing orders are scoped to the owning user:
// an order belonging to someone else behaves exactly like a missing one.
type OrderRepository interface {
	// Create inserts an order and decrements the product's stock as a
	// single transaction
	Create(ctx context.Context, order *entities.Order) error

	// GetByIDForUser retrieves an order owned by the given user
	GetByIDForUser(ctx context.Context, id, userID string) (*entities.Order, error)

	// ListByUser retrieves orders placed by the given user
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entities.Order, error)

	// Update updates an order owned by order.UserID
	Update(ctx context.Context, order *entities.Order) error

	// DeleteForUser deletes an order owned by the given user
	DeleteForUser(ctx context.Context, id, userID string) error
}
