package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/osarobo/threadcart/backend/internal/domain/entities"
	"github.com/osarobo/threadcart/backend/internal/domain/repositories"
	apperrors "github.com/osarobo/threadcart/backend/pkg/errors"
)

// OrderService handles order placement and the owner-scoped order CRUD.
// All reads and mutations of existing orders go through the repository's
// user-scoped methods, so another user's order is indistinguishable from
// a missing one.
type OrderService struct {
	orders repositories.OrderRepository
}

// NewOrderService creates a new order service
func NewOrderService(orders repositories.OrderRepository) *OrderService {
	return &OrderService{orders: orders}
}

// Place creates an order for the given product on behalf of the user.
// The repository runs the stock check, the stock decrement, and the
// insert as one transaction.
func (s *OrderService) Place(ctx context.Context, userID, productID string, quantity int) (*entities.Order, error) {
	if quantity <= 0 {
		return nil, apperrors.NewValidationError("quantity must be a positive integer")
	}

	now := time.Now()
	order := &entities.Order{
		ID:        uuid.New().String(),
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		Status:    entities.OrderStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

// GetForUser retrieves one of the user's orders
func (s *OrderService) GetForUser(ctx context.Context, id, userID string) (*entities.Order, error) {
	return s.orders.GetByIDForUser(ctx, id, userID)
}

// ListForUser retrieves the user's orders
func (s *OrderService) ListForUser(ctx context.Context, userID string, limit, offset int) ([]*entities.Order, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	return s.orders.ListByUser(ctx, userID, limit, offset)
}

// UpdateForUser updates quantity and status on one of the user's orders.
// Stock is not readjusted when the quantity changes.
func (s *OrderService) UpdateForUser(ctx context.Context, id, userID string, quantity int, status entities.OrderStatus) (*entities.Order, error) {
	if quantity <= 0 {
		return nil, apperrors.NewValidationError("quantity must be a positive integer")
	}
	switch status {
	case entities.OrderStatusPending, entities.OrderStatusCompleted, entities.OrderStatusCancelled:
	default:
		return nil, apperrors.NewValidationError("status must be one of: pending, completed, cancelled")
	}

	order, err := s.orders.GetByIDForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	order.Quantity = quantity
	order.Status = status
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

// DeleteForUser deletes one of the user's orders. Stock is not restored.
func (s *OrderService) DeleteForUser(ctx context.Context, id, userID string) error {
	return s.orders.DeleteForUser(ctx, id, userID)
}
