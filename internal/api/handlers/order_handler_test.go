package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osarobo/threadcart/backend/internal/api/handlers"
	"github.com/osarobo/threadcart/backend/internal/domain/entities"
	apperrors "github.com/osarobo/threadcart/backend/pkg/errors"
)

type stubOrderService struct {
	orders   map[string]*entities.Order
	placeErr error
}

func newStubOrderService() *stubOrderService {
	return &stubOrderService{orders: make(map[string]*entities.Order)}
}

func (s *stubOrderService) Place(_ context.Context, userID, productID string, quantity int) (*entities.Order, error) {
	if s.placeErr != nil {
		return nil, s.placeErr
	}
	order := &entities.Order{
		ID:        "order-1",
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		Status:    entities.OrderStatusPending,
	}
	s.orders[order.ID] = order
	return order, nil
}

func (s *stubOrderService) GetForUser(_ context.Context, id, userID string) (*entities.Order, error) {
	order, ok := s.orders[id]
	if !ok || order.UserID != userID {
		return nil, apperrors.NewNotFoundError("order not found")
	}
	return order, nil
}

func (s *stubOrderService) ListForUser(_ context.Context, userID string, _, _ int) ([]*entities.Order, error) {
	var out []*entities.Order
	for _, order := range s.orders {
		if order.UserID == userID {
			out = append(out, order)
		}
	}
	return out, nil
}

func (s *stubOrderService) UpdateForUser(_ context.Context, id, userID string, quantity int, status entities.OrderStatus) (*entities.Order, error) {
	order, err := s.GetForUser(context.Background(), id, userID)
	if err != nil {
		return nil, err
	}
	order.Quantity = quantity
	order.Status = status
	return order, nil
}

func (s *stubOrderService) DeleteForUser(_ context.Context, id, userID string) error {
	if _, err := s.GetForUser(context.Background(), id, userID); err != nil {
		return err
	}
	delete(s.orders, id)
	return nil
}

func TestOrderHandler_CreateOrder(t *testing.T) {
	svc := newStubOrderService()
	handler := handlers.NewOrderHandler(svc)

	req := authedRequest(http.MethodPost, "/api/orders/product-1/create-order/", `{"quantity":3}`, "user-1")
	req.SetPathValue("product_id", "product-1")
	rec := httptest.NewRecorder()
	handler.CreateOrder(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.Contains(t, svc.orders, "order-1")
	assert.Equal(t, 3, svc.orders["order-1"].Quantity)
	assert.Equal(t, "product-1", svc.orders["order-1"].ProductID)
}

func TestOrderHandler_CreateOrderErrors(t *testing.T) {
	tests := []struct {
		name       string
		placeErr   error
		wantStatus int
	}{
		{"unknown product", apperrors.NewNotFoundError("product not found"), http.StatusNotFound},
		{"insufficient stock", apperrors.NewValidationError("insufficient stock"), http.StatusBadRequest},
		{"duplicate order", apperrors.NewConflictError("an order for this product already exists"), http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newStubOrderService()
			svc.placeErr = tt.placeErr
			handler := handlers.NewOrderHandler(svc)

			req := authedRequest(http.MethodPost, "/api/orders/product-1/create-order/", `{"quantity":1}`, "user-1")
			req.SetPathValue("product_id", "product-1")
			rec := httptest.NewRecorder()
			handler.CreateOrder(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestOrderHandler_CreateOrderWithoutIdentityIs401(t *testing.T) {
	handler := handlers.NewOrderHandler(newStubOrderService())

	req := httptest.NewRequest(http.MethodPost, "/api/orders/product-1/create-order/", nil)
	req.SetPathValue("product_id", "product-1")
	rec := httptest.NewRecorder()
	handler.CreateOrder(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOrderHandler_ListOrders(t *testing.T) {
	svc := newStubOrderService()
	handler := handlers.NewOrderHandler(svc)

	_, err := svc.Place(context.Background(), "user-1", "product-1", 2)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.ListOrders(rec, authedRequest(http.MethodGet, "/api/orders/", "", "user-1"))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.EqualValues(t, 1, body["count"])
}

func TestOrderHandler_GetForeignOrderIs404(t *testing.T) {
	svc := newStubOrderService()
	handler := handlers.NewOrderHandler(svc)

	_, err := svc.Place(context.Background(), "alice", "product-1", 1)
	require.NoError(t, err)

	req := authedRequest(http.MethodGet, "/api/orders/order-1/", "", "bob")
	req.SetPathValue("id", "order-1")
	rec := httptest.NewRecorder()
	handler.GetOrder(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrderHandler_UpdateOrderDefaultsStatusToPending(t *testing.T) {
	svc := newStubOrderService()
	handler := handlers.NewOrderHandler(svc)

	order, err := svc.Place(context.Background(), "user-1", "product-1", 1)
	require.NoError(t, err)
	order.Status = entities.OrderStatusCompleted

	req := authedRequest(http.MethodPut, "/api/orders/order-1/", `{"quantity":4}`, "user-1")
	req.SetPathValue("id", "order-1")
	rec := httptest.NewRecorder()
	handler.UpdateOrder(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, entities.OrderStatusPending, svc.orders["order-1"].Status)
	assert.Equal(t, 4, svc.orders["order-1"].Quantity)
}

func TestOrderHandler_DeleteOrder(t *testing.T) {
	svc := newStubOrderService()
	handler := handlers.NewOrderHandler(svc)

	_, err := svc.Place(context.Background(), "user-1", "product-1", 1)
	require.NoError(t, err)

	req := authedRequest(http.MethodDelete, "/api/orders/order-1/", "", "user-1")
	req.SetPathValue("id", "order-1")
	rec := httptest.NewRecorder()
	handler.DeleteOrder(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, svc.orders)
}
