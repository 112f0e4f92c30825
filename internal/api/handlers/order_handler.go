package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/osarobo/threadcart/backend/internal/api/middleware"
	"github.com/osarobo/threadcart/backend/internal/domain/entities"
)

// OrderService defines the order operations used by the handler.
type OrderService interface {
	Place(ctx context.Context, userID, productID string, quantity int) (*entities.Order, error)
	GetForUser(ctx context.Context, id, userID string) (*entities.Order, error)
	ListForUser(ctx context.Context, userID string, limit, offset int) ([]*entities.Order, error)
	UpdateForUser(ctx context.Context, id, userID string, quantity int, status entities.OrderStatus) (*entities.Order, error)
	DeleteForUser(ctx context.Context, id, userID string) error
}

// OrderHandler handles order HTTP requests. Every route requires an
// authenticated caller and only ever touches that caller's orders.
type OrderHandler struct {
	service OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(service OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

type createOrderRequest struct {
	Quantity int `json:"quantity"`
}

type updateOrderRequest struct {
	Quantity int                  `json:"quantity"`
	Status   entities.OrderStatus `json:"status"`
}

// CreateOrder handles POST /api/orders/{product_id}/create-order/
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	productID := r.PathValue("product_id")
	if productID == "" {
		respondWithError(w, http.StatusBadRequest, "product ID is required")
		return
	}

	var payload createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	order, err := h.service.Place(r.Context(), identity.UserID, productID, payload.Quantity)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, order)
}

// ListOrders handles GET /api/orders/
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	query := r.URL.Query()
	orders, err := h.service.ListForUser(
		r.Context(),
		identity.UserID,
		parseIntParam(query.Get("limit"), 30),
		parseIntParam(query.Get("offset"), 0),
	)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"orders": orders,
		"count":  len(orders),
	})
}

// GetOrder handles GET /api/orders/{id}/
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	orderID := r.PathValue("id")
	if orderID == "" {
		respondWithError(w, http.StatusBadRequest, "order ID is required")
		return
	}

	order, err := h.service.GetForUser(r.Context(), orderID, identity.UserID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, order)
}

// UpdateOrder handles PUT /api/orders/{id}/
func (h *OrderHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	orderID := r.PathValue("id")
	if orderID == "" {
		respondWithError(w, http.StatusBadRequest, "order ID is required")
		return
	}

	var payload updateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if payload.Status == "" {
		payload.Status = entities.OrderStatusPending
	}

	order, err := h.service.UpdateForUser(r.Context(), orderID, identity.UserID, payload.Quantity, payload.Status)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, order)
}

// DeleteOrder handles DELETE /api/orders/{id}/
func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	orderID := r.PathValue("id")
	if orderID == "" {
		respondWithError(w, http.StatusBadRequest, "order ID is required")
		return
	}

	if err := h.service.DeleteForUser(r.Context(), orderID, identity.UserID); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
