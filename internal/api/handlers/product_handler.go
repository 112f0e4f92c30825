package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/osarobo/threadcart/backend/internal/api/middleware"
	"github.com/osarobo/threadcart/backend/internal/domain/entities"
	"github.com/osarobo/threadcart/backend/internal/domain/repositories"
)

// ProductService defines the catalog operations used by the handler.
type ProductService interface {
	Create(ctx context.Context, userID string, product *entities.Product) error
	GetByID(ctx context.Context, id string) (*entities.Product, error)
	Update(ctx context.Context, userID string, product *entities.Product) error
	Delete(ctx context.Context, userID, id string) error
	List(ctx context.Context, filter repositories.ProductFilter) ([]*entities.Product, error)
}

// ProductHandler handles product catalog HTTP requests
type ProductHandler struct {
	service ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(service ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

type productRequest struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	StockQuantity int     `json:"stock_quantity"`
	Category      string  `json:"category"`
	ImageURL      string  `json:"image_url"`
}

// ListProducts handles GET /api/products/
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := repositories.ProductFilter{
		Search:   query.Get("search"),
		Category: query.Get("category"),
		Limit:    parseIntParam(query.Get("limit"), 30),
		Offset:   parseIntParam(query.Get("offset"), 0),
	}

	if raw := query.Get("price"); raw != "" {
		maxPrice, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "price must be a number")
			return
		}
		filter.MaxPrice = &maxPrice
	}

	products, err := h.service.List(r.Context(), filter)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"products": products,
		"count":    len(products),
	})
}

// CreateProduct handles POST /api/products/
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var payload productRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	product := payload.toEntity()
	if err := h.service.Create(r.Context(), identity.UserID, product); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, product)
}

// GetProduct handles GET /api/products/{id}/
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("id")
	if productID == "" {
		respondWithError(w, http.StatusBadRequest, "product ID is required")
		return
	}

	product, err := h.service.GetByID(r.Context(), productID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, product)
}

// UpdateProduct handles PUT /api/products/{id}/
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	productID := r.PathValue("id")
	if productID == "" {
		respondWithError(w, http.StatusBadRequest, "product ID is required")
		return
	}

	var payload productRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	product := payload.toEntity()
	product.ID = productID
	if err := h.service.Update(r.Context(), identity.UserID, product); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, product)
}

// DeleteProduct handles DELETE /api/products/{id}/
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	productID := r.PathValue("id")
	if productID == "" {
		respondWithError(w, http.StatusBadRequest, "product ID is required")
		return
	}

	if err := h.service.Delete(r.Context(), identity.UserID, productID); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (p productRequest) toEntity() *entities.Product {
	return &entities.Product{
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		Category:      p.Category,
		ImageURL:      p.ImageURL,
	}
}

// parseIntParam parses a non-negative integer query parameter, falling
// back to the default on anything else
func parseIntParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}
