package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/osarobo/threadcart/backend/internal/api/middleware"
	"github.com/osarobo/threadcart/backend/internal/domain/entities"
	"github.com/osarobo/threadcart/backend/internal/domain/repositories"
)

// ReviewService defines the review operations used by the handler.
type ReviewService interface {
	Create(ctx context.Context, userID, productID, content string) (*entities.Review, error)
	GetByID(ctx context.Context, id string) (*entities.Review, error)
	List(ctx context.Context, filter repositories.ReviewFilter) ([]*entities.Review, error)
	Update(ctx context.Context, userID, id, content string) (*entities.Review, error)
	Delete(ctx context.Context, userID, id string) error
}

// ReviewHandler handles review HTTP requests
type ReviewHandler struct {
	service ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(service ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

type reviewRequest struct {
	ProductID string `json:"product_id"`
	Content   string `json:"content"`
}

// ListReviews handles GET /api/reviews/
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := repositories.ReviewFilter{
		ProductID: query.Get("product"),
		Limit:     parseIntParam(query.Get("limit"), 30),
		Offset:    parseIntParam(query.Get("offset"), 0),
	}

	reviews, err := h.service.List(r.Context(), filter)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"reviews": reviews,
		"count":   len(reviews),
	})
}

// CreateReview handles POST /api/reviews/
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var payload reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if payload.ProductID == "" {
		respondWithError(w, http.StatusBadRequest, "product_id is required")
		return
	}

	review, err := h.service.Create(r.Context(), identity.UserID, payload.ProductID, payload.Content)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, review)
}

// GetReview handles GET /api/reviews/{id}/
func (h *ReviewHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	reviewID := r.PathValue("id")
	if reviewID == "" {
		respondWithError(w, http.StatusBadRequest, "review ID is required")
		return
	}

	review, err := h.service.GetByID(r.Context(), reviewID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, review)
}

// UpdateReview handles PUT /api/reviews/{id}/
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	reviewID := r.PathValue("id")
	if reviewID == "" {
		respondWithError(w, http.StatusBadRequest, "review ID is required")
		return
	}

	var payload reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	review, err := h.service.Update(r.Context(), identity.UserID, reviewID, payload.Content)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, review)
}

// DeleteReview handles DELETE /api/reviews/{id}/
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	reviewID := r.PathValue("id")
	if reviewID == "" {
		respondWithError(w, http.StatusBadRequest, "review ID is required")
		return
	}

	if err := h.service.Delete(r.Context(), identity.UserID, reviewID); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
