package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/osarobo/threadcart/backend/internal/api/middleware"
	"github.com/osarobo/threadcart/backend/internal/domain/entities"
	"github.com/osarobo/threadcart/backend/internal/domain/repositories"
)

// RatingService defines the rating operations used by the handler.
type RatingService interface {
	Create(ctx context.Context, userID, productID string, value int) (*entities.Rating, error)
	List(ctx context.Context, filter repositories.ReviewFilter) ([]*entities.Rating, error)
}

// RatingHandler handles rating HTTP requests
type RatingHandler struct {
	service RatingService
}

// NewRatingHandler creates a new rating handler
func NewRatingHandler(service RatingService) *RatingHandler {
	return &RatingHandler{service: service}
}

type ratingRequest struct {
	ProductID string `json:"product_id"`
	Rating    int    `json:"rating"`
}

// ListRatings handles GET /api/ratings/
func (h *RatingHandler) ListRatings(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := repositories.ReviewFilter{
		ProductID: query.Get("product"),
		Limit:     parseIntParam(query.Get("limit"), 30),
		Offset:    parseIntParam(query.Get("offset"), 0),
	}

	ratings, err := h.service.List(r.Context(), filter)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"ratings": ratings,
		"count":   len(ratings),
	})
}

// CreateRating handles POST /api/ratings/
func (h *RatingHandler) CreateRating(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var payload ratingRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if payload.ProductID == "" {
		respondWithError(w, http.StatusBadRequest, "product_id is required")
		return
	}

	rating, err := h.service.Create(r.Context(), identity.UserID, payload.ProductID, payload.Rating)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, rating)
}
