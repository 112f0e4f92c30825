package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/osarobo/threadcart/backend/internal/domain/entities"
	"github.com/osarobo/threadcart/backend/internal/domain/repositories"
	apperrors "github.com/osarobo/threadcart/backend/pkg/errors"
)

// RatingService handles numeric product ratings. A user may rate the
// same product more than once; the average simply includes every
// submission.
type RatingService struct {
	ratings  repositories.RatingRepository
	products repositories.ProductRepository
}

// NewRatingService creates a new rating service
func NewRatingService(ratings repositories.RatingRepository, products repositories.ProductRepository) *RatingService {
	return &RatingService{
		ratings:  ratings,
		products: products,
	}
}

// Create validates and stores a rating for an existing product
func (s *RatingService) Create(ctx context.Context, userID, productID string, value int) (*entities.Rating, error) {
	if value < 0 || value > 5 {
		return nil, apperrors.NewValidationError("rating must be between 0 and 5")
	}

	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}

	rating := &entities.Rating{
		ID:        uuid.New().String(),
		UserID:    userID,
		ProductID: productID,
		Value:     value,
		CreatedAt: time.Now(),
	}

	if err := s.ratings.Create(ctx, rating); err != nil {
		return nil, err
	}

	return rating, nil
}

// List retrieves ratings, optionally scoped to one product
func (s *RatingService) List(ctx context.Context, filter repositories.ReviewFilter) ([]*entities.Rating, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultPageSize
	}
	return s.ratings.List(ctx, filter)
}
