package repositories

import (
	"context"

	"github.com/osarobo/threadcart/backend/internal/domain/entities"
)

// ReviewRepository defines the interface for review operations
type ReviewRepository interface {
	// Create creates a new review
	Create(ctx context.Context, review *entities.Review) error

	// GetByID retrieves a review by ID
	GetByID(ctx context.Context, id string) (*entities.Review, error)

	// List retrieves reviews, optionally filtered by product
	List(ctx context.Context, filter ReviewFilter) ([]*entities.Review, error)

	// Update updates a review
	Update(ctx context.Context, review *entities.Review) error

	// Delete deletes a review
	Delete(ctx context.Context, id string) error
}

// RatingRepository defines the interface for rating operations
type RatingRepository interface {
	// Create creates a new rating
	Create(ctx context.Context, rating *entities.Rating) error

	// List retrieves ratings, optionally filtered by product
	List(ctx context.Context, filter ReviewFilter) ([]*entities.Rating, error)

	// SummaryByProduct aggregates the ratings for one product
	SummaryByProduct(ctx context.Context, productID string) (*entities.RatingSummary, error)

	// SummariesByProducts aggregates ratings for multiple products at once
	SummariesByProducts(ctx context.Context, productIDs []string) (map[string]*entities.RatingSummary, error)
}

// ReviewFilter defines filters for listing reviews and ratings
type ReviewFilter struct {
	ProductID string
	Limit     int
	Offset    int
}
