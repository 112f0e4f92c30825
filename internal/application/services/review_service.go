package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/osarobo/threadcart/backend/internal/domain/entities"
	"github.com/osarobo/threadcart/backend/internal/domain/repositories"
	apperrors "github.com/osarobo/threadcart/backend/pkg/errors"
)

const maxReviewLength = 1000

// ReviewService handles product reviews. Anyone can read reviews;
// updating or deleting one requires ownership.
type ReviewService struct {
	reviews  repositories.ReviewRepository
	products repositories.ProductRepository
}

// NewReviewService creates a new review service
func NewReviewService(reviews repositories.ReviewRepository, products repositories.ProductRepository) *ReviewService {
	return &ReviewService{
		reviews:  reviews,
		products: products,
	}
}

// Create validates and stores a review for an existing product
func (s *ReviewService) Create(ctx context.Context, userID, productID, content string) (*entities.Review, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("content is required")
	}
	if len(content) > maxReviewLength {
		return nil, apperrors.NewValidationError("content must be at most 1000 characters")
	}

	// The FK would also catch this, but checking first turns the failure
	// into a proper not-found response.
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, err
	}

	now := time.Now()
	review := &entities.Review{
		ID:        uuid.New().String(),
		UserID:    userID,
		ProductID: productID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}

	return review, nil
}

// GetByID retrieves a single review
func (s *ReviewService) GetByID(ctx context.Context, id string) (*entities.Review, error) {
	return s.reviews.GetByID(ctx, id)
}

// List retrieves reviews, optionally scoped to one product
func (s *ReviewService) List(ctx context.Context, filter repositories.ReviewFilter) ([]*entities.Review, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultPageSize
	}
	return s.reviews.List(ctx, filter)
}

// Update replaces the content of a review owned by the given user
func (s *ReviewService) Update(ctx context.Context, userID, id, content string) (*entities.Review, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("content is required")
	}
	if len(content) > maxReviewLength {
		return nil, apperrors.NewValidationError("content must be at most 1000 characters")
	}

	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if review.UserID != userID {
		return nil, apperrors.NewForbiddenError("you do not own this review")
	}

	review.Content = content
	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, err
	}

	return review, nil
}

// Delete removes a review owned by the given user
func (s *ReviewService) Delete(ctx context.Context, userID, id string) error {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if review.UserID != userID {
		return apperrors.NewForbiddenError("you do not own this review")
	}

	return s.reviews.Delete(ctx, id)
}
