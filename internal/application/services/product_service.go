package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/osarobo/threadcart/backend/internal/domain/entities"
	"github.com/osarobo/threadcart/backend/internal/domain/repositories"
	apperrors "github.com/osarobo/threadcart/backend/pkg/errors"
)

const defaultPageSize = 30

// ProductService handles business logic for the product catalog
type ProductService struct {
	repo       repositories.ProductRepository
	searchRepo repositories.ProductSearchRepository
	ratings    repositories.RatingRepository
}

// NewProductService creates a new product service
func NewProductService(repo repositories.ProductRepository, searchRepo repositories.ProductSearchRepository, ratings repositories.RatingRepository) *ProductService {
	return &ProductService{
		repo:       repo,
		searchRepo: searchRepo,
		ratings:    ratings,
	}
}

// Create validates and creates a product owned by the given user, then
// indexes it
func (s *ProductService) Create(ctx context.Context, userID string, product *entities.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}

	now := time.Now()
	product.ID = uuid.New().String()
	product.UserID = userID
	product.CreatedAt = now
	product.UpdatedAt = now

	// 1. Save to database
	if err := s.repo.Create(ctx, product); err != nil {
		return err
	}

	// 2. Index in search engine
	if s.searchRepo != nil {
		if err := s.searchRepo.Index(ctx, product); err != nil {
			// Log error but don't fail the request (eventual consistency)
			log.Printf("Warning: Failed to index product %s: %v", product.ID, err)
		}
	}

	return nil
}

// GetByID retrieves a product with its average rating
func (s *ProductService) GetByID(ctx context.Context, id string) (*entities.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	summary, err := s.ratings.SummaryByProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	product.AverageRating = summary.AverageRating

	return product, nil
}

// Update updates a product owned by the given user and refreshes its
// index entry
func (s *ProductService) Update(ctx context.Context, userID string, product *entities.Product) error {
	existing, err := s.repo.GetByID(ctx, product.ID)
	if err != nil {
		return err
	}
	if existing.UserID != userID {
		return apperrors.NewForbiddenError("you do not own this product")
	}

	if err := validateProduct(product); err != nil {
		return err
	}
	product.UserID = existing.UserID
	product.CreatedAt = existing.CreatedAt

	// 1. Update in database
	if err := s.repo.Update(ctx, product); err != nil {
		return err
	}

	// 2. Update index
	if s.searchRepo != nil {
		if err := s.searchRepo.Index(ctx, product); err != nil {
			log.Printf("Warning: Failed to update product index %s: %v", product.ID, err)
		}
	}

	return nil
}

// Delete deletes a product owned by the given user and removes it from
// the index
func (s *ProductService) Delete(ctx context.Context, userID string, id string) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.UserID != userID {
		return apperrors.NewForbiddenError("you do not own this product")
	}

	// 1. Delete from database
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	// 2. Delete from index
	if s.searchRepo != nil {
		if err := s.searchRepo.Delete(ctx, id); err != nil {
			log.Printf("Warning: Failed to delete product from index %s: %v", id, err)
		}
	}

	return nil
}

// List retrieves products, using the search engine for text queries when
// available and falling back to the database
func (s *ProductService) List(ctx context.Context, filter repositories.ProductFilter) ([]*entities.Product, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultPageSize
	}

	var (
		products []*entities.Product
		err      error
	)
	if filter.Search != "" && s.searchRepo != nil {
		products, err = s.searchRepo.Search(ctx, filter)
	} else {
		products, err = s.repo.List(ctx, filter)
	}
	if err != nil {
		return nil, err
	}

	if err := s.attachRatings(ctx, products); err != nil {
		return nil, err
	}

	return products, nil
}

func (s *ProductService) attachRatings(ctx context.Context, products []*entities.Product) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}

	summaries, err := s.ratings.SummariesByProducts(ctx, ids)
	if err != nil {
		return err
	}

	for _, p := range products {
		if summary, ok := summaries[p.ID]; ok {
			p.AverageRating = summary.AverageRating
		}
	}

	return nil
}

func validateProduct(product *entities.Product) error {
	product.Name = strings.TrimSpace(product.Name)

	if product.Name == "" {
		return apperrors.NewValidationError("name is required")
	}
	if len(product.Name) > 100 {
		return apperrors.NewValidationError("name must be at most 100 characters")
	}
	if len(product.Description) > 500 {
		return apperrors.NewValidationError("description must be at most 500 characters")
	}
	if product.Price < 0 || product.Price > 1000 {
		return apperrors.NewValidationError("price must be between 0 and 1000")
	}
	if product.StockQuantity < 0 || product.StockQuantity > 100 {
		return apperrors.NewValidationError("stock quantity must be between 0 and 100")
	}
	if !entities.IsValidCategory(product.Category) {
		return apperrors.NewValidationError(fmt.Sprintf("category must be one of: %s", strings.Join(entities.ProductCategories, ", ")))
	}

	return nil
}
