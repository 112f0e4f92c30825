package repositories

import (
	"context"

	"github.com/osarobo/threadcart/backend/internal/domain/entities"
)

// ProductRepository defines the interface for product data operations
type ProductRepository interface {
	// Create creates a new product
	Create(ctx context.Context, product *entities.Product) error

	// GetByID retrieves a product by ID
	GetByID(ctx context.Context, id string) (*entities.Product, error)

	// Update updates a product
	Update(ctx context.Context, product *entities.Product) error

	// Delete deletes a product and everything that references it
	Delete(ctx context.Context, id string) error

	// List retrieves products with filters
	List(ctx context.Context, filter ProductFilter) ([]*entities.Product, error)
}

// ProductSearchRepository defines the interface for product search operations (e.g. Typesense)
type ProductSearchRepository interface {
	// Search searches products by text query and filters
	Search(ctx context.Context, filter ProductFilter) ([]*entities.Product, error)

	// Index indexes a product
	Index(ctx context.Context, product *entities.Product) error

	// Delete removes a product from the index
	Delete(ctx context.Context, id string) error
}

// ProductFilter defines filters for listing products
type ProductFilter struct {
	Search   string // matches name, category, and description
	Category string
	MaxPrice *float64
	Limit    int
	Offset   int
}
