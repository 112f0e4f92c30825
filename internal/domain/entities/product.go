package entities

import (
	"time"
)

// Product categories available in the catalog
const (
	CategoryPants   = "pants"
	CategoryTShirts = "t-shirts"
	CategoryShoes   = "shoes"
	CategoryJerseys = "jerseys"
	CategoryDresses = "dresses"
	CategorySocks   = "socks"
	CategoryShorts  = "shorts"
)

// ProductCategories lists every valid product category
var ProductCategories = []string{
	CategoryPants,
	CategoryTShirts,
	CategoryShoes,
	CategoryJerseys,
	CategoryDresses,
	CategorySocks,
	CategoryShorts,
}

// IsValidCategory reports whether category is one of the catalog categories
func IsValidCategory(category string) bool {
	for _, c := range ProductCategories {
		if c == category {
			return true
		}
	}
	return false
}

// Product represents a catalog product
type Product struct {
	ID            string    `json:"id" db:"id"`
	UserID        string    `json:"user_id" db:"user_id"`
	Name          string    `json:"name" db:"name"`
	Description   string    `json:"description" db:"description"`
	Price         float64   `json:"price" db:"price"`
	StockQuantity int       `json:"stock_quantity" db:"stock_quantity"`
	Category      string    `json:"category" db:"category"`
	ImageURL      string    `json:"image_url,omitempty" db:"image_url"`
	AverageRating float64   `json:"average_rating" db:"-"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}
