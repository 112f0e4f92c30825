package entities

import (
	"time"
)

// Review represents a written user review of a product
type Review struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	ProductID string    `json:"product_id" db:"product_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Rating represents a numeric product rating from 0 to 5
type Rating struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	ProductID string    `json:"product_id" db:"product_id"`
	Value     int       `json:"rating" db:"rating"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// RatingSummary aggregates the ratings submitted for a product
type RatingSummary struct {
	ProductID     string  `json:"product_id" db:"product_id"`
	AverageRating float64 `json:"average_rating" db:"average_rating"`
	RatingCount   int     `json:"rating_count" db:"rating_count"`
}
