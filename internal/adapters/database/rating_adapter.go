package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/osarobo/threadcart/backend/internal/domain/entities"
	"github.com/osarobo/threadcart/backend/internal/domain/repositories"
	"github.com/osarobo/threadcart/backend/internal/infrastructure/clients/sqldb"
	apperrors "github.com/osarobo/threadcart/backend/pkg/errors"
)

// RatingAdapter implements RatingRepository
type RatingAdapter struct {
	client *sqldb.Client
	db     *goqu.Database
}

// NewRatingAdapter creates a new rating adapter
func NewRatingAdapter(client *sqldb.Client) repositories.RatingRepository {
	return &RatingAdapter{
		client: client,
		db:     goqu.New(client.Dialect(), client.DB()),
	}
}

// Create creates a new rating
func (a *RatingAdapter) Create(ctx context.Context, rating *entities.Rating) error {
	record := goqu.Record{
		"id":         rating.ID,
		"user_id":    rating.UserID,
		"product_id": rating.ProductID,
		"rating":     rating.Value,
		"created_at": rating.CreatedAt,
	}

	query, args, err := a.db.Insert("ratings").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NewNotFoundError(fmt.Sprintf("product with id %s not found", rating.ProductID))
		}
		return apperrors.NewInternalError("failed to create rating", err)
	}

	return nil
}

// List retrieves ratings, optionally filtered by product
func (a *RatingAdapter) List(ctx context.Context, filter repositories.ReviewFilter) ([]*entities.Rating, error) {
	ds := a.db.Select(
		"id", "user_id", "product_id", "rating", "created_at",
	).From("ratings").
		Order(goqu.I("created_at").Desc())

	if filter.ProductID != "" {
		ds = ds.Where(goqu.Ex{"product_id": filter.ProductID})
	}

	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}
	if filter.Offset > 0 {
		ds = ds.Offset(uint(filter.Offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list ratings", err)
	}
	defer rows.Close()

	var ratings []*entities.Rating
	for rows.Next() {
		rating := &entities.Rating{}
		err := rows.Scan(
			&rating.ID,
			&rating.UserID,
			&rating.ProductID,
			&rating.Value,
			&rating.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan rating", err)
		}

		ratings = append(ratings, rating)
	}

	return ratings, nil
}

// SummaryByProduct aggregates the ratings for one product. A product
// without ratings yields a zero summary, not an error.
func (a *RatingAdapter) SummaryByProduct(ctx context.Context, productID string) (*entities.RatingSummary, error) {
	query, args, err := a.db.Select(
		goqu.C("product_id"),
		goqu.AVG("rating").As("average_rating"),
		goqu.COUNT("*").As("rating_count"),
	).From("ratings").
		Where(goqu.Ex{"product_id": productID}).
		GroupBy("product_id").
		ToSQL()

	if err != nil {
		return nil, apperrors.NewInternalError("failed to build summary query", err)
	}

	summary := &entities.RatingSummary{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&summary.ProductID,
		&summary.AverageRating,
		&summary.RatingCount,
	)

	if err == sql.ErrNoRows {
		return &entities.RatingSummary{ProductID: productID}, nil
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get rating summary", err)
	}

	return summary, nil
}

// SummariesByProducts aggregates ratings for multiple products at once.
// Products without ratings are absent from the result map.
func (a *RatingAdapter) SummariesByProducts(ctx context.Context, productIDs []string) (map[string]*entities.RatingSummary, error) {
	summaries := make(map[string]*entities.RatingSummary)
	if len(productIDs) == 0 {
		return summaries, nil
	}

	query, args, err := a.db.Select(
		goqu.C("product_id"),
		goqu.AVG("rating").As("average_rating"),
		goqu.COUNT("*").As("rating_count"),
	).From("ratings").
		Where(goqu.C("product_id").In(productIDs)).
		GroupBy("product_id").
		ToSQL()

	if err != nil {
		return nil, apperrors.NewInternalError("failed to build summary query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get rating summaries", err)
	}
	defer rows.Close()

	for rows.Next() {
		summary := &entities.RatingSummary{}
		err := rows.Scan(
			&summary.ProductID,
			&summary.AverageRating,
			&summary.RatingCount,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan rating summary", err)
		}

		summaries[summary.ProductID] = summary
	}

	return summaries, nil
}
