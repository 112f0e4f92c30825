package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/osarobo/threadcart/backend/internal/domain/entities"
	"github.com/osarobo/threadcart/backend/internal/domain/repositories"
	"github.com/osarobo/threadcart/backend/internal/infrastructure/clients/sqldb"
	apperrors "github.com/osarobo/threadcart/backend/pkg/errors"
)

// ProductAdapter implements ProductRepository
type ProductAdapter struct {
	client *sqldb.Client
	db     *goqu.Database
}

// NewProductAdapter creates a new product adapter
func NewProductAdapter(client *sqldb.Client) repositories.ProductRepository {
	return &ProductAdapter{
		client: client,
		db:     goqu.New(client.Dialect(), client.DB()),
	}
}

// Create creates a new product
func (a *ProductAdapter) Create(ctx context.Context, product *entities.Product) error {
	record := goqu.Record{
		"id":             product.ID,
		"user_id":        product.UserID,
		"name":           product.Name,
		"description":    product.Description,
		"price":          product.Price,
		"stock_quantity": product.StockQuantity,
		"category":       product.Category,
		"image_url":      sql.NullString{String: product.ImageURL, Valid: product.ImageURL != ""},
		"created_at":     product.CreatedAt,
		"updated_at":     product.UpdatedAt,
	}

	query, args, err := a.db.Insert("products").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create product", err)
	}

	return nil
}

// GetByID retrieves a product by ID
func (a *ProductAdapter) GetByID(ctx context.Context, id string) (*entities.Product, error) {
	query, args, err := a.db.Select(
		"id", "user_id", "name", "description", "price",
		"stock_quantity", "category", "image_url", "created_at", "updated_at",
	).From("products").
		Where(goqu.Ex{"id": id}).
		ToSQL()

	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	product := &entities.Product{}
	var imageURL sql.NullString

	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&product.ID,
		&product.UserID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.StockQuantity,
		&product.Category,
		&imageURL,
		&product.CreatedAt,
		&product.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("product with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get product", err)
	}

	product.ImageURL = imageURL.String

	return product, nil
}

// Update updates a product
func (a *ProductAdapter) Update(ctx context.Context, product *entities.Product) error {
	product.UpdatedAt = time.Now()

	record := goqu.Record{
		"name":           product.Name,
		"description":    product.Description,
		"price":          product.Price,
		"stock_quantity": product.StockQuantity,
		"category":       product.Category,
		"image_url":      sql.NullString{String: product.ImageURL, Valid: product.ImageURL != ""},
		"updated_at":     product.UpdatedAt,
	}

	query, args, err := a.db.Update("products").
		Set(record).
		Where(goqu.Ex{"id": product.ID}).
		ToSQL()

	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update product", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("product with id %s not found", product.ID))
	}

	return nil
}

// Delete deletes a product. Orders, reviews, and ratings that reference
// it are removed by the schema's cascade rules.
func (a *ProductAdapter) Delete(ctx context.Context, id string) error {
	query, args, err := a.db.Delete("products").
		Where(goqu.Ex{"id": id}).
		ToSQL()

	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete product", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("product with id %s not found", id))
	}

	return nil
}

// List retrieves products with filters
func (a *ProductAdapter) List(ctx context.Context, filter repositories.ProductFilter) ([]*entities.Product, error) {
	ds := a.db.Select(
		"id", "user_id", "name", "description", "price",
		"stock_quantity", "category", "image_url", "created_at", "updated_at",
	).From("products")

	if filter.Search != "" {
		pattern := fmt.Sprintf("%%%s%%", filter.Search)
		ds = ds.Where(goqu.Or(
			goqu.I("name").ILike(pattern),
			goqu.I("category").ILike(pattern),
			goqu.I("description").ILike(pattern),
		))
	}

	if filter.Category != "" {
		ds = ds.Where(goqu.Ex{"category": filter.Category})
	}

	if filter.MaxPrice != nil {
		ds = ds.Where(goqu.C("price").Lte(*filter.MaxPrice))
	}

	ds = ds.Order(goqu.I("created_at").Desc())

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
		return nil, apperrors.NewInternalError("failed to list products", err)
	}
	defer rows.Close()

	var products []*entities.Product
	for rows.Next() {
		product := &entities.Product{}
		var imageURL sql.NullString

		err := rows.Scan(
			&product.ID,
			&product.UserID,
			&product.Name,
			&product.Description,
			&product.Price,
			&product.StockQuantity,
			&product.Category,
			&imageURL,
			&product.CreatedAt,
			&product.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan product", err)
		}

		product.ImageURL = imageURL.String

		products = append(products, product)
	}

	return products, nil
}
