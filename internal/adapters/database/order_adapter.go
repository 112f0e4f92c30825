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

// OrderAdapter implements OrderRepository
type OrderAdapter struct {
	client *sqldb.Client
	db     *goqu.Database
}

// NewOrderAdapter creates a new order adapter
func NewOrderAdapter(client *sqldb.Client) repositories.OrderRepository {
	return &OrderAdapter{
		client: client,
		db:     goqu.New(client.Dialect(), client.DB()),
	}
}

// Create inserts an order and decrements the product's stock in a single
// transaction. The stock condition is part of the UPDATE itself, so a
// concurrent order cannot oversell; the UNIQUE (user_id, product_id)
// constraint backstops the duplicate check the same way.
func (a *OrderAdapter) Create(ctx context.Context, order *entities.Order) error {
	tx, err := a.client.BeginTx(ctx)
	if err != nil {
		return apperrors.NewInternalError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	query, args, err := a.db.Select("stock_quantity").From("products").
		Where(goqu.Ex{"id": order.ProductID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build query", err)
	}

	var stock int
	err = tx.QueryRowContext(ctx, query, args...).Scan(&stock)
	if err == sql.ErrNoRows {
		return apperrors.NewNotFoundError(fmt.Sprintf("product with id %s not found", order.ProductID))
	}
	if err != nil {
		return apperrors.NewInternalError("failed to get product", err)
	}

	query, args, err = a.db.Select(goqu.COUNT("*")).From("orders").
		Where(goqu.Ex{"user_id": order.UserID, "product_id": order.ProductID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build query", err)
	}

	var existing int
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&existing); err != nil {
		return apperrors.NewInternalError("failed to check existing orders", err)
	}
	if existing > 0 {
		return apperrors.NewConflictError("an order for this product already exists")
	}

	query, args, err = a.db.Update("products").
		Set(goqu.Record{
			"stock_quantity": goqu.L("stock_quantity - ?", order.Quantity),
			"updated_at":     time.Now(),
		}).
		Where(
			goqu.Ex{"id": order.ProductID},
			goqu.C("stock_quantity").Gte(order.Quantity),
		).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build stock update", err)
	}

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to reserve stock", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewValidationError("not enough stock available")
	}

	record := goqu.Record{
		"id":         order.ID,
		"user_id":    order.UserID,
		"product_id": order.ProductID,
		"quantity":   order.Quantity,
		"status":     order.Status,
		"created_at": order.CreatedAt,
		"updated_at": order.UpdatedAt,
	}

	query, args, err = a.db.Insert("orders").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError("an order for this product already exists")
		}
		return apperrors.NewInternalError("failed to create order", err)
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewInternalError("failed to commit order", err)
	}

	return nil
}

// GetByIDForUser retrieves an order owned by the given user. An order
// belonging to another user is reported as not found.
func (a *OrderAdapter) GetByIDForUser(ctx context.Context, id, userID string) (*entities.Order, error) {
	query, args, err := a.db.Select(
		"id", "user_id", "product_id", "quantity", "status",
		"created_at", "updated_at",
	).From("orders").
		Where(goqu.Ex{"id": id, "user_id": userID}).
		ToSQL()

	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	order := &entities.Order{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&order.ID,
		&order.UserID,
		&order.ProductID,
		&order.Quantity,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("order with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get order", err)
	}

	return order, nil
}

// ListByUser retrieves orders placed by the given user
func (a *OrderAdapter) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entities.Order, error) {
	ds := a.db.Select(
		"id", "user_id", "product_id", "quantity", "status",
		"created_at", "updated_at",
	).From("orders").
		Where(goqu.Ex{"user_id": userID}).
		Order(goqu.I("created_at").Desc())

	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}
	if offset > 0 {
		ds = ds.Offset(uint(offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list orders", err)
	}
	defer rows.Close()

	var orders []*entities.Order
	for rows.Next() {
		order := &entities.Order{}
		err := rows.Scan(
			&order.ID,
			&order.UserID,
			&order.ProductID,
			&order.Quantity,
			&order.Status,
			&order.CreatedAt,
			&order.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan order", err)
		}

		orders = append(orders, order)
	}

	return orders, nil
}

// Update updates an order owned by order.UserID
func (a *OrderAdapter) Update(ctx context.Context, order *entities.Order) error {
	order.UpdatedAt = time.Now()

	record := goqu.Record{
		"quantity":   order.Quantity,
		"status":     order.Status,
		"updated_at": order.UpdatedAt,
	}

	query, args, err := a.db.Update("orders").
		Set(record).
		Where(goqu.Ex{"id": order.ID, "user_id": order.UserID}).
		ToSQL()

	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update order", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("order with id %s not found", order.ID))
	}

	return nil
}

// DeleteForUser deletes an order owned by the given user. Stock is not
// restored on deletion.
func (a *OrderAdapter) DeleteForUser(ctx context.Context, id, userID string) error {
	query, args, err := a.db.Delete("orders").
		Where(goqu.Ex{"id": id, "user_id": userID}).
		ToSQL()

	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete order", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("order with id %s not found", id))
	}

	return nil
}
