package database_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/osarobo/threadcart/backend/internal/adapters/database"
	"github.com/osarobo/threadcart/backend/internal/domain/entities"
	"github.com/osarobo/threadcart/backend/internal/infrastructure/clients/sqldb"
	"github.com/osarobo/threadcart/backend/internal/infrastructure/migrations"
	"github.com/osarobo/threadcart/backend/pkg/config"
	apperrors "github.com/osarobo/threadcart/backend/pkg/errors"
)

// newTestClient opens a throwaway SQLite database with the full schema.
// The adapters behave identically on both drivers, so the SQLite path
// doubles as the adapter test bed.
func newTestClient(t *testing.T) *sqldb.Client {
	t.Helper()

	cfg := &config.DatabaseConfig{
		Driver:     "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "adapter-test.db"),
	}
	client, err := sqldb.NewClient(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	require.NoError(t, migrations.Run(context.Background(), client))
	return client
}

func createTestUser(t *testing.T, client *sqldb.Client, username string) *entities.User {
	t.Helper()

	now := time.Now().UTC()
	user := &entities.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "not-a-real-hash",
		Country:      "Nigeria",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, database.NewUserAdapter(client).Create(context.Background(), user))
	return user
}

func createTestProduct(t *testing.T, client *sqldb.Client, userID, name string, stock int) *entities.Product {
	t.Helper()

	now := time.Now().UTC()
	product := &entities.Product{
		ID:            uuid.New().String(),
		UserID:        userID,
		Name:          name,
		Description:   "test product",
		Price:         19.99,
		StockQuantity: stock,
		Category:      entities.CategoryShoes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, database.NewProductAdapter(client).Create(context.Background(), product))
	return product
}

func assertErrType(t *testing.T, err error, errType apperrors.ErrorType) {
	t.Helper()

	require.Error(t, err)
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok, "expected *AppError, got %T: %v", err, err)
	require.Equal(t, errType, appErr.Type, "unexpected error type: %v", err)
}
