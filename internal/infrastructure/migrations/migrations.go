package migrations

import (
	"context"
	"fmt"

	"github.com/osarobo/threadcart/backend/internal/infrastructure/clients/sqldb"
)

// Run creates the schema if it does not exist. Statements are idempotent
// so the server can run them on every start.
//
// Every foreign key cascades on delete: removing a user removes their
// products, orders, reviews, ratings; removing a product removes its
// orders, reviews, ratings.
func Run(ctx context.Context, client *sqldb.Client) error {
	for _, stmt := range statements(client.Dialect()) {
		if _, err := client.DB().ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

func statements(dialect string) []string {
	timestampType := "TIMESTAMPTZ"
	priceType := "NUMERIC(6,2)"
	if dialect == "sqlite3" {
		timestampType = "TIMESTAMP"
		priceType = "REAL"
	}

	return []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS users (
				id TEXT PRIMARY KEY,
				username TEXT NOT NULL UNIQUE,
				email TEXT NOT NULL UNIQUE,
				password_hash TEXT NOT NULL,
				country TEXT NOT NULL DEFAULT '',
				profile_picture TEXT,
				created_at %[1]s NOT NULL,
				updated_at %[1]s NOT NULL
			)`, timestampType),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS products (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				name TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				price %[2]s NOT NULL,
				stock_quantity INTEGER NOT NULL DEFAULT 0,
				category TEXT NOT NULL,
				image_url TEXT,
				created_at %[1]s NOT NULL,
				updated_at %[1]s NOT NULL
			)`, timestampType, priceType),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS orders (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
				quantity INTEGER NOT NULL,
				status TEXT NOT NULL DEFAULT 'pending',
				created_at %[1]s NOT NULL,
				updated_at %[1]s NOT NULL,
				UNIQUE (user_id, product_id)
			)`, timestampType),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS reviews (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
				content TEXT NOT NULL,
				created_at %[1]s NOT NULL,
				updated_at %[1]s NOT NULL
			)`, timestampType),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS ratings (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
				rating INTEGER NOT NULL,
				created_at %[1]s NOT NULL
			)`, timestampType),
		`CREATE INDEX IF NOT EXISTS idx_products_user ON products(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_product ON reviews(product_id)`,
		`CREATE INDEX IF NOT EXISTS idx_ratings_product ON ratings(product_id)`,
	}
}
