package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/osarobo/threadcart/backend/pkg/config"
	"github.com/osarobo/threadcart/backend/pkg/retry"
)

// Client represents a SQL database client. It runs against PostgreSQL in
// production and against a file-based SQLite database in development,
// selected by DatabaseConfig.Driver.
type Client struct {
	db      *sql.DB
	dialect string
}

// NewClient creates a new database client with exponential backoff retry
func NewClient(cfg *config.DatabaseConfig) (*Client, error) {
	driver, dialect, err := resolveDriver(cfg.Driver)
	if err != nil {
		return nil, err
	}

	dsn := cfg.DatabaseDSN()
	if driver == "sqlite" {
		dsn = sqliteDSN(dsn)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	// Set connection pool settings. SQLite holds a single write lock, so
	// the pool is capped at one connection there.
	if driver == "sqlite" {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	// Test the connection with retry
	retryConfig := retry.DefaultConfig()
	err = retry.DoWithLog(
		context.Background(),
		retryConfig,
		driver,
		func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return db.PingContext(ctx)
		},
		func(attempt int, err error, nextDelay time.Duration) {
			log.Printf("Database connection attempt %d failed: %v. Retrying in %v...", attempt, err, nextDelay)
		},
	)

	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to %s after retries: %w", driver, err)
	}

	log.Printf("Successfully connected to database (%s)", driver)
	return &Client{db: db, dialect: dialect}, nil
}

// sqliteDSN normalizes a SQLite path or DSN. Foreign keys are off by
// default in SQLite and the cascade rules in the schema depend on them,
// so the pragma is appended even when the caller supplied a file: DSN.
func sqliteDSN(path string) string {
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}
	if strings.Contains(path, "_pragma=foreign_keys") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)"
}

func resolveDriver(name string) (driver, dialect string, err error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "postgres", "postgresql":
		return "postgres", "postgres", nil
	case "sqlite", "sqlite3":
		// modernc.org/sqlite registers itself as "sqlite"; goqu calls the
		// dialect "sqlite3"
		return "sqlite", "sqlite3", nil
	default:
		return "", "", fmt.Errorf("unsupported database driver %q", name)
	}
}

// NewClientFromDB wraps an already-open connection. Adapter tests use
// it to run against sqlmock.
func NewClientFromDB(db *sql.DB, dialect string) *Client {
	return &Client{db: db, dialect: dialect}
}

// DB returns the underlying database connection
func (c *Client) DB() *sql.DB {
	return c.db
}

// Dialect returns the goqu dialect name for the active driver
func (c *Client) Dialect() string {
	return c.dialect
}

// Close closes the database connection
func (c *Client) Close() error {
	return c.db.Close()
}

// BeginTx starts a new transaction
func (c *Client) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return c.db.BeginTx(ctx, nil)
}

// Ping verifies the connection to the database
func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}
