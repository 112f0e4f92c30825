package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/osarobo/threadcart/backend/internal/adapters/database"
	"github.com/osarobo/threadcart/backend/internal/adapters/search"
	"github.com/osarobo/threadcart/backend/internal/adapters/session"
	"github.com/osarobo/threadcart/backend/internal/api/handlers"
	"github.com/osarobo/threadcart/backend/internal/api/middleware"
	"github.com/osarobo/threadcart/backend/internal/api/routes"
	"github.com/osarobo/threadcart/backend/internal/application/services"
	"github.com/osarobo/threadcart/backend/internal/domain/repositories"
	"github.com/osarobo/threadcart/backend/internal/infrastructure/clients/redis"
	"github.com/osarobo/threadcart/backend/internal/infrastructure/clients/sqldb"
	"github.com/osarobo/threadcart/backend/internal/infrastructure/clients/typesense"
	"github.com/osarobo/threadcart/backend/internal/infrastructure/migrations"
	"github.com/osarobo/threadcart/backend/internal/infrastructure/observability"
	"github.com/osarobo/threadcart/backend/pkg/config"
	"github.com/osarobo/threadcart/backend/pkg/secrets"
)

func main() {
	// Hydrate secrets (DB password, token secret) from Vault when enabled
	vaultCfg := secrets.LoadVaultConfigFromEnv("")
	if result, err := secrets.ApplyVaultSecrets(context.Background(), vaultCfg); err != nil {
		log.Printf("Warning: Vault secrets not applied: %v", err)
	} else if result.Enabled {
		log.Printf("Vault secrets applied from %s (%d loaded, %d skipped)", result.Path, result.Loaded, result.Skipped)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, os.Getenv("APP_ENV"))

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	var shutdown func(context.Context) error
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err = observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Printf("Warning: Failed to set up OpenTelemetry: %v", err)
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Printf("Error shutting down OpenTelemetry: %v", err)
				}
			}()
			log.Println("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	// Initialize database client (PostgreSQL in production, SQLite in development)
	dbClient, err := sqldb.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database client: %v", err)
	}
	defer dbClient.Close()

	if err := migrations.Run(ctx, dbClient); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database schema is up to date")

	// Initialize Redis client for session storage
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Printf("Warning: Failed to initialize Redis client: %v", err)
		// Continue without Redis - sessions fall back to the in-memory store
	} else {
		defer redisClient.Close()
		log.Println("Redis client initialized successfully")
	}

	// Initialize Typesense client for product search
	typesenseClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Printf("Warning: Failed to initialize Typesense client: %v", err)
	} else {
		log.Println("Typesense client initialized successfully")
	}

	// Initialize adapters
	userRepo := database.NewUserAdapter(dbClient)
	productRepo := database.NewProductAdapter(dbClient)
	orderRepo := database.NewOrderAdapter(dbClient)
	reviewRepo := database.NewReviewAdapter(dbClient)
	ratingRepo := database.NewRatingAdapter(dbClient)

	var sessionRepo repositories.SessionRepository
	if redisClient != nil {
		sessionRepo = session.NewRedisStore(redisClient)
		log.Println("Session store backed by Redis")
	} else {
		sessionRepo = session.NewMemoryStore()
		log.Println("Session store running in memory (sessions do not survive restarts)")
	}

	var searchRepo repositories.ProductSearchRepository
	if typesenseClient != nil {
		adapter := search.NewTypesenseAdapter(typesenseClient)

		// Ensure schema exists
		if err := adapter.InitSchema(context.Background()); err != nil {
			log.Printf("Warning: Failed to init Typesense schema: %v", err)
		}
		searchRepo = adapter
	}

	// Initialize services
	authService := services.NewAuthService(userRepo, sessionRepo, cfg.Auth)
	productService := services.NewProductService(productRepo, searchRepo, ratingRepo)
	orderService := services.NewOrderService(orderRepo)
	reviewService := services.NewReviewService(reviewRepo, productRepo)
	ratingService := services.NewRatingService(ratingRepo, productRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService)
	orderHandler := handlers.NewOrderHandler(orderService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	ratingHandler := handlers.NewRatingHandler(ratingService)

	authMiddleware := middleware.NewAuthMiddleware(authService)

	// Set up router
	router := routes.NewRouter(
		authHandler,
		productHandler,
		orderHandler,
		reviewHandler,
		ratingHandler,
		authMiddleware,
		metrics,
	)

	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	log.Println("Server stopped")
}
