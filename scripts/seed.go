package main

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/osarobo/threadcart/backend/internal/adapters/search"
	"github.com/osarobo/threadcart/backend/internal/domain/entities"
	"github.com/osarobo/threadcart/backend/internal/infrastructure/clients/sqldb"
	"github.com/osarobo/threadcart/backend/internal/infrastructure/clients/typesense"
	"github.com/osarobo/threadcart/backend/internal/infrastructure/migrations"
	"github.com/osarobo/threadcart/backend/pkg/config"
)

type seedUser struct {
	Username string
	Email    string
	Country  string
	Password string
}

type seedProduct struct {
	Name        string
	Description string
	Price       float64
	Stock       int
	Category    string
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	dbClient, err := sqldb.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer dbClient.Close()

	if err := migrations.Run(ctx, dbClient); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	var searchRepo *search.TypesenseAdapter
	if tsClient, err := typesense.NewClient(&cfg.Typesense); err == nil {
		searchRepo = search.NewTypesenseAdapter(tsClient)
		if err := searchRepo.InitSchema(ctx); err != nil {
			log.Printf("Warning: failed to init search schema: %v", err)
			searchRepo = nil
		}
	} else {
		log.Printf("Warning: Typesense unavailable, seeding database only: %v", err)
	}

	db := sqlx.NewDb(dbClient.DB(), dbClient.Dialect())

	users := []seedUser{
		{Username: "amaka", Email: "amaka@example.com", Country: "Nigeria", Password: "amaka-dev-password"},
		{Username: "tunde", Email: "tunde@example.com", Country: "Nigeria", Password: "tunde-dev-password"},
	}

	userIDs := make([]string, 0, len(users))
	now := time.Now()

	for _, u := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}

		user := &entities.User{
			ID:           uuid.New().String(),
			Username:     u.Username,
			Email:        u.Email,
			PasswordHash: string(hash),
			Country:      u.Country,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		_, err = db.NamedExecContext(ctx, `
			INSERT INTO users (id, username, email, password_hash, country, created_at, updated_at)
			VALUES (:id, :username, :email, :password_hash, :country, :created_at, :updated_at)`,
			user)
		if err != nil {
			log.Printf("Skipping user %s: %v", u.Username, err)
			continue
		}
		userIDs = append(userIDs, user.ID)
		log.Printf("Seeded user %s", u.Username)
	}

	if len(userIDs) == 0 {
		log.Println("No users seeded; nothing else to do")
		return
	}

	products := []seedProduct{
		{Name: "Linen Shorts", Description: "Lightweight shorts for humid days", Price: 24.99, Stock: 40, Category: entities.CategoryShorts},
		{Name: "Away Jersey 24/25", Description: "Breathable away kit", Price: 79.99, Stock: 15, Category: entities.CategoryJerseys},
		{Name: "Canvas Low-Tops", Description: "Everyday canvas sneakers", Price: 54.50, Stock: 25, Category: entities.CategoryShoes},
		{Name: "Ankara Dress", Description: "Hand-finished ankara print dress", Price: 120.00, Stock: 8, Category: entities.CategoryDresses},
		{Name: "Wool Crew Socks", Description: "Three-pack of wool crew socks", Price: 12.00, Stock: 60, Category: entities.CategorySocks},
	}

	for i, p := range products {
		product := &entities.Product{
			ID:            uuid.New().String(),
			UserID:        userIDs[i%len(userIDs)],
			Name:          p.Name,
			Description:   p.Description,
			Price:         p.Price,
			StockQuantity: p.Stock,
			Category:      p.Category,
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		_, err := db.NamedExecContext(ctx, `
			INSERT INTO products (id, user_id, name, description, price, stock_quantity, category, created_at, updated_at)
			VALUES (:id, :user_id, :name, :description, :price, :stock_quantity, :category, :created_at, :updated_at)`,
			product)
		if err != nil {
			log.Printf("Skipping product %s: %v", p.Name, err)
			continue
		}

		if searchRepo != nil {
			if err := searchRepo.Index(ctx, product); err != nil {
				log.Printf("Warning: failed to index %s: %v", p.Name, err)
			}
		}
		log.Printf("Seeded product %s", p.Name)
	}

	log.Println("Seed complete")
}
