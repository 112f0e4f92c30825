package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/osarobo/threadcart/backend/internal/adapters/database"
	"github.com/osarobo/threadcart/backend/internal/adapters/search"
	"github.com/osarobo/threadcart/backend/internal/domain/repositories"
	"github.com/osarobo/threadcart/backend/internal/infrastructure/clients/sqldb"
	"github.com/osarobo/threadcart/backend/internal/infrastructure/clients/typesense"
	"github.com/osarobo/threadcart/backend/pkg/config"
)

const reindexBatchSize = 500

func main() {
	var reset bool
	var intervalFlag string
	flag.BoolVar(&reset, "reset", false, "delete existing Typesense collection before reindexing")
	flag.StringVar(&intervalFlag, "interval", "", "repeat interval for reindexing (e.g. 6h, 30m)")
	flag.Parse()

	intervalValue := strings.TrimSpace(intervalFlag)
	if intervalValue == "" {
		intervalValue = strings.TrimSpace(os.Getenv("REINDEX_INTERVAL"))
	}

	var interval time.Duration
	var err error
	if intervalValue != "" {
		interval, err = time.ParseDuration(intervalValue)
		if err != nil {
			log.Fatalf("Invalid interval %q: %v", intervalValue, err)
		}
		if interval <= 0 {
			log.Fatalf("Interval must be greater than zero")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for {
		if err := indexOnce(ctx, reset); err != nil {
			log.Printf("Reindex failed: %v", err)
		}

		if interval <= 0 {
			break
		}

		reset = false
		log.Printf("Reindex complete. Next run in %s.", interval)

		select {
		case <-ctx.Done():
			log.Println("Reindexer shutting down")
			return
		case <-time.After(interval):
		}
	}
}

func indexOnce(ctx context.Context, reset bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	dbClient, err := sqldb.NewClient(&cfg.Database)
	if err != nil {
		return err
	}
	defer dbClient.Close()

	productRepo := database.NewProductAdapter(dbClient)

	tsClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		return err
	}

	adapter := search.NewTypesenseAdapter(tsClient)

	if reset || os.Getenv("RESET_TYPESENSE") == "true" {
		log.Println("Reset requested, deleting products collection")
		if err := adapter.DropSchema(ctx); err != nil {
			log.Printf("Warning: failed to delete collection: %v", err)
		}
	}

	if err := adapter.InitSchema(ctx); err != nil {
		return err
	}

	indexed := 0
	for offset := 0; ; offset += reindexBatchSize {
		products, err := productRepo.List(ctx, repositories.ProductFilter{
			Limit:  reindexBatchSize,
			Offset: offset,
		})
		if err != nil {
			return err
		}
		if len(products) == 0 {
			break
		}

		for _, product := range products {
			if product == nil {
				continue
			}
			if err := adapter.Index(ctx, product); err != nil {
				log.Printf("Warning: failed to index product %s: %v", product.ID, err)
				continue
			}
			indexed++
		}

		if len(products) < reindexBatchSize {
			break
		}
	}

	log.Printf("Indexed %d products", indexed)
	return nil
}
