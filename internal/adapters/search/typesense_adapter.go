package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/osarobo/threadcart/backend/internal/domain/entities"
	"github.com/osarobo/threadcart/backend/internal/domain/repositories"
	tsclient "github.com/osarobo/threadcart/backend/internal/infrastructure/clients/typesense"
)

const collectionName = "products"

// TypesenseAdapter implements product search using Typesense

type TypesenseAdapter struct {
	client *tsclient.Client
}

// Ensure TypesenseAdapter implements ProductSearchRepository
var _ repositories.ProductSearchRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// InitSchema ensures the collection exists
func (a *TypesenseAdapter) InitSchema(ctx context.Context) error {
	// Check if collection exists
	_, err := a.client.Client().Collection(collectionName).Retrieve(ctx)
	if err == nil {
		return nil // Collection exists
	}

	// Create collection
	schema := &api.CollectionSchema{
		Name: collectionName,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "user_id", Type: "string"},
			{Name: "name", Type: "string"},
			{Name: "description", Type: "string"},
			{Name: "category", Type: "string", Facet: pointer.True()},
			{Name: "price", Type: "float", Facet: pointer.True()},
			{Name: "stock_quantity", Type: "int32"},
			{Name: "image_url", Type: "string", Optional: pointer.True()},
			{Name: "created_at", Type: "int64"},
		},
		DefaultSortingField: pointer.String("created_at"),
	}

	_, err = a.client.Client().Collections().Create(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to create typesense collection: %w", err)
	}

	return nil
}

// DropSchema deletes the collection so a reindex can start clean
func (a *TypesenseAdapter) DropSchema(ctx context.Context) error {
	_, err := a.client.Client().Collection(collectionName).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to drop typesense collection: %w", err)
	}
	return nil
}

// Index indexes a product
func (a *TypesenseAdapter) Index(ctx context.Context, product *entities.Product) error {
	document := map[string]interface{}{
		"id":             product.ID,
		"user_id":        product.UserID,
		"name":           product.Name,
		"description":    product.Description,
		"category":       product.Category,
		"price":          product.Price,
		"stock_quantity": product.StockQuantity,
		"image_url":      product.ImageURL,
		"created_at":     product.CreatedAt.Unix(),
	}

	_, err := a.client.Client().Collection(collectionName).Documents().Upsert(ctx, document)
	if err != nil {
		return fmt.Errorf("failed to index product: %w", err)
	}

	return nil
}

// Delete removes a product from the index
func (a *TypesenseAdapter) Delete(ctx context.Context, id string) error {
	_, err := a.client.Client().Collection(collectionName).Document(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete product from index: %w", err)
	}
	return nil
}

// Search searches products by text query and filters
func (a *TypesenseAdapter) Search(ctx context.Context, filter repositories.ProductFilter) ([]*entities.Product, error) {
	query := filter.Search
	if query == "" {
		query = "*"
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 30
	}
	page, perPage, skip := searchWindow(filter.Offset, limit)

	searchParams := &api.SearchCollectionParams{
		Q:       pointer.String(query),
		QueryBy: pointer.String("name,category,description"),
		Page:    pointer.Int(page),
		PerPage: pointer.Int(perPage),
	}
	if filterBy := buildFilterBy(filter); filterBy != "" {
		searchParams.FilterBy = pointer.String(filterBy)
	}

	result, err := a.client.Client().Collection(collectionName).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}

	products := []*entities.Product{}
	if result.Hits == nil {
		return products, nil
	}

	for _, hit := range *result.Hits {
		doc := *hit.Document

		// Typesense returns map[string]interface{}, so cast each field
		// defensively; numbers come back as float64.
		product := &entities.Product{
			ID:   stringField(doc, "id"),
			Name: stringField(doc, "name"),
		}
		product.UserID = stringField(doc, "user_id")
		product.Description = stringField(doc, "description")
		product.Category = stringField(doc, "category")
		product.ImageURL = stringField(doc, "image_url")

		if val, ok := doc["price"].(float64); ok {
			product.Price = val
		}
		if val, ok := doc["stock_quantity"].(float64); ok {
			product.StockQuantity = int(val)
		}
		if val, ok := doc["created_at"].(float64); ok {
			product.CreatedAt = time.Unix(int64(val), 0)
		}

		products = append(products, product)
	}

	if skip > 0 {
		if skip >= len(products) {
			return []*entities.Product{}, nil
		}
		products = products[skip:]
	}
	if len(products) > limit {
		products = products[:limit]
	}

	return products, nil
}

// searchWindow maps a row offset onto Typesense's page-based paging.
// Offsets that fall on a page boundary translate directly; anything else
// over-fetches from the start and the caller drops the first skip rows.
func searchWindow(offset, limit int) (page, perPage, skip int) {
	if offset <= 0 {
		return 1, limit, 0
	}
	if offset%limit == 0 {
		return offset/limit + 1, limit, 0
	}
	return 1, offset + limit, offset
}

// buildFilterBy translates the structured filters into a Typesense
// filter_by expression. The free-text search goes through query_by, not
// through here.
func buildFilterBy(filter repositories.ProductFilter) string {
	clauses := []string{}
	if filter.Category != "" {
		clauses = append(clauses, fmt.Sprintf("category:=%s", filter.Category))
	}
	if filter.MaxPrice != nil {
		clauses = append(clauses, fmt.Sprintf("price:<=%g", *filter.MaxPrice))
	}
	return strings.Join(clauses, " && ")
}

func stringField(doc map[string]interface{}, key string) string {
	if val, ok := doc[key].(string); ok {
		return val
	}
	return ""
}
