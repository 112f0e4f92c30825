package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osarobo/threadcart/backend/internal/application/services"
	"github.com/osarobo/threadcart/backend/internal/domain/entities"
	"github.com/osarobo/threadcart/backend/internal/domain/repositories"
	apperrors "github.com/osarobo/threadcart/backend/pkg/errors"
)

// stubProductRepo is an in-memory ProductRepository for service tests
type stubProductRepo struct {
	products map[string]*entities.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[string]*entities.Product)}
}

func (r *stubProductRepo) Create(_ context.Context, product *entities.Product) error {
	r.products[product.ID] = product
	return nil
}

func (r *stubProductRepo) GetByID(_ context.Context, id string) (*entities.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("product not found")
	}
	clone := *product
	return &clone, nil
}

func (r *stubProductRepo) Update(_ context.Context, product *entities.Product) error {
	if _, ok := r.products[product.ID]; !ok {
		return apperrors.NewNotFoundError("product not found")
	}
	r.products[product.ID] = product
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.products[id]; !ok {
		return apperrors.NewNotFoundError("product not found")
	}
	delete(r.products, id)
	return nil
}

func (r *stubProductRepo) List(_ context.Context, _ repositories.ProductFilter) ([]*entities.Product, error) {
	out := make([]*entities.Product, 0, len(r.products))
	for _, p := range r.products {
		clone := *p
		out = append(out, &clone)
	}
	return out, nil
}

// stubSearchRepo records index and search traffic
type stubSearchRepo struct {
	indexed  map[string]*entities.Product
	searched int
}

func newStubSearchRepo() *stubSearchRepo {
	return &stubSearchRepo{indexed: make(map[string]*entities.Product)}
}

func (r *stubSearchRepo) Search(_ context.Context, _ repositories.ProductFilter) ([]*entities.Product, error) {
	r.searched++
	out := make([]*entities.Product, 0, len(r.indexed))
	for _, p := range r.indexed {
		out = append(out, p)
	}
	return out, nil
}

func (r *stubSearchRepo) Index(_ context.Context, product *entities.Product) error {
	r.indexed[product.ID] = product
	return nil
}

func (r *stubSearchRepo) Delete(_ context.Context, id string) error {
	delete(r.indexed, id)
	return nil
}

// stubRatingRepo serves canned summaries
type stubRatingRepo struct {
	summaries map[string]*entities.RatingSummary
}

func newStubRatingRepo() *stubRatingRepo {
	return &stubRatingRepo{summaries: make(map[string]*entities.RatingSummary)}
}

func (r *stubRatingRepo) Create(_ context.Context, rating *entities.Rating) error {
	summary, ok := r.summaries[rating.ProductID]
	if !ok {
		summary = &entities.RatingSummary{ProductID: rating.ProductID}
		r.summaries[rating.ProductID] = summary
	}
	total := summary.AverageRating*float64(summary.RatingCount) + float64(rating.Value)
	summary.RatingCount++
	summary.AverageRating = total / float64(summary.RatingCount)
	return nil
}

func (r *stubRatingRepo) List(_ context.Context, _ repositories.ReviewFilter) ([]*entities.Rating, error) {
	return nil, nil
}

func (r *stubRatingRepo) SummaryByProduct(_ context.Context, productID string) (*entities.RatingSummary, error) {
	if summary, ok := r.summaries[productID]; ok {
		return summary, nil
	}
	return &entities.RatingSummary{ProductID: productID}, nil
}

func (r *stubRatingRepo) SummariesByProducts(_ context.Context, productIDs []string) (map[string]*entities.RatingSummary, error) {
	out := make(map[string]*entities.RatingSummary)
	for _, id := range productIDs {
		if summary, ok := r.summaries[id]; ok {
			out[id] = summary
		}
	}
	return out, nil
}

func validProduct() *entities.Product {
	return &entities.Product{
		Name:          "Canvas Low-Tops",
		Description:   "lightweight everyday sneaker",
		Price:         59.99,
		StockQuantity: 25,
		Category:      entities.CategoryShoes,
	}
}

func TestProductService_CreateAssignsOwnershipAndIndexes(t *testing.T) {
	repo := newStubProductRepo()
	search := newStubSearchRepo()
	svc := services.NewProductService(repo, search, newStubRatingRepo())

	product := validProduct()
	require.NoError(t, svc.Create(context.Background(), "user-1", product))

	assert.NotEmpty(t, product.ID)
	assert.Equal(t, "user-1", product.UserID)
	assert.Contains(t, repo.products, product.ID)
	assert.Contains(t, search.indexed, product.ID)
}

func TestProductService_CreateValidation(t *testing.T) {
	svc := services.NewProductService(newStubProductRepo(), nil, newStubRatingRepo())
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*entities.Product)
	}{
		{"missing name", func(p *entities.Product) { p.Name = "" }},
		{"name too long", func(p *entities.Product) { p.Name = strings.Repeat("x", 101) }},
		{"description too long", func(p *entities.Product) { p.Description = strings.Repeat("x", 501) }},
		{"negative price", func(p *entities.Product) { p.Price = -1 }},
		{"price over cap", func(p *entities.Product) { p.Price = 1000.01 }},
		{"negative stock", func(p *entities.Product) { p.StockQuantity = -1 }},
		{"stock over cap", func(p *entities.Product) { p.StockQuantity = 101 }},
		{"unknown category", func(p *entities.Product) { p.Category = "hats" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product := validProduct()
			tt.mutate(product)
			assertErrType(t, svc.Create(ctx, "user-1", product), apperrors.ErrorTypeValidation)
		})
	}
}

func TestProductService_UpdateRequiresOwnership(t *testing.T) {
	repo := newStubProductRepo()
	svc := services.NewProductService(repo, nil, newStubRatingRepo())
	ctx := context.Background()

	product := validProduct()
	require.NoError(t, svc.Create(ctx, "owner", product))

	intruderCopy := *product
	intruderCopy.Name = "Hijacked"
	assertErrType(t, svc.Update(ctx, "intruder", &intruderCopy), apperrors.ErrorTypeForbidden)

	product.Name = "Renamed Low-Tops"
	require.NoError(t, svc.Update(ctx, "owner", product))
	assert.Equal(t, "Renamed Low-Tops", repo.products[product.ID].Name)
}

func TestProductService_DeleteRequiresOwnership(t *testing.T) {
	repo := newStubProductRepo()
	search := newStubSearchRepo()
	svc := services.NewProductService(repo, search, newStubRatingRepo())
	ctx := context.Background()

	product := validProduct()
	require.NoError(t, svc.Create(ctx, "owner", product))

	assertErrType(t, svc.Delete(ctx, "intruder", product.ID), apperrors.ErrorTypeForbidden)

	require.NoError(t, svc.Delete(ctx, "owner", product.ID))
	assert.NotContains(t, repo.products, product.ID)
	assert.NotContains(t, search.indexed, product.ID)
}

func TestProductService_GetByIDAttachesAverageRating(t *testing.T) {
	repo := newStubProductRepo()
	ratings := newStubRatingRepo()
	svc := services.NewProductService(repo, nil, ratings)
	ctx := context.Background()

	product := validProduct()
	require.NoError(t, svc.Create(ctx, "owner", product))

	require.NoError(t, ratings.Create(ctx, &entities.Rating{ProductID: product.ID, Value: 4}))
	require.NoError(t, ratings.Create(ctx, &entities.Rating{ProductID: product.ID, Value: 2}))

	got, err := svc.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, got.AverageRating, 0.001)
}

func TestProductService_ListUsesSearchOnlyForTextQueries(t *testing.T) {
	repo := newStubProductRepo()
	search := newStubSearchRepo()
	svc := services.NewProductService(repo, search, newStubRatingRepo())
	ctx := context.Background()

	product := validProduct()
	require.NoError(t, svc.Create(ctx, "owner", product))

	_, err := svc.List(ctx, repositories.ProductFilter{})
	require.NoError(t, err)
	assert.Zero(t, search.searched)

	listed, err := svc.List(ctx, repositories.ProductFilter{Search: "sneaker"})
	require.NoError(t, err)
	assert.Equal(t, 1, search.searched)
	require.Len(t, listed, 1)
}
