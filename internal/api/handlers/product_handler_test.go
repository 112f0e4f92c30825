package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osarobo/threadcart/backend/internal/api/handlers"
	"github.com/osarobo/threadcart/backend/internal/domain/entities"
	"github.com/osarobo/threadcart/backend/internal/domain/repositories"
	apperrors "github.com/osarobo/threadcart/backend/pkg/errors"
)

type stubProductService struct {
	products   map[string]*entities.Product
	lastFilter repositories.ProductFilter
	createErr  error
	mutateErr  error
}

func newStubProductService() *stubProductService {
	return &stubProductService{products: make(map[string]*entities.Product)}
}

func (s *stubProductService) Create(_ context.Context, userID string, product *entities.Product) error {
	if s.createErr != nil {
		return s.createErr
	}
	product.ID = "product-1"
	product.UserID = userID
	s.products[product.ID] = product
	return nil
}

func (s *stubProductService) GetByID(_ context.Context, id string) (*entities.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("product not found")
	}
	return product, nil
}

func (s *stubProductService) Update(_ context.Context, userID string, product *entities.Product) error {
	if s.mutateErr != nil {
		return s.mutateErr
	}
	s.products[product.ID] = product
	return nil
}

func (s *stubProductService) Delete(_ context.Context, userID, id string) error {
	if s.mutateErr != nil {
		return s.mutateErr
	}
	delete(s.products, id)
	return nil
}

func (s *stubProductService) List(_ context.Context, filter repositories.ProductFilter) ([]*entities.Product, error) {
	s.lastFilter = filter
	out := make([]*entities.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	return out, nil
}

func TestProductHandler_CreateProduct(t *testing.T) {
	svc := newStubProductService()
	handler := handlers.NewProductHandler(svc)

	body := `{"name":"Canvas Low-Tops","price":59.99,"stock_quantity":25,"category":"shoes"}`
	rec := httptest.NewRecorder()
	handler.CreateProduct(rec, authedRequest(http.MethodPost, "/api/products/", body, "user-1"))

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.Contains(t, svc.products, "product-1")
	assert.Equal(t, "user-1", svc.products["product-1"].UserID)
}

func TestProductHandler_CreateWithoutIdentityIs401(t *testing.T) {
	handler := handlers.NewProductHandler(newStubProductService())

	req := httptest.NewRequest(http.MethodPost, "/api/products/", nil)
	rec := httptest.NewRecorder()
	handler.CreateProduct(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProductHandler_CreateMapsValidationTo400(t *testing.T) {
	svc := newStubProductService()
	svc.createErr = apperrors.NewValidationError("name is required")
	handler := handlers.NewProductHandler(svc)

	rec := httptest.NewRecorder()
	handler.CreateProduct(rec, authedRequest(http.MethodPost, "/api/products/", `{}`, "user-1"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "name is required", decodeBody(t, rec)["error"])
}

func TestProductHandler_GetProduct(t *testing.T) {
	svc := newStubProductService()
	svc.products["product-1"] = &entities.Product{ID: "product-1", Name: "Canvas Low-Tops"}
	handler := handlers.NewProductHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/products/product-1/", nil)
	req.SetPathValue("id", "product-1")
	rec := httptest.NewRecorder()
	handler.GetProduct(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Canvas Low-Tops", decodeBody(t, rec)["name"])
}

func TestProductHandler_GetUnknownProductIs404(t *testing.T) {
	handler := handlers.NewProductHandler(newStubProductService())

	req := httptest.NewRequest(http.MethodGet, "/api/products/nope/", nil)
	req.SetPathValue("id", "nope")
	rec := httptest.NewRecorder()
	handler.GetProduct(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductHandler_ListPassesFilters(t *testing.T) {
	svc := newStubProductService()
	handler := handlers.NewProductHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/products/?search=sneaker&category=shoes&price=75.50&limit=10&offset=20", nil)
	rec := httptest.NewRecorder()
	handler.ListProducts(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sneaker", svc.lastFilter.Search)
	assert.Equal(t, "shoes", svc.lastFilter.Category)
	require.NotNil(t, svc.lastFilter.MaxPrice)
	assert.InDelta(t, 75.50, *svc.lastFilter.MaxPrice, 0.001)
	assert.Equal(t, 10, svc.lastFilter.Limit)
	assert.Equal(t, 20, svc.lastFilter.Offset)
}

func TestProductHandler_ListRejectsNonNumericPrice(t *testing.T) {
	handler := handlers.NewProductHandler(newStubProductService())

	req := httptest.NewRequest(http.MethodGet, "/api/products/?price=cheap", nil)
	rec := httptest.NewRecorder()
	handler.ListProducts(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductHandler_UpdateMapsForbiddenTo403(t *testing.T) {
	svc := newStubProductService()
	svc.mutateErr = apperrors.NewForbiddenError("you do not own this product")
	handler := handlers.NewProductHandler(svc)

	req := authedRequest(http.MethodPut, "/api/products/product-1/", `{"name":"Hijacked","category":"shoes"}`, "intruder")
	req.SetPathValue("id", "product-1")
	rec := httptest.NewRecorder()
	handler.UpdateProduct(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestProductHandler_DeleteProduct(t *testing.T) {
	svc := newStubProductService()
	svc.products["product-1"] = &entities.Product{ID: "product-1"}
	handler := handlers.NewProductHandler(svc)

	req := authedRequest(http.MethodDelete, "/api/products/product-1/", "", "user-1")
	req.SetPathValue("id", "product-1")
	rec := httptest.NewRecorder()
	handler.DeleteProduct(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotContains(t, svc.products, "product-1")
}
