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

// stubReviewRepo is an in-memory ReviewRepository for service tests
type stubReviewRepo struct {
	reviews map[string]*entities.Review
}

func newStubReviewRepo() *stubReviewRepo {
	return &stubReviewRepo{reviews: make(map[string]*entities.Review)}
}

func (r *stubReviewRepo) Create(_ context.Context, review *entities.Review) error {
	r.reviews[review.ID] = review
	return nil
}

func (r *stubReviewRepo) GetByID(_ context.Context, id string) (*entities.Review, error) {
	review, ok := r.reviews[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("review not found")
	}
	clone := *review
	return &clone, nil
}

func (r *stubReviewRepo) List(_ context.Context, filter repositories.ReviewFilter) ([]*entities.Review, error) {
	var out []*entities.Review
	for _, review := range r.reviews {
		if filter.ProductID == "" || review.ProductID == filter.ProductID {
			clone := *review
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubReviewRepo) Update(_ context.Context, review *entities.Review) error {
	if _, ok := r.reviews[review.ID]; !ok {
		return apperrors.NewNotFoundError("review not found")
	}
	r.reviews[review.ID] = review
	return nil
}

func (r *stubReviewRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.reviews[id]; !ok {
		return apperrors.NewNotFoundError("review not found")
	}
	delete(r.reviews, id)
	return nil
}

func reviewTestFixture(t *testing.T) (*services.ReviewService, *stubReviewRepo, *entities.Product) {
	t.Helper()

	products := newStubProductRepo()
	product := validProduct()
	product.ID = "product-1"
	require.NoError(t, products.Create(context.Background(), product))

	reviews := newStubReviewRepo()
	return services.NewReviewService(reviews, products), reviews, product
}

func TestReviewService_CreateTrimsAndStores(t *testing.T) {
	svc, repo, product := reviewTestFixture(t)

	review, err := svc.Create(context.Background(), "user-1", product.ID, "  runs a half size small  ")
	require.NoError(t, err)

	assert.Equal(t, "runs a half size small", review.Content)
	assert.Contains(t, repo.reviews, review.ID)
}

func TestReviewService_CreateValidation(t *testing.T) {
	svc, _, product := reviewTestFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "user-1", product.ID, "   ")
	assertErrType(t, err, apperrors.ErrorTypeValidation)

	_, err = svc.Create(ctx, "user-1", product.ID, strings.Repeat("x", 1001))
	assertErrType(t, err, apperrors.ErrorTypeValidation)

	// Exactly at the cap is fine.
	_, err = svc.Create(ctx, "user-1", product.ID, strings.Repeat("x", 1000))
	require.NoError(t, err)
}

func TestReviewService_CreateForUnknownProduct(t *testing.T) {
	svc, _, _ := reviewTestFixture(t)

	_, err := svc.Create(context.Background(), "user-1", "no-such-product", "nice")
	assertErrType(t, err, apperrors.ErrorTypeNotFound)
}

func TestReviewService_MutationRequiresOwnership(t *testing.T) {
	svc, repo, product := reviewTestFixture(t)
	ctx := context.Background()

	review, err := svc.Create(ctx, "owner", product.ID, "original take")
	require.NoError(t, err)

	_, err = svc.Update(ctx, "intruder", review.ID, "tampered")
	assertErrType(t, err, apperrors.ErrorTypeForbidden)

	assertErrType(t, svc.Delete(ctx, "intruder", review.ID), apperrors.ErrorTypeForbidden)

	updated, err := svc.Update(ctx, "owner", review.ID, "revised take")
	require.NoError(t, err)
	assert.Equal(t, "revised take", updated.Content)

	require.NoError(t, svc.Delete(ctx, "owner", review.ID))
	assert.NotContains(t, repo.reviews, review.ID)
}

func TestRatingService_CreateValidatesRange(t *testing.T) {
	products := newStubProductRepo()
	product := validProduct()
	product.ID = "product-1"
	require.NoError(t, products.Create(context.Background(), product))

	svc := services.NewRatingService(newStubRatingRepo(), products)
	ctx := context.Background()

	_, err := svc.Create(ctx, "user-1", product.ID, -1)
	assertErrType(t, err, apperrors.ErrorTypeValidation)

	_, err = svc.Create(ctx, "user-1", product.ID, 6)
	assertErrType(t, err, apperrors.ErrorTypeValidation)

	rating, err := svc.Create(ctx, "user-1", product.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, rating.Value)

	_, err = svc.Create(ctx, "user-1", "no-such-product", 5)
	assertErrType(t, err, apperrors.ErrorTypeNotFound)
}
