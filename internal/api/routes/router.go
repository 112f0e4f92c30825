package routes

import (
	"net/http"

	"github.com/osarobo/threadcart/backend/internal/api/handlers"
	"github.com/osarobo/threadcart/backend/internal/api/middleware"
	"github.com/osarobo/threadcart/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux            *http.ServeMux
	authHandler    *handlers.AuthHandler
	productHandler *handlers.ProductHandler
	orderHandler   *handlers.OrderHandler
	reviewHandler  *handlers.ReviewHandler
	ratingHandler  *handlers.RatingHandler
	auth           *middleware.AuthMiddleware
	metrics        *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	authHandler *handlers.AuthHandler,
	productHandler *handlers.ProductHandler,
	orderHandler *handlers.OrderHandler,
	reviewHandler *handlers.ReviewHandler,
	ratingHandler *handlers.RatingHandler,
	auth *middleware.AuthMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:            http.NewServeMux(),
		authHandler:    authHandler,
		productHandler: productHandler,
		orderHandler:   orderHandler,
		reviewHandler:  reviewHandler,
		ratingHandler:  ratingHandler,
		auth:           auth,
		metrics:        metrics,
	}
}

// SetupRoutes configures all application routes. The paths keep their
// trailing slash, so the patterns anchor on {$} to avoid the ServeMux
// subtree match.
func (r *Router) SetupRoutes() http.Handler {
	requireAuth := r.auth.Require

	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// User account endpoints
	r.mux.HandleFunc("POST /users/register/{$}", r.authHandler.Register)
	r.mux.HandleFunc("POST /users/login/{$}", r.authHandler.Login)
	r.mux.HandleFunc("POST /users/logout/{$}", requireAuth(r.authHandler.Logout))
	r.mux.HandleFunc("GET /users/profile/{$}", requireAuth(r.authHandler.GetProfile))
	r.mux.HandleFunc("PUT /users/profile/{$}", requireAuth(r.authHandler.UpdateProfile))
	r.mux.HandleFunc("DELETE /users/delete_account/{$}", requireAuth(r.authHandler.DeleteAccount))

	// Product catalog endpoints: reads are public, writes need a caller
	r.mux.HandleFunc("GET /api/products/{$}", r.productHandler.ListProducts)
	r.mux.HandleFunc("POST /api/products/{$}", requireAuth(r.productHandler.CreateProduct))
	r.mux.HandleFunc("GET /api/products/{id}/{$}", r.productHandler.GetProduct)
	r.mux.HandleFunc("PUT /api/products/{id}/{$}", requireAuth(r.productHandler.UpdateProduct))
	r.mux.HandleFunc("DELETE /api/products/{id}/{$}", requireAuth(r.productHandler.DeleteProduct))

	// Order endpoints, all owner-scoped
	r.mux.HandleFunc("POST /api/orders/{product_id}/create-order/{$}", requireAuth(r.orderHandler.CreateOrder))
	r.mux.HandleFunc("GET /api/orders/{$}", requireAuth(r.orderHandler.ListOrders))
	r.mux.HandleFunc("GET /api/orders/{id}/{$}", requireAuth(r.orderHandler.GetOrder))
	r.mux.HandleFunc("PUT /api/orders/{id}/{$}", requireAuth(r.orderHandler.UpdateOrder))
	r.mux.HandleFunc("DELETE /api/orders/{id}/{$}", requireAuth(r.orderHandler.DeleteOrder))

	// Review endpoints
	r.mux.HandleFunc("GET /api/reviews/{$}", r.reviewHandler.ListReviews)
	r.mux.HandleFunc("POST /api/reviews/{$}", requireAuth(r.reviewHandler.CreateReview))
	r.mux.HandleFunc("GET /api/reviews/{id}/{$}", r.reviewHandler.GetReview)
	r.mux.HandleFunc("PUT /api/reviews/{id}/{$}", requireAuth(r.reviewHandler.UpdateReview))
	r.mux.HandleFunc("DELETE /api/reviews/{id}/{$}", requireAuth(r.reviewHandler.DeleteReview))

	// Rating endpoints
	r.mux.HandleFunc("GET /api/ratings/{$}", r.ratingHandler.ListRatings)
	r.mux.HandleFunc("POST /api/ratings/{$}", requireAuth(r.ratingHandler.CreateRating))

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// Apply gzip compression
	handler = middleware.Compression(handler)

	// CORS wraps everything so headers are set on every response
	handler = middleware.CORSMiddleware(handler)

	return handler
}
