package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/osarobo/threadcart/backend/internal/domain/entities"
	"github.com/osarobo/threadcart/backend/internal/infrastructure/observability"
	apperrors "github.com/osarobo/threadcart/backend/pkg/errors"
)

type contextKey string

const identityContextKey contextKey = "identity"

// TokenVerifier validates a bearer token and resolves the caller's
// identity. The auth service implements it; the check includes both the
// token signature and the liveness of the backing session.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*entities.Identity, error)
}

// AuthMiddleware authenticates requests with a bearer token and places
// the caller's identity in the request context.
type AuthMiddleware struct {
	verifier TokenVerifier
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// Require wraps a handler that needs an authenticated caller
func (m *AuthMiddleware) Require(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := BearerToken(r)
		if !ok {
			unauthorized(w, "missing or malformed Authorization header")
			return
		}

		identity, err := m.verifier.VerifyToken(r.Context(), token)
		if err != nil {
			if appErr, ok := err.(*apperrors.AppError); ok && appErr.Type == apperrors.ErrorTypeUnauthorized {
				unauthorized(w, appErr.Message)
				return
			}
			observability.LoggerFromContext(r.Context()).Error().Err(err).Msg("token verification failed")
			unauthorized(w, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), identityContextKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// BearerToken extracts the token from the Authorization header
func BearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// IdentityFromContext returns the authenticated caller placed in the
// context by Require. The second return is false on unauthenticated
// requests.
func IdentityFromContext(ctx context.Context) (*entities.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(*entities.Identity)
	return identity, ok
}

// WithIdentity returns a context carrying the given identity. Intended
// for tests that call handlers directly.
func WithIdentity(ctx context.Context, identity *entities.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
