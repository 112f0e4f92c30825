package repositories

import (
	"context"

	"github.com/osarobo/threadcart/backend/internal/domain/entities"
)

// SessionRepository defines the interface for session token state.
// A session exists from login until logout, account deletion, or expiry.
type SessionRepository interface {
	// Create stores a session until its expiry
	Create(ctx context.Context, session *entities.Session) error

	// Get retrieves a session by its token ID
	Get(ctx context.Context, id string) (*entities.Session, error)

	// Delete removes a single session
	Delete(ctx context.Context, id string) error

	// DeleteByUser removes every session belonging to a user
	DeleteByUser(ctx context.Context, userID string) error
}
