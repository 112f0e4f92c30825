package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/osarobo/threadcart/backend/internal/domain/entities"
	"github.com/osarobo/threadcart/backend/internal/domain/repositories"
	apperrors "github.com/osarobo/threadcart/backend/pkg/errors"
)

// MemoryStore implements SessionRepository with an in-process TTL map.
// It is the fallback when Redis is not configured, which makes a single
// dev server fully self-contained; sessions do not survive a restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*entities.Session
}

// NewMemoryStore creates a new in-memory session store
func NewMemoryStore() repositories.SessionRepository {
	return &MemoryStore{
		sessions: make(map[string]*entities.Session),
	}
}

// Create stores a session until its expiry
func (s *MemoryStore) Create(ctx context.Context, session *entities.Session) error {
	if !session.ExpiresAt.After(time.Now()) {
		return apperrors.NewValidationError("session is already expired")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked()

	copied := *session
	s.sessions[session.ID] = &copied
	return nil
}

// Get retrieves a session by its token ID. Expired sessions are treated
// as missing.
func (s *MemoryStore) Get(ctx context.Context, id string) (*entities.Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok || !session.ExpiresAt.After(time.Now()) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("session %s not found", id))
	}

	copied := *session
	return &copied, nil
}

// Delete removes a single session
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("session %s not found", id))
	}
	delete(s.sessions, id)
	return nil
}

// DeleteByUser removes every session belonging to a user
func (s *MemoryStore) DeleteByUser(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, session := range s.sessions {
		if session.UserID == userID {
			delete(s.sessions, id)
		}
	}
	return nil
}

// pruneLocked drops expired entries. Called with the write lock held, on
// every Create, so the map cannot grow past the number of live sessions
// plus the entries expired since the last login.
func (s *MemoryStore) pruneLocked() {
	now := time.Now()
	for id, session := range s.sessions {
		if !session.ExpiresAt.After(now) {
			delete(s.sessions, id)
		}
	}
}
