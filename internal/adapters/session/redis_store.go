package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/osarobo/threadcart/backend/internal/domain/entities"
	"github.com/osarobo/threadcart/backend/internal/domain/repositories"
	redisclient "github.com/osarobo/threadcart/backend/internal/infrastructure/clients/redis"
	apperrors "github.com/osarobo/threadcart/backend/pkg/errors"
)

const (
	sessionKeyPrefix = "session:"
	userSessionsKey  = "user_sessions:"
)

// RedisStore implements SessionRepository on Redis. Each session lives
// under its own key with a TTL matching the token expiry, and a per-user
// set tracks the session IDs so DeleteByUser can revoke all of them.
type RedisStore struct {
	client *redisclient.Client
}

// NewRedisStore creates a new Redis-backed session store
func NewRedisStore(client *redisclient.Client) repositories.SessionRepository {
	return &RedisStore{client: client}
}

// Create stores a session until its expiry
func (s *RedisStore) Create(ctx context.Context, session *entities.Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return apperrors.NewValidationError("session is already expired")
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return apperrors.NewInternalError("failed to encode session", err)
	}

	rdb := s.client.Client()
	if err := rdb.Set(ctx, sessionKeyPrefix+session.ID, payload, ttl).Err(); err != nil {
		return apperrors.NewInternalError("failed to store session", err)
	}

	// Track the ID for DeleteByUser; stale members simply point at
	// expired keys. Sessions share one TTL, so this Expire always
	// carries the latest (longest-remaining) expiry for the set.
	userKey := userSessionsKey + session.UserID
	if err := rdb.SAdd(ctx, userKey, session.ID).Err(); err != nil {
		return apperrors.NewInternalError("failed to track session", err)
	}
	if err := rdb.Expire(ctx, userKey, ttl).Err(); err != nil {
		return apperrors.NewInternalError("failed to expire session set", err)
	}

	return nil
}

// Get retrieves a session by its token ID
func (s *RedisStore) Get(ctx context.Context, id string) (*entities.Session, error) {
	payload, err := s.client.Client().Get(ctx, sessionKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("session %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to read session", err)
	}

	session := &entities.Session{}
	if err := json.Unmarshal(payload, session); err != nil {
		return nil, apperrors.NewInternalError("failed to decode session", err)
	}

	return session, nil
}

// Delete removes a single session
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	deleted, err := s.client.Client().Del(ctx, sessionKeyPrefix+id).Result()
	if err != nil {
		return apperrors.NewInternalError("failed to delete session", err)
	}
	if deleted == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("session %s not found", id))
	}
	return nil
}

// DeleteByUser removes every session belonging to a user
func (s *RedisStore) DeleteByUser(ctx context.Context, userID string) error {
	rdb := s.client.Client()
	userKey := userSessionsKey + userID

	ids, err := rdb.SMembers(ctx, userKey).Result()
	if err != nil {
		return apperrors.NewInternalError("failed to list user sessions", err)
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, sessionKeyPrefix+id)
	}
	keys = append(keys, userKey)

	if err := rdb.Del(ctx, keys...).Err(); err != nil {
		return apperrors.NewInternalError("failed to delete user sessions", err)
	}
	return nil
}
