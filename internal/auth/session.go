package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Identity is the authenticated caller attached to a session. IsAdmin is a
// snapshot from login time only; authorization re-reads the provider row.
type Identity struct {
	ProviderID uuid.UUID `json:"provider_id"`
	Username   string    `json:"username"`
	IsAdmin    bool      `json:"is_admin"`
}

// SessionStore keeps opaque session tokens in Redis with a TTL.
type SessionStore struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewSessionStore creates a session store. A non-positive TTL falls back to
// twelve hours.
func NewSessionStore(redisClient *redis.Client, ttl time.Duration) *SessionStore {
	if redisClient == nil {
		panic("auth: redis client required")
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &SessionStore{redis: redisClient, ttl: ttl}
}

func (s *SessionStore) key(token string) string {
	return fmt.Sprintf("session:%s", token)
}

// Create stores the identity under a fresh random token and returns it.
func (s *SessionStore) Create(ctx context.Context, id Identity) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("auth: generate token: %w", err)
	}
	token := hex.EncodeToString(raw)

	data, err := json.Marshal(id)
	if err != nil {
		return "", fmt.Errorf("auth: marshal session: %w", err)
	}
	if err := s.redis.Set(ctx, s.key(token), data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("auth: store session: %w", err)
	}
	return token, nil
}

// Get resolves a token to its identity.
func (s *SessionStore) Get(ctx context.Context, token string) (*Identity, error) {
	data, err := s.redis.Get(ctx, s.key(token)).Bytes()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("auth: get session: %w", err)
	}
	var id Identity
	if err := json.Unmarshal(data, &id); err != nil {
		return nil, fmt.Errorf("auth: unmarshal session: %w", err)
	}
	return &id, nil
}

// Delete revokes a token. Deleting an unknown token is a no-op.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	if err := s.redis.Del(ctx, s.key(token)).Err(); err != nil {
		return fmt.Errorf("auth: delete session: %w", err)
	}
	return nil
}
