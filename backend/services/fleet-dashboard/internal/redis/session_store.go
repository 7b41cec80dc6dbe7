package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"fleetdash/backend/services/fleet-dashboard/internal/session"
)

// SessionStore keeps login sessions in Redis so logout revokes them.
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore returns redis-backed store.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func (s *SessionStore) key(sessionID string) string {
	return fmt.Sprintf("fleet:session:%s", sessionID)
}

// Save records the session with the token's lifetime.
func (s *SessionStore) Save(ctx context.Context, id session.Identity, ttl time.Duration) error {
	data, err := json.Marshal(id)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(id.SessionID), data, ttl).Err()
}

// Exists reports whether the session is still recorded.
func (s *SessionStore) Exists(ctx context.Context, sessionID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(sessionID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Delete revokes the session.
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.key(sessionID)).Err()
}
