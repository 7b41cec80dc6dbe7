package session

import (
	"context"
	"time"
)

// Store keeps server-side session records so a session can be revoked before
// its token expires.
type Store interface {
	Save(ctx context.Context, id Identity, ttl time.Duration) error
	Exists(ctx context.Context, sessionID string) (bool, error)
	Delete(ctx context.Context, sessionID string) error
}

// StatelessStore is used when no Redis is configured: the signed token is
// authoritative and logout can only expire the cookie.
type StatelessStore struct{}

// Save is a no-op.
func (StatelessStore) Save(context.Context, Identity, time.Duration) error { return nil }

// Exists always reports true.
func (StatelessStore) Exists(context.Context, string) (bool, error) { return true, nil }

// Delete is a no-op.
func (StatelessStore) Delete(context.Context, string) error { return nil }
