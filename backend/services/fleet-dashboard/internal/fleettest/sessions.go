package fleettest

import (
	"context"
	"sync"
	"time"

	"fleetdash/backend/services/fleet-dashboard/internal/session"
)

// SessionStore is an in-memory session.Store.
type SessionStore struct {
	mu  sync.Mutex
	ids map[string]session.Identity
}

// NewSessionStore returns an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{ids: map[string]session.Identity{}}
}

// Save records id.
func (s *SessionStore) Save(_ context.Context, id session.Identity, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids[id.SessionID] = id
	return nil
}

// Exists reports whether sid is recorded.
func (s *SessionStore) Exists(_ context.Context, sid string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[sid]
	return ok, nil
}

// Delete forgets sid.
func (s *SessionStore) Delete(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.ids, sid)
	return nil
}

// Len is the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}
