// Package session persists the client's authentication state: a bearer token
// and the cached user record it was issued for. Token and user travel
// together; a store never holds one without the other.
package session

import (
	"sync"

	"github.com/hoyo-tech/hoyo-client/internal/model/account"
)

// Store exposes the persisted session to the API client and auth controller.
// All operations are synchronous and idempotent.
type Store interface {
	// Token returns the bearer token, if one is stored.
	Token() (string, bool)
	// User returns a copy of the cached user record, if one is stored.
	User() (account.User, bool)
	// Set stores token and user together, replacing any previous session.
	Set(token string, user account.User) error
	// Clear removes both token and user. Clearing an empty store is a no-op.
	Clear() error
}

// MemoryStore implements Store without durability, for tests and embedding.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
	user  account.User
	set   bool
}

// NewMemoryStore returns an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Token returns the stored bearer token.
func (s *MemoryStore) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.set {
		return "", false
	}
	return s.token, true
}

// User returns a copy of the stored user.
func (s *MemoryStore) User() (account.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.set {
		return account.User{}, false
	}
	return s.user, true
}

// Set stores the session.
func (s *MemoryStore) Set(token string, user account.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user
	s.set = true
	return nil
}

// Clear drops the session.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = account.User{}
	s.set = false
	return nil
}
