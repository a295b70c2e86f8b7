// Package tokenstore persists the session token across process restarts.
package tokenstore

import (
	"errors"
	"sync"
)

// ErrNotFound is returned by Load when no token has been saved
var ErrNotFound = errors.New("token not found")

// Store is durable key/value storage holding a single token
type Store interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
	Close() error
}

// MemoryStore keeps the token in memory only
type MemoryStore struct {
	mu    sync.Mutex
	token string
}

// NewMemoryStore returns an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == "" {
		return "", ErrNotFound
	}
	return m.token, nil
}

func (m *MemoryStore) Save(token string) error {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	m.token = ""
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Close() error { return nil }
