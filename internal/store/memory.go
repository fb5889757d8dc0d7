package store

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store used by tests and throwaway sessions.
// It honors the same contract as the SQLite store, including atomic Update.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.get(key), nil
}

func (m *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set(key, value)
	return nil
}

func (m *MemoryStore) Remove(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Update holds the store lock for the duration of fn, so the cycle observes
// and applies its changes as one unit.
func (m *MemoryStore) Update(ctx context.Context, fn func(ctx context.Context, s Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx, memView{m})
}

func (m *MemoryStore) get(key string) []byte {
	v, ok := m.data[key]
	if !ok {
		return nil
	}
	cp := make([]byte, len(v))
	copy(cp, v)
	return cp
}

func (m *MemoryStore) set(key string, value []byte) {
	cp := make([]byte, len(value))
	copy(cp, value)
	m.data[key] = cp
}

// memView accesses the map without re-locking; it is only ever handed to fn
// while Update holds the lock.
type memView struct {
	s *MemoryStore
}

func (v memView) Get(ctx context.Context, key string) ([]byte, error) {
	return v.s.get(key), nil
}

func (v memView) Set(ctx context.Context, key string, value []byte) error {
	v.s.set(key, value)
	return nil
}

func (v memView) Remove(ctx context.Context, key string) error {
	delete(v.s.data, key)
	return nil
}

func (v memView) Update(ctx context.Context, fn func(ctx context.Context, s Store) error) error {
	return fn(ctx, v)
}
