package storage

import (
	"context"
	"maps"
	"path/filepath"
	"slices"
	"sync"
)

// MemoryStore keeps files in memory. It is used by tests and dry runs.
type MemoryStore struct {
	mu    sync.RWMutex
	files map[string][]byte
	calls MemoryCalls
}

// MemoryCalls counts method invocations for test verification.
type MemoryCalls struct {
	Read   int
	Write  int
	Remove int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{files: make(map[string][]byte)}
}

// Root returns a fixed marker; memory stores have no location.
func (m *MemoryStore) Root() string {
	return "memory://"
}

// Read returns the content of rel.
func (m *MemoryStore) Read(ctx context.Context, rel string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key, err := memKey(rel)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls.Read++

	data, ok := m.files[key]
	if !ok {
		return nil, ErrNotFound{Path: rel}
	}
	return slices.Clone(data), nil
}

// Write stores a copy of data at rel.
func (m *MemoryStore) Write(ctx context.Context, rel string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key, err := memKey(rel)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls.Write++
	m.files[key] = slices.Clone(data)
	return nil
}

// Remove deletes rel.
func (m *MemoryStore) Remove(ctx context.Context, rel string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key, err := memKey(rel)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls.Remove++

	if _, ok := m.files[key]; !ok {
		return ErrNotFound{Path: rel}
	}
	delete(m.files, key)
	return nil
}

// Paths lists stored paths in sorted order.
func (m *MemoryStore) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.files))
}

// Calls returns a snapshot of the call counters.
func (m *MemoryStore) Calls() MemoryCalls {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls
}

func memKey(rel string) (string, error) {
	p, err := cleanRel(rel)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(p), nil
}
