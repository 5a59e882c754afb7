// Package mocks provides mock implementations for testing.
package mocks

import (
	"context"
	"sync"
	"time"
)

// MockCache is an in-memory response cache that records calls and can be
// told to fail.
type MockCache struct {
	mu     sync.RWMutex
	data   map[string][]byte
	ttls   map[string]time.Duration
	gets   int
	sets   int
	GetErr error
	SetErr error
}

// NewMockCache creates an empty mock cache.
func NewMockCache() *MockCache {
	return &MockCache{
		data: make(map[string][]byte),
		ttls: make(map[string]time.Duration),
	}
}

// Get returns the stored value, nil when missing.
func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.gets++
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	val, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), val...), nil
}

// Set stores a value and its TTL.
func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sets++
	if m.SetErr != nil {
		return m.SetErr
	}
	m.data[key] = append([]byte(nil), value...)
	m.ttls[key] = ttl
	return nil
}

// Keys returns the stored keys.
func (m *MockCache) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	return keys
}

// TTL returns the TTL a key was stored with.
func (m *MockCache) TTL(key string) time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ttls[key]
}

// Calls returns the number of Get and Set calls.
func (m *MockCache) Calls() (gets, sets int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.gets, m.sets
}

// Clear drops all stored values.
func (m *MockCache) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string][]byte)
	m.ttls = make(map[string]time.Duration)
}
