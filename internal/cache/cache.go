// Package cache stores computed API responses keyed by their request.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Cache is a string key/value store. Get reports a miss with ok=false and
// a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Key derives a stable cache key from a namespace and a JSON-encodable
// request.
func Key(namespace string, req interface{}) (string, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encoding cache key: %w", err)
	}
	return namespace + ":" + strconv.FormatUint(xxhash.Sum64(data), 16), nil
}

// Memory is an in-process Cache, bounded to a fixed number of entries.
// When full, it drops everything and starts over.
type Memory struct {
	mu      sync.Mutex
	data    map[string]string
	maxSize int
}

// NewMemory creates a memory cache holding up to maxSize entries. A
// non-positive maxSize means 1024.
func NewMemory(maxSize int) *Memory {
	if maxSize <= 0 {
		maxSize = 1024
	}
	return &Memory{data: make(map[string]string), maxSize: maxSize}
}

// Get implements Cache.
func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

// Set implements Cache.
func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.data[key]; !exists && len(m.data) >= m.maxSize {
		m.data = make(map[string]string)
	}
	m.data[key] = value
	return nil
}

// Len returns the number of cached entries.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}
