package cache

import (
	"sync"
	"time"
)

// DefaultMemoryTTL is how long an in-process entry stays fresh.
const DefaultMemoryTTL = 5 * time.Minute

// Entry is a cached value with the time it was stored.
type Entry[T any] struct {
	Key       string
	Value     T
	Timestamp time.Time
}

// Memory is the short-lived in-process tier. Expiry is checked on read;
// nothing is evicted in the background.
type Memory[T any] struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]Entry[T]
}

// NewMemory creates an in-process tier with the given TTL.
func NewMemory[T any](ttl time.Duration) *Memory[T] {
	if ttl <= 0 {
		ttl = DefaultMemoryTTL
	}
	return &Memory[T]{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]Entry[T]),
	}
}

// Get returns the entry for key if present and not expired.
func (m *Memory[T]) Get(key string) Result[T] {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok || m.now().Sub(e.Timestamp) >= m.ttl {
		return miss[T]()
	}
	return Result[T]{Value: e.Value, Status: StatusHit, Source: SourceMemory}
}

// Set stores value under key, stamped with the current time.
func (m *Memory[T]) Set(key string, value T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = Entry[T]{Key: key, Value: value, Timestamp: m.now()}
}

// Clear drops every entry.
func (m *Memory[T]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]Entry[T])
}

// Len returns the number of entries held, expired or not.
func (m *Memory[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
