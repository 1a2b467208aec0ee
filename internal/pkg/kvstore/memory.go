package kvstore

import (
	"context"
	"sync"
	"time"

	"github.com/shandysiswandi/otpbite/internal/pkg/clock"
	"github.com/shandysiswandi/otpbite/internal/pkg/goerror"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// Memory implements Store in process memory. Expired entries are dropped on access.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	clock   clock.Clocker
}

// NewMemory returns an empty in-memory store.
func NewMemory(c clock.Clocker) *Memory {
	if c == nil {
		c = clock.New()
	}

	return &Memory{entries: make(map[string]memoryEntry), clock: c}
}

// Put stores a copy of value under key.
func (m *Memory) Put(_ context.Context, key string, value []byte, ttl time.Duration) error {
	entry := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		entry.expiresAt = m.clock.Now().Add(ttl)
	}

	m.mu.Lock()
	m.entries[key] = entry
	m.mu.Unlock()

	return nil
}

// Get returns a copy of the value stored under key.
func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return nil, goerror.ErrNotFound
	}

	if !entry.expiresAt.IsZero() && !m.clock.Now().Before(entry.expiresAt) {
		delete(m.entries, key)
		return nil, goerror.ErrNotFound
	}

	return append([]byte(nil), entry.value...), nil
}

// Delete removes key.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()

	return nil
}
