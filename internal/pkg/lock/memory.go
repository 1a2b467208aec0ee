package lock

import (
	"context"
	"sync"
	"time"

	"github.com/shandysiswandi/otpbite/internal/pkg/clock"
)

// Memory is a process-local Locker.
type Memory struct {
	mu     sync.Mutex
	clock  clock.Clocker
	leases map[string]lease
	seq    uint64
}

type lease struct {
	id        uint64
	expiresAt time.Time
}

// NewMemory returns an in-process locker.
func NewMemory(clk clock.Clocker) *Memory {
	return &Memory{clock: clk, leases: make(map[string]lease)}
}

// Acquire implements Locker.
func (l *Memory) Acquire(_ context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	if cur, ok := l.leases[key]; ok && now.Before(cur.expiresAt) {
		return nil, ErrNotAcquired
	}

	l.seq++
	id := l.seq
	l.leases[key] = lease{id: id, expiresAt: now.Add(ttl)}

	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		if cur, ok := l.leases[key]; ok && cur.id == id {
			delete(l.leases, key)
		}
		return nil
	}, nil
}
