package services

import (
	"context"
	"sync"
	"time"
)

// memoryThrottleStore is the single-process ThrottleStore used in dev mode
// and tests. Production deployments inject the redis-backed store so the
// window holds across replicas.
type memoryThrottleStore struct {
	mu   sync.Mutex
	last map[string]time.Time
}

func NewMemoryThrottleStore() ThrottleStore {
	return &memoryThrottleStore{last: make(map[string]time.Time)}
}

func (m *memoryThrottleStore) Allow(_ context.Context, phone string, window time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	if t, ok := m.last[phone]; ok && now.Sub(t) < window {
		return false, nil
	}
	m.last[phone] = now
	return true, nil
}
