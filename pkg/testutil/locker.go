package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/vinopick/backend/pkg/xredis"
)

// MockLocker is an in-process xredis.Locker.
type MockLocker struct {
	LockFunc func(ctx context.Context, key string, ttl time.Duration) (string, error)

	mu   sync.Mutex
	held map[string]string
}

func (m *MockLocker) Lock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if m.LockFunc != nil {
		return m.LockFunc(ctx, key, ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.held == nil {
		m.held = map[string]string{}
	}

	if _, ok := m.held[key]; ok {
		return "", xredis.ErrLocked
	}

	m.held[key] = key
	return key, nil
}

func (m *MockLocker) Unlock(ctx context.Context, key, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.held[key] == token {
		delete(m.held, key)
	}

	return nil
}

func (m *MockLocker) Held(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.held[key]
	return ok
}
