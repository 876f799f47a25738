package storage

import (
	"context"
	"fmt"
	"sync"

	apperrors "github.com/jrsteele09/merchant-portal/internal/errors"
	"github.com/jrsteele09/merchant-portal/sessions"
)

var _ sessions.Storage = (*InMemory)(nil)

// InMemory keeps values in a process-local map. Contents are lost on restart.
type InMemory struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewInMemory() *InMemory {
	return &InMemory{
		values: make(map[string][]byte),
	}
}

func (m *InMemory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.values[key]
	if !ok {
		return nil, fmt.Errorf("key %q: %w", key, apperrors.ErrNotFound)
	}
	// Copy so callers can't modify the stored value
	return append([]byte(nil), value...), nil
}

func (m *InMemory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = append([]byte(nil), value...)
	return nil
}

func (m *InMemory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
	return nil
}
