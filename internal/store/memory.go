package store

import (
	"context"
	"maps"
	"sync"

	"github.com/lox/blackjack/internal/game"
)

// Memory is a KV held in process memory.
type Memory struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemory returns an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{values: make(map[string][]byte)}
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return nil, game.Wrapf(ErrNotFound, "%s", key)
	}
	return append([]byte(nil), v...), nil
}

func (m *Memory) All(ctx context.Context) (map[string][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.values), nil
}

func (m *Memory) Replace(ctx context.Context, values map[string][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = maps.Clone(values)
	return nil
}

func (m *Memory) Close() error { return nil }
