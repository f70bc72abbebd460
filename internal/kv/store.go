// Package kv holds the schema-less key-value backends behind autosave and
// submission storage. Values are opaque JSON bytes; every write is an
// unconditional overwrite.
package kv

import (
	"context"
	"sync"
)

// Store is a last-write-wins key-value store.
type Store interface {
	// Get returns the value for key. found is false, with a nil error, when
	// the key has never been written.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	// Set overwrites the value for key.
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Memory is an in-process Store, used by default in development and in tests.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{data: map[string][]byte{}}
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *Memory) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

// Keys returns the number of stored keys.
func (m *Memory) Keys() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

func (m *Memory) Close() error { return nil }
