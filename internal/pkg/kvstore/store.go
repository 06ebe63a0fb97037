// Package kvstore provides the durable key-value backends used to persist the
// dashboard session: SQLite (default, see kvstore/sqlite), Redis, and an
// in-memory store for tests and throwaway runs.
package kvstore

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("kvstore: key not found")

// Store is the interface every backend satisfies.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Memory is a process-local Store. It does not survive restarts.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *Memory) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
	return nil
}

func (m *Memory) Close() error { return nil }
