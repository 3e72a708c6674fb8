// Package statestore provides the short-TTL key/value store backing
// analysis-result memoization and one-shot OAuth state tokens.
package statestore

import (
	"context"
	"sync"
	"time"
)

// ErrMiss signals an absent (or expired) key in a typed way so callers
// can tell misses apart from transport errors.
var ErrMiss = errMiss{}

type errMiss struct{}

func (errMiss) Error() string { return "statestore: key not found" }

// Store is the minimal contract the application depends on.
// Implementations must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Memory is an in-process fallback used by tests and local development
// when no redis is available.
type Memory struct {
	mu      sync.Mutex
	values  map[string]string
	expires map[string]time.Time
}

func NewMemory() *Memory {
	return &Memory{
		values:  make(map[string]string),
		expires: make(map[string]time.Time),
	}
}

func (m *Memory) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if deadline, ok := m.expires[key]; ok && time.Now().After(deadline) {
		delete(m.values, key)
		delete(m.expires, key)
	}
	value, ok := m.values[key]
	if !ok {
		return "", ErrMiss
	}
	return value, nil
}

func (m *Memory) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value
	if ttl > 0 {
		m.expires[key] = time.Now().Add(ttl)
	} else {
		delete(m.expires, key)
	}
	return nil
}

func (m *Memory) Del(ctx context.Context, keys ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range keys {
		delete(m.values, key)
		delete(m.expires, key)
	}
	return nil
}
