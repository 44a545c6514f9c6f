// Package store provides session.Store implementations: an in-process
// cache and a JSON file that survives restarts.
package store

import (
	"context"

	"github.com/patrickmn/go-cache"
)

// Memory keeps values in process memory. Entries never expire.
type Memory struct {
	cache *cache.Cache
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{cache: cache.New(cache.NoExpiration, 0)}
}

// Get returns the value stored under key.
func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	v, found := m.cache.Get(key)
	if !found {
		return "", false, nil
	}
	s, ok := v.(string)
	return s, ok, nil
}

// Set stores value under key.
func (m *Memory) Set(_ context.Context, key, value string) error {
	m.cache.Set(key, value, cache.NoExpiration)
	return nil
}

// Delete removes key; absent keys are ignored.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.cache.Delete(key)
	return nil
}
