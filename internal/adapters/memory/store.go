// Package memory implements a process-local entry store.
package memory

import (
	"context"
	"maps"
	"sync"

	"go.trai.ch/hotspot/internal/core/domain"
	"go.trai.ch/hotspot/internal/core/ports"
)

var _ ports.EntryStore = (*Store)(nil)

// Store keeps cache entries in memory only. Entries do not survive a restart of the process,
// but do survive recreating a Cache on the same Store.
type Store struct {
	mu      sync.RWMutex
	entries map[domain.ContentKey]domain.CacheEntry
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		entries: make(map[domain.ContentKey]domain.CacheEntry),
	}
}

// Load returns a copy of every entry.
func (s *Store) Load(_ context.Context) (map[domain.ContentKey]domain.CacheEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.entries), nil
}

// Put inserts or replaces the entry.
func (s *Store) Put(_ context.Context, entry domain.CacheEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.Key] = entry
	return nil
}

// Clear removes every entry.
func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.entries)
	return nil
}

// Close does nothing.
func (s *Store) Close() error {
	return nil
}
