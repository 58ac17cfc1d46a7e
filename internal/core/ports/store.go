package ports

import (
	"context"

	"go.trai.ch/hotspot/internal/core/domain"
)

// EntryStore is the durable record of cache entries, keyed by content key.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type EntryStore interface {
	// Load returns every stored entry. A store that does not exist yet yields an empty map.
	// A store that exists but cannot be read returns an error wrapping domain.ErrStoreCorrupt.
	Load(ctx context.Context) (map[domain.ContentKey]domain.CacheEntry, error)

	// Put inserts or replaces the entry with the same key. Once Put returns nil the entry
	// survives a process restart.
	Put(ctx context.Context, entry domain.CacheEntry) error

	// Clear removes every stored entry.
	Clear(ctx context.Context) error

	// Close releases resources held by the store.
	Close() error
}
