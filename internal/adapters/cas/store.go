// Package cas implements a content-addressed entry store with one JSON document per key.
package cas

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/hotspot/internal/core/domain"
	"go.trai.ch/hotspot/internal/core/ports"
	"go.trai.ch/zerr"
)

const ext = ".json"

var _ ports.EntryStore = (*Store)(nil)

// Store implements ports.EntryStore as a directory of <key>.json files.
// Each Put replaces a single file via rename, so concurrent writers never leave a
// half-written record and the last writer wins per key.
type Store struct {
	dir string
}

// NewStore creates a Store rooted at dir. The directory is created on first write.
func NewStore(dir string) *Store {
	return &Store{dir: filepath.Clean(dir)}
}

// Dir returns the directory holding the entries.
func (s *Store) Dir() string {
	return s.dir
}

// Load reads every entry in the store directory.
func (s *Store) Load(_ context.Context) (map[domain.ContentKey]domain.CacheEntry, error) {
	entries := make(map[domain.ContentKey]domain.CacheEntry)

	files, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return entries, nil
		}
		return nil, zerr.With(zerr.Wrap(errors.Join(domain.ErrStoreCorrupt, err), "failed to read cache store"), "path", s.dir)
	}

	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ext) {
			continue
		}
		entry, err := s.readEntry(filepath.Join(s.dir, f.Name()))
		if err != nil {
			return nil, err
		}
		entries[entry.Key] = entry
	}

	return entries, nil
}

func (s *Store) readEntry(path string) (domain.CacheEntry, error) {
	//nolint:gosec // Path is built from the store directory
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.CacheEntry{}, zerr.With(zerr.Wrap(errors.Join(domain.ErrStoreCorrupt, err), "failed to read cache entry"), "path", path)
	}

	var entry domain.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return domain.CacheEntry{}, zerr.With(zerr.Wrap(errors.Join(domain.ErrStoreCorrupt, err), "failed to unmarshal cache entry"), "path", path)
	}

	if want := strings.TrimSuffix(filepath.Base(path), ext); string(entry.Key) != want {
		return domain.CacheEntry{}, zerr.With(zerr.Wrap(domain.ErrStoreCorrupt, "cache entry key does not match file name"), "path", path)
	}

	return entry, nil
}

// Put writes entry to <dir>/<key>.json, replacing any previous version.
func (s *Store) Put(_ context.Context, entry domain.CacheEntry) error {
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal cache entry")
	}

	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return s.unavailable(err, "failed to create directory for cache store")
	}

	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return s.unavailable(err, "failed to create cache entry")
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // Gone after a successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return s.unavailable(err, "failed to write cache entry")
	}
	if err := tmp.Close(); err != nil {
		return s.unavailable(err, "failed to write cache entry")
	}

	if err := os.Rename(tmp.Name(), s.path(entry.Key)); err != nil {
		return s.unavailable(err, "failed to commit cache entry")
	}

	return nil
}

// Clear removes every entry file.
func (s *Store) Clear(_ context.Context) error {
	files, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return s.unavailable(err, "failed to read cache store")
	}

	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ext) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, f.Name())); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return s.unavailable(err, "failed to remove cache entry")
		}
	}
	return nil
}

// Close does nothing; every write is committed when Put returns.
func (s *Store) Close() error {
	return nil
}

func (s *Store) path(key domain.ContentKey) string {
	return filepath.Join(s.dir, key.String()+ext)
}

func (s *Store) unavailable(err error, msg string) error {
	return zerr.With(zerr.Wrap(errors.Join(domain.ErrStoreUnavailable, err), msg), "path", s.dir)
}
