// Package sqlite implements the durable entry store on a SQLite database file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // Registers the sqlite3 driver
	"go.trai.ch/hotspot/internal/core/domain"
	"go.trai.ch/hotspot/internal/core/ports"
	"go.trai.ch/zerr"
)

const schema = `CREATE TABLE IF NOT EXISTS hotspot_cache (
	content_key TEXT PRIMARY KEY,
	entry_point TEXT NOT NULL,
	code TEXT NOT NULL,
	output TEXT NOT NULL,
	stored_at DATETIME
);`

var _ ports.EntryStore = (*Store)(nil)

// Store implements ports.EntryStore with a single SQLite table.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens the database at path, creating the file and its directory when absent.
// An existing file that is not a valid database yields domain.ErrStoreCorrupt.
func Open(path string) (*Store, error) {
	path = filepath.Clean(path)

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, zerr.With(zerr.Wrap(errors.Join(domain.ErrStoreUnavailable, err), "failed to create directory for cache store"), "path", path)
	}

	existed := Exists(path)

	// Writers from other processes wait on the busy timeout instead of failing.
	dsn := fmt.Sprintf("file:%s?mode=rwc&_journal_mode=WAL&_busy_timeout=5000", escapePath(path))
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(errors.Join(domain.ErrStoreUnavailable, err), "failed to open cache store"), "path", path)
	}

	if err := migrate(db); err != nil {
		_ = db.Close()
		sentinel := domain.ErrStoreUnavailable
		if existed {
			sentinel = domain.ErrStoreCorrupt
		}
		return nil, zerr.With(zerr.Wrap(errors.Join(sentinel, err), "failed to initialize cache store"), "path", path)
	}

	return &Store{db: db, path: path}, nil
}

func migrate(db *sql.DB) error {
	if err := db.Ping(); err != nil {
		return err
	}
	_, err := db.Exec(schema)
	return err
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads every row of the cache table.
func (s *Store) Load(ctx context.Context) (map[domain.ContentKey]domain.CacheEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT content_key, entry_point, code, output, stored_at FROM hotspot_cache`)
	if err != nil {
		return nil, s.corrupt(err, "failed to query cache store")
	}
	defer rows.Close() //nolint:errcheck // Read-only cursor

	entries := make(map[domain.ContentKey]domain.CacheEntry)
	for rows.Next() {
		var (
			entry    domain.CacheEntry
			key      string
			storedAt sql.NullTime
		)
		if err := rows.Scan(&key, &entry.EntryPoint, &entry.Code, &entry.Output, &storedAt); err != nil {
			return nil, s.corrupt(err, "failed to scan cache entry")
		}
		entry.Key = domain.ContentKey(key)
		if storedAt.Valid {
			entry.StoredAt = storedAt.Time.UTC()
		}
		entries[entry.Key] = entry
	}
	if err := rows.Err(); err != nil {
		return nil, s.corrupt(err, "failed to read cache store")
	}

	return entries, nil
}

// Put inserts or replaces the row for entry.Key.
func (s *Store) Put(ctx context.Context, entry domain.CacheEntry) error {
	storedAt := entry.StoredAt
	if storedAt.IsZero() {
		storedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO hotspot_cache (content_key, entry_point, code, output, stored_at) VALUES (?, ?, ?, ?, ?)`,
		entry.Key.String(), entry.EntryPoint, entry.Code, entry.Output, storedAt,
	)
	if err != nil {
		return s.unavailable(err, "failed to write cache entry")
	}
	return nil
}

// Clear deletes every row.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM hotspot_cache`); err != nil {
		return s.unavailable(err, "failed to clear cache store")
	}
	return nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return zerr.Wrap(err, "failed to close cache store")
	}
	return nil
}

func (s *Store) corrupt(err error, msg string) error {
	return zerr.With(zerr.Wrap(errors.Join(domain.ErrStoreCorrupt, err), msg), "path", s.path)
}

func (s *Store) unavailable(err error, msg string) error {
	return zerr.With(zerr.Wrap(errors.Join(domain.ErrStoreUnavailable, err), msg), "path", s.path)
}

// Exists reports whether a database file is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}

// escapePath percent-encodes path for a SQLite URI so '?', '#' and '%' are not read as
// query or fragment delimiters.
func escapePath(path string) string {
	return (&url.URL{Path: filepath.ToSlash(path)}).EscapedPath()
}
