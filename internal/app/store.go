package app

import (
	"go.trai.ch/hotspot/internal/adapters/cas"
	"go.trai.ch/hotspot/internal/adapters/memory"
	"go.trai.ch/hotspot/internal/adapters/sqlite"
	"go.trai.ch/hotspot/internal/core/domain"
	"go.trai.ch/hotspot/internal/core/ports"
	"go.trai.ch/zerr"
)

// openStore creates the entry store selected by cfg. An empty path resolves to the
// driver's default location under the system temp directory.
func openStore(cfg domain.StoreConfig) (ports.EntryStore, error) {
	path := cfg.Path
	if path == "" {
		path = domain.DefaultStorePath(cfg.Driver)
	}

	switch cfg.Driver {
	case domain.StoreDriverSQLite, "":
		store, err := sqlite.Open(path)
		if err != nil {
			return nil, zerr.Wrap(err, "failed to open cache store")
		}
		return store, nil
	case domain.StoreDriverFile:
		return cas.NewStore(path), nil
	case domain.StoreDriverMemory:
		return memory.NewStore(), nil
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrUnknownStoreDriver, "cannot open cache store"), "driver", cfg.Driver)
	}
}
