package app

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"go.trai.ch/hotspot/internal/core/domain"
	"go.trai.ch/hotspot/internal/core/ports"
	"go.trai.ch/zerr"
)

// previewLength bounds the output shown per entry by List.
const previewLength = 40

// List prints every stored entry, oldest first.
func (a *App) List(ctx context.Context, opts CommonOptions) error {
	cfg, err := a.loadConfig(opts)
	if err != nil {
		return err
	}

	store, err := openStore(cfg.Store)
	if err != nil {
		return err
	}
	defer a.closeStore(store)

	entries, err := store.Load(ctx)
	if err != nil {
		return zerr.Wrap(err, "failed to load cache entries")
	}

	sorted := slices.SortedFunc(maps.Values(entries), func(x, y domain.CacheEntry) int {
		if c := x.StoredAt.Compare(y.StoredAt); c != 0 {
			return c
		}
		return cmp.Compare(x.Key, y.Key)
	})

	tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "KEY\tENTRY POINT\tSTORED\tOUTPUT")
	for _, e := range sorted {
		stored := "-"
		if !e.StoredAt.IsZero() {
			stored = e.StoredAt.UTC().Format(time.RFC3339)
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Key.Short(), e.EntryPoint, stored, preview(e.Output))
	}
	if err := tw.Flush(); err != nil {
		return zerr.Wrap(err, "failed to write entry list")
	}
	return nil
}

// Clean removes every stored entry.
func (a *App) Clean(ctx context.Context, opts CommonOptions) error {
	cfg, err := a.loadConfig(opts)
	if err != nil {
		return err
	}

	store, err := openStore(cfg.Store)
	if errors.Is(err, domain.ErrStoreCorrupt) && cfg.Store.Driver != domain.StoreDriverFile {
		return a.removeCorrupt(cfg.Store, err)
	}
	if err != nil {
		return err
	}
	defer a.closeStore(store)

	entries, err := store.Load(ctx)
	if err != nil {
		a.logger.Warn("clearing unreadable cache store: " + err.Error())
		entries = nil
	}

	if err := store.Clear(ctx); err != nil {
		a.recorder.ObserveStore(ports.StoreOperationClear, ports.StoreResultError)
		return zerr.Wrap(err, "failed to clear cache store")
	}
	a.recorder.ObserveStore(ports.StoreOperationClear, ports.StoreResultOK)

	a.logger.Info("removed " + strconv.Itoa(len(entries)) + " cache entries")
	return nil
}

// removeCorrupt deletes a database file that can no longer be opened.
func (a *App) removeCorrupt(cfg domain.StoreConfig, cause error) error {
	path := cfg.Path
	if path == "" {
		path = domain.DefaultStorePath(cfg.Driver)
	}
	a.logger.Warn("removing corrupt cache store: " + cause.Error())
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return zerr.With(zerr.Wrap(err, "failed to remove corrupt cache store"), "path", p)
		}
	}
	a.logger.Info("removed corrupt cache store " + path)
	return nil
}

func preview(output string) string {
	line, _, multi := strings.Cut(output, "\n")
	r := []rune(line)
	if len(r) > previewLength {
		return string(r[:previewLength]) + "…"
	}
	if multi {
		return line + " …"
	}
	return line
}
