// Package hotspot implements the hotness-tracked execution cache.
//
// A code unit is compiled and run by the backend for its first warm-up runs. Once its
// run count exceeds the warm-up threshold and a successful output is cached, further
// runs return the cached output without touching the toolchain.
//
// Serving cached output is only sound for deterministic code units without externally
// observable side effects. Callers must only submit such units.
package hotspot

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/hotspot/internal/core/domain"
	"go.trai.ch/hotspot/internal/core/ports"
	"go.trai.ch/zerr"
)

// lockStripes is the number of per-key locks. Keys hashing to the same stripe are serialized.
const lockStripes = 64

// Cache decides, per code unit, whether to invoke the backend or serve a stored result.
type Cache struct {
	backend   ports.Backend
	store     ports.EntryStore
	extractor ports.EntryPointExtractor
	logger    ports.Logger
	metrics   ports.Metrics

	warmupRuns int
	now        func() time.Time

	mu      sync.RWMutex
	entries map[domain.ContentKey]domain.CacheEntry
	counts  map[domain.ContentKey]int

	stripes [lockStripes]sync.Mutex
}

// New creates a Cache and loads the entries already present in store.
// It fails when the store exists but is corrupt, so durable state is never silently dropped.
func New(
	ctx context.Context,
	backend ports.Backend,
	store ports.EntryStore,
	extractor ports.EntryPointExtractor,
	logger ports.Logger,
	opts ...Option,
) (*Cache, error) {
	c := &Cache{
		backend:    backend,
		store:      store,
		extractor:  extractor,
		logger:     logger,
		metrics:    noopMetrics{},
		warmupRuns: domain.DefaultWarmupRuns,
		now:        time.Now,
		counts:     make(map[domain.ContentKey]int),
	}
	for _, opt := range opts {
		opt(c)
	}

	entries, err := store.Load(ctx)
	if err != nil {
		c.metrics.ObserveStore(ports.StoreOperationLoad, ports.StoreResultError)
		return nil, zerr.Wrap(err, "failed to load cache entries")
	}
	c.metrics.ObserveStore(ports.StoreOperationLoad, ports.StoreResultOK)
	if entries == nil {
		entries = make(map[domain.ContentKey]domain.CacheEntry)
	}
	c.entries = entries
	c.logger.Debug("loaded " + strconv.Itoa(len(entries)) + " cache entries")

	return c, nil
}

// Run executes code, or serves its cached output once the unit is hot.
//
// Extraction failures return before the run count is touched. Compile and runtime
// failures are returned as errors, count as a run and leave no entry behind.
// A failure to persist a successful result does not fail the call; it is reported
// through Result.PersistErr.
func (c *Cache) Run(ctx context.Context, code string) (domain.Result, error) {
	start := c.now()

	entryPoint, err := c.extractor.Extract(code)
	if err != nil {
		c.metrics.ObserveRun(domain.TierJIT, ports.OutcomeNotFound, c.now().Sub(start))
		return domain.Result{}, err
	}

	key := domain.NewContentKey(code)

	lock := c.lockFor(key)
	lock.Lock()
	defer lock.Unlock()

	run, entry, cached := c.advance(key)

	if run > c.warmupRuns && cached {
		c.logger.Debug("serving optimized output for " + entryPoint + " (" + key.Short() + ")")
		c.metrics.ObserveRun(domain.TierOptimized, ports.OutcomeSuccess, c.now().Sub(start))
		return domain.Result{
			Key:        key,
			EntryPoint: entry.EntryPoint,
			Tier:       domain.TierOptimized,
			Output:     entry.Output,
			Run:        run,
		}, nil
	}

	c.logger.Debug("compiling " + entryPoint + " (" + key.Short() + "), run " + strconv.Itoa(run))
	output, err := c.backend.CompileAndRun(ctx, code, entryPoint)
	if err != nil {
		c.metrics.ObserveRun(domain.TierJIT, outcomeOf(err), c.now().Sub(start))
		c.logger.Debug("run " + strconv.Itoa(run) + " of " + entryPoint + " failed")
		return domain.Result{}, err
	}

	res := domain.Result{
		Key:        key,
		EntryPoint: entryPoint,
		Tier:       domain.TierJIT,
		Output:     output,
		Run:        run,
		Executed:   true,
	}
	res.PersistErr = c.remember(ctx, domain.CacheEntry{
		Key:        key,
		EntryPoint: entryPoint,
		Code:       code,
		Output:     output,
		StoredAt:   c.now().UTC(),
	})

	c.metrics.ObserveRun(domain.TierJIT, ports.OutcomeSuccess, c.now().Sub(start))
	return res, nil
}

// Runs returns the current run count of key.
func (c *Cache) Runs(key domain.ContentKey) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.counts[key]
}

// Entry returns the cached entry for key, if any.
func (c *Cache) Entry(key domain.ContentKey) (domain.CacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[key]
	return entry, ok
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// advance increments the run count of key and returns it with the current entry.
func (c *Cache) advance(key domain.ContentKey) (int, domain.CacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[key]++
	entry, ok := c.entries[key]
	return c.counts[key], entry, ok
}

// remember mirrors entry in memory and writes it to the store.
// The mirror is updated even when the write fails.
func (c *Cache) remember(ctx context.Context, entry domain.CacheEntry) error {
	c.mu.Lock()
	c.entries[entry.Key] = entry
	c.mu.Unlock()

	if err := c.store.Put(ctx, entry); err != nil {
		c.metrics.ObserveStore(ports.StoreOperationPut, ports.StoreResultError)
		if !errors.Is(err, domain.ErrStoreUnavailable) {
			err = zerr.Wrap(errors.Join(domain.ErrStoreUnavailable, err), "failed to persist cache entry")
		}
		err = zerr.With(err, "key", entry.Key.String())
		c.logger.Warn("cache entry for " + entry.EntryPoint + " not persisted: " + err.Error())
		return err
	}
	c.metrics.ObserveStore(ports.StoreOperationPut, ports.StoreResultOK)
	return nil
}

func (c *Cache) lockFor(key domain.ContentKey) *sync.Mutex {
	return &c.stripes[xxhash.Sum64String(string(key))%lockStripes]
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, domain.ErrCompileFailed):
		return ports.OutcomeCompileError
	default:
		return ports.OutcomeRuntimeError
	}
}
