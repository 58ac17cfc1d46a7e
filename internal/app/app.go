// Package app implements the application layer for hotspot.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"go.trai.ch/hotspot/internal/adapters/config" //nolint:depguard // Wired in app layer
	"go.trai.ch/hotspot/internal/adapters/extractor"
	"go.trai.ch/hotspot/internal/adapters/metrics"
	"go.trai.ch/hotspot/internal/adapters/toolchain"
	"go.trai.ch/hotspot/internal/core/domain"
	"go.trai.ch/hotspot/internal/core/ports"
	"go.trai.ch/hotspot/internal/engine/hotspot"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// DefaultRepeat is how many times each source file is run when no count is given.
// Two warm-up runs followed by two optimized runs.
const DefaultRepeat = 4

// StdinSource is the file argument that reads a code unit from standard input.
const StdinSource = "-"

// BackendFactory builds the execution backend from the loaded toolchain configuration.
type BackendFactory func(cfg domain.ToolchainConfig, log ports.Logger) ports.Backend

// logConfigurer is implemented by loggers that can be reconfigured at runtime.
type logConfigurer interface {
	Apply(cfg domain.LogConfig) error
	SetLevel(level slog.Level)
	SetJSON(enable bool)
}

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	recorder     *metrics.Recorder
	newBackend   BackendFactory
	stdout       io.Writer
	stdin        io.Reader
}

// New creates a new App instance.
func New(loader ports.ConfigLoader, log ports.Logger, recorder *metrics.Recorder) *App {
	return &App{
		configLoader: loader,
		logger:       log,
		recorder:     recorder,
		newBackend: func(cfg domain.ToolchainConfig, log ports.Logger) ports.Backend {
			return toolchain.NewExecutor(cfg, log)
		},
		stdout: os.Stdout,
		stdin:  os.Stdin,
	}
}

// WithOutput sets the writer results are printed to.
func (a *App) WithOutput(w io.Writer) *App {
	a.stdout = w
	return a
}

// WithInput sets the reader used for the "-" source argument.
func (a *App) WithInput(r io.Reader) *App {
	a.stdin = r
	return a
}

// WithBackendFactory replaces the toolchain backend.
// This is primarily used for testing without a JDK.
func (a *App) WithBackendFactory(f BackendFactory) *App {
	a.newBackend = f
	return a
}

// CommonOptions are shared by every command that touches the store.
type CommonOptions struct {
	ConfigPath  string
	StoreDriver string
	StorePath   string
	Verbose     bool
	JSON        bool
}

// RunOptions configuration for the Run method.
type RunOptions struct {
	CommonOptions
	Repeat     int
	Parallel   int
	Warmup     int
	ShowStats  bool
	MetricsOut string
}

type source struct {
	name string
	code string
}

// Run executes each source file opts.Repeat times through the hotspot cache and prints
// one line per run. It returns domain.ErrRunFailed when any run did not succeed.
func (a *App) Run(ctx context.Context, files []string, opts RunOptions) error {
	if len(files) == 0 {
		return domain.ErrNoSourcesSpecified
	}

	cfg, err := a.loadConfig(opts.CommonOptions)
	if err != nil {
		return err
	}
	if opts.Warmup > 0 {
		cfg.WarmupRuns = opts.Warmup
	}

	sources, err := a.readSources(files)
	if err != nil {
		return err
	}

	ex, err := extractor.ForLanguage(cfg.Language, cfg.EntryPattern)
	if err != nil {
		return zerr.Wrap(err, "failed to create entry-point extractor")
	}

	store, err := openStore(cfg.Store)
	if err != nil {
		return err
	}
	defer a.closeStore(store)

	cache, err := hotspot.New(ctx, a.newBackend(cfg.Toolchain, a.logger), store, ex, a.logger,
		hotspot.WithWarmupRuns(cfg.WarmupRuns),
		hotspot.WithMetrics(a.recorder),
	)
	if err != nil {
		return zerr.Wrap(err, "failed to initialize cache")
	}

	repeat := opts.Repeat
	if repeat < 1 {
		repeat = DefaultRepeat
	}

	var (
		failed atomic.Int64
		outMu  sync.Mutex
		g      errgroup.Group
	)
	if opts.Parallel > 0 {
		g.SetLimit(opts.Parallel)
	}

	for _, src := range sources {
		g.Go(func() error {
			for i := 1; i <= repeat; i++ {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				start := time.Now()
				res, runErr := cache.Run(ctx, src.code)
				elapsed := time.Since(start)
				if runErr != nil {
					failed.Add(1)
				}

				outMu.Lock()
				_, _ = fmt.Fprintf(a.stdout, "%s run %d: %s (%s)\n", src.name, i, domain.Describe(res, runErr), elapsed.Round(time.Microsecond))
				outMu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return zerr.Wrap(err, "run interrupted")
	}

	if opts.ShowStats {
		if err := a.printStats(); err != nil {
			return err
		}
	}
	if opts.MetricsOut != "" {
		if err := a.writeMetrics(opts.MetricsOut); err != nil {
			return err
		}
	}

	if n := failed.Load(); n > 0 {
		return zerr.With(zerr.Wrap(domain.ErrRunFailed, "batch finished with failures"), "failed_runs", n)
	}
	return nil
}

func (a *App) loadConfig(opts CommonOptions) (*domain.Config, error) {
	if lc, ok := a.logger.(logConfigurer); ok && opts.Verbose {
		lc.SetLevel(slog.LevelDebug)
	}

	cfg, err := a.configLoader.Load(opts.ConfigPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	if opts.StoreDriver != "" {
		cfg.Store.Driver = config.NormalizeDriver(opts.StoreDriver)
		if err := config.ValidateDriver(cfg.Store.Driver); err != nil {
			return nil, err
		}
	}
	if opts.StorePath != "" {
		cfg.Store.Path = opts.StorePath
	}

	if lc, ok := a.logger.(logConfigurer); ok {
		if err := lc.Apply(cfg.Log); err != nil {
			return nil, err
		}
		if opts.Verbose {
			lc.SetLevel(slog.LevelDebug)
		}
		if opts.JSON {
			lc.SetJSON(true)
		}
	}
	return cfg, nil
}

func (a *App) readSources(files []string) ([]source, error) {
	sources := make([]source, 0, len(files))
	for _, file := range files {
		var (
			data []byte
			err  error
		)
		if file == StdinSource {
			data, err = io.ReadAll(a.stdin)
		} else {
			data, err = os.ReadFile(file) //nolint:gosec // path is provided by user
		}
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to read source file"), "path", file)
		}

		name := file
		if file != StdinSource {
			name = filepath.Base(file)
		}
		sources = append(sources, source{name: name, code: string(data)})
	}
	return sources, nil
}

func (a *App) printStats() error {
	snap, err := a.recorder.Snapshot()
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(a.stdout, "runs: %d executed: %d optimized: %d failed: %d store errors: %d\n",
		snap.Total(), snap.Executed, snap.Optimized, snap.Failed, snap.StoreErrors)
	return nil
}

func (a *App) writeMetrics(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is provided by user
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create metrics file"), "path", path)
	}
	if err := a.recorder.WriteText(f); err != nil {
		_ = f.Close()
		return zerr.With(err, "path", path)
	}
	if err := f.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to close metrics file"), "path", path)
	}
	return nil
}

func (a *App) closeStore(store ports.EntryStore) {
	if err := store.Close(); err != nil {
		a.logger.Warn("failed to close cache store: " + err.Error())
	}
}
