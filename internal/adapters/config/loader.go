// Package config provides the configuration loader for hotspot.
package config

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"

	"go.trai.ch/hotspot/internal/adapters/extractor"
	"go.trai.ch/hotspot/internal/adapters/logger"
	"go.trai.ch/hotspot/internal/core/domain"
	"go.trai.ch/hotspot/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	logger ports.Logger
}

// NewLoader creates a Loader.
func NewLoader(log ports.Logger) *Loader {
	return &Loader{logger: log}
}

// Load reads the configuration at path. A missing file yields domain.DefaultConfig.
func (l *Loader) Load(path string) (*domain.Config, error) {
	if path == "" {
		path = domain.DefaultConfigFile
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if errors.Is(err, fs.ErrNotExist) {
		l.logger.Debug("no config file at " + path + ", using defaults")
		return domain.DefaultConfig(), nil
	}
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read config file"), "path", path)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	l.logger.Debug("loaded config from " + path)
	return cfg, nil
}

// Parse decodes and validates a configuration document. Unset fields take their defaults.
func Parse(data []byte) (*domain.Config, error) {
	var file File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, zerr.Wrap(errors.Join(domain.ErrInvalidConfig, err), "failed to parse config file")
	}

	cfg := merge(domain.DefaultConfig(), &file)
	if err := validate(&file, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func merge(cfg *domain.Config, file *File) *domain.Config {
	if file.Language != "" {
		cfg.Language = strings.ToLower(file.Language)
	}
	cfg.EntryPattern = file.EntryPattern
	if file.WarmupRuns != nil {
		cfg.WarmupRuns = *file.WarmupRuns
	}

	tc := file.Toolchain
	if len(tc.Compile) > 0 {
		cfg.Toolchain.Compile = tc.Compile
	}
	if len(tc.Run) > 0 {
		cfg.Toolchain.Run = tc.Run
	}
	if tc.SourceExt != "" {
		cfg.Toolchain.SourceExt = tc.SourceExt
	}
	if tc.CompileTimeout != 0 {
		cfg.Toolchain.CompileTimeout = tc.CompileTimeout
	}
	if tc.RunTimeout != 0 {
		cfg.Toolchain.RunTimeout = tc.RunTimeout
	}
	cfg.Toolchain.WorkRoot = tc.WorkRoot
	cfg.Toolchain.Environment = tc.Environment

	if file.Store.Driver != "" {
		cfg.Store.Driver = NormalizeDriver(file.Store.Driver)
	}
	cfg.Store.Path = file.Store.Path

	if file.Log.Level != "" {
		cfg.Log.Level = file.Log.Level
	}
	if file.Log.Format != "" {
		cfg.Log.Format = strings.ToLower(file.Log.Format)
	}
	return cfg
}

// NormalizeDriver maps driver aliases to their canonical name.
func NormalizeDriver(driver string) string {
	switch d := strings.ToLower(driver); d {
	case "cas":
		return domain.StoreDriverFile
	case "sqlite3":
		return domain.StoreDriverSQLite
	default:
		return d
	}
}

func invalid(msg, field string, value any) error {
	return zerr.With(zerr.Wrap(domain.ErrInvalidConfig, msg), field, value)
}

func validate(file *File, cfg *domain.Config) error {
	if file.Version != "" && file.Version != SchemaVersion {
		return invalid("unsupported config version", "version", file.Version)
	}

	if _, err := extractor.ForLanguage(cfg.Language, cfg.EntryPattern); err != nil {
		if errors.Is(err, domain.ErrUnknownLanguage) {
			return invalid("unsupported language", "language", cfg.Language)
		}
		return err
	}

	if cfg.WarmupRuns < 1 {
		return invalid("warmup_runs must be at least 1", "warmup_runs", cfg.WarmupRuns)
	}

	if cfg.Toolchain.CompileTimeout < 0 {
		return invalid("compile_timeout must be positive", "compile_timeout", cfg.Toolchain.CompileTimeout.String())
	}
	if cfg.Toolchain.RunTimeout < 0 {
		return invalid("run_timeout must be positive", "run_timeout", cfg.Toolchain.RunTimeout.String())
	}

	if err := ValidateDriver(cfg.Store.Driver); err != nil {
		return err
	}

	if _, err := logger.ParseLevel(cfg.Log.Level); err != nil {
		return err
	}
	switch cfg.Log.Format {
	case logger.FormatText, logger.FormatJSON:
	default:
		return invalid("unsupported log format", "log.format", cfg.Log.Format)
	}

	return nil
}

// ValidateDriver reports whether driver names a supported store.
func ValidateDriver(driver string) error {
	switch driver {
	case domain.StoreDriverSQLite, domain.StoreDriverFile, domain.StoreDriverMemory:
		return nil
	default:
		return zerr.With(zerr.Wrap(domain.ErrUnknownStoreDriver, "unsupported store driver"), "driver", driver)
	}
}
