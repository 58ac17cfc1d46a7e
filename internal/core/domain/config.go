package domain

import (
	"os"
	"path/filepath"
	"time"
)

const (
	// DefaultWarmupRuns is the number of executions a code unit receives before its
	// cached output is served on the optimized tier.
	DefaultWarmupRuns = 2

	// DefaultCompileTimeout bounds the external compile step.
	DefaultCompileTimeout = 60 * time.Second

	// DefaultRunTimeout bounds the external run step.
	DefaultRunTimeout = 30 * time.Second

	// DefaultConfigFile is the configuration file looked up when none is given.
	DefaultConfigFile = "hotspot.yaml"
)

// Store drivers.
const (
	StoreDriverSQLite = "sqlite"
	StoreDriverFile   = "file"
	StoreDriverMemory = "memory"
)

// Config is the validated runtime configuration.
type Config struct {
	Language     string
	EntryPattern string
	WarmupRuns   int
	Toolchain    ToolchainConfig
	Store        StoreConfig
	Log          LogConfig
}

// ToolchainConfig describes how the external compiler and runner are invoked.
// Command arguments may contain the placeholders {source}, {dir}, {entry} and {ext}.
type ToolchainConfig struct {
	Compile        []string
	Run            []string
	SourceExt      string
	CompileTimeout time.Duration
	RunTimeout     time.Duration
	WorkRoot       string
	Environment    map[string]string
}

// StoreConfig selects the persistent store variant.
type StoreConfig struct {
	Driver string
	Path   string
}

// LogConfig controls the logger adapter.
type LogConfig struct {
	Level  string
	Format string
}

// DefaultConfig returns the configuration used when no file is present.
// It targets a JDK on PATH and persists into the system temp directory.
func DefaultConfig() *Config {
	return &Config{
		Language:   "java",
		WarmupRuns: DefaultWarmupRuns,
		Toolchain: ToolchainConfig{
			Compile:        []string{"javac", "{source}"},
			Run:            []string{"java", "-cp", "{dir}", "{entry}"},
			SourceExt:      ".java",
			CompileTimeout: DefaultCompileTimeout,
			RunTimeout:     DefaultRunTimeout,
		},
		Store: StoreConfig{
			Driver: StoreDriverSQLite,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultStorePath returns the location used by a driver when no path is configured.
func DefaultStorePath(driver string) string {
	base := filepath.Join(os.TempDir(), "hotspot")
	switch driver {
	case StoreDriverFile:
		return filepath.Join(base, "entries")
	default:
		return filepath.Join(base, "hotspot.db")
	}
}
