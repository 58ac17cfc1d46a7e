package config

import "time"

// SchemaVersion is the only configuration file version understood by the loader.
const SchemaVersion = "1"

// File represents the structure of the hotspot.yaml configuration file.
type File struct {
	Version      string       `yaml:"version"`
	Language     string       `yaml:"language"`
	EntryPattern string       `yaml:"entry_pattern"`
	WarmupRuns   *int         `yaml:"warmup_runs"`
	Toolchain    ToolchainDTO `yaml:"toolchain"`
	Store        StoreDTO     `yaml:"store"`
	Log          LogDTO       `yaml:"log"`
}

// ToolchainDTO represents the toolchain section of the configuration.
type ToolchainDTO struct {
	Compile        []string          `yaml:"compile"`
	Run            []string          `yaml:"run"`
	SourceExt      string            `yaml:"source_ext"`
	CompileTimeout time.Duration     `yaml:"compile_timeout"`
	RunTimeout     time.Duration     `yaml:"run_timeout"`
	WorkRoot       string            `yaml:"work_root"`
	Environment    map[string]string `yaml:"environment"`
}

// StoreDTO represents the store section of the configuration.
type StoreDTO struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

// LogDTO represents the log section of the configuration.
type LogDTO struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}
