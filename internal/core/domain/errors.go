package domain

import "go.trai.ch/zerr"

var (
	// ErrEntryPointNotFound is returned when a code unit has no recognizable entry-point declaration.
	ErrEntryPointNotFound = zerr.New("entry point not found")

	// ErrCompileFailed is returned when the external compile step exits non-zero.
	ErrCompileFailed = zerr.New("compilation failed")

	// ErrRuntimeFailed is returned when the external run step exits non-zero or times out.
	ErrRuntimeFailed = zerr.New("runtime error")

	// ErrExecutionTimeout is returned alongside ErrRuntimeFailed when a toolchain step exceeds its timeout.
	ErrExecutionTimeout = zerr.New("execution timed out")

	// ErrStoreCorrupt is returned when a persistent store exists but cannot be read or parsed.
	ErrStoreCorrupt = zerr.New("cache store is corrupt")

	// ErrStoreUnavailable is returned when a cache entry cannot be written to the persistent store.
	ErrStoreUnavailable = zerr.New("cache store unavailable")

	// ErrNoSourcesSpecified is returned when the run command is invoked without source files.
	ErrNoSourcesSpecified = zerr.New("no source files specified")

	// ErrRunFailed is returned when at least one run of a batch did not succeed.
	ErrRunFailed = zerr.New("one or more runs failed")

	// ErrUnknownStoreDriver is returned when the configured store driver is not supported.
	ErrUnknownStoreDriver = zerr.New("unknown store driver")

	// ErrUnknownLanguage is returned when no entry-point extractor exists for the configured language.
	ErrUnknownLanguage = zerr.New("unknown source language")

	// ErrInvalidConfig is returned when the configuration file fails validation.
	ErrInvalidConfig = zerr.New("invalid configuration")
)
