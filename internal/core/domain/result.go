package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Tier is the synthetic optimization label attached to a result.
type Tier string

const (
	// TierJIT labels results produced by a fresh compile-and-run.
	TierJIT Tier = "HOTSPOT JIT"
	// TierOptimized labels results served from the cache without invoking the toolchain.
	TierOptimized Tier = "HOTSPOT JIT - OPTIMIZED"
)

// Result is the outcome of a successful run of a code unit.
type Result struct {
	Key        ContentKey
	EntryPoint string
	Tier       Tier
	Output     string
	// Run is the hotness counter value for Key after this call, starting at 1.
	Run int
	// Executed reports whether the toolchain was invoked for this call.
	Executed bool
	// PersistErr is set when the result could not be written to the persistent store.
	// The result is still valid and mirrored in memory.
	PersistErr error
}

// String renders the result as "[<tier>] <output> (Run <n>)".
func (r Result) String() string {
	return fmt.Sprintf("[%s] %s (Run %d)", r.Tier, r.Output, r.Run)
}

// Describe renders the outcome of a run as a single caller-facing message.
// Failures are terminal for the call and rendered instead of a result.
func Describe(res Result, err error) string {
	if err != nil {
		return describeError(err)
	}
	if res.PersistErr != nil {
		return res.String() + "\nWARNING: result not persisted: " + res.PersistErr.Error()
	}
	return res.String()
}

func describeError(err error) string {
	if errors.Is(err, ErrEntryPointNotFound) {
		return "ERROR: Could not find entry point declaration"
	}

	var tcErr *ToolchainError
	if errors.As(err, &tcErr) {
		diagnostics := tcErr.Diagnostics
		if errors.Is(err, ErrExecutionTimeout) {
			diagnostics = strings.TrimSpace(diagnostics + "\n" + ErrExecutionTimeout.Error())
		}
		if errors.Is(err, ErrCompileFailed) {
			return "Compilation failed:\n" + diagnostics
		}
		return "Runtime error:\n" + diagnostics
	}

	return "ERROR: " + err.Error()
}
