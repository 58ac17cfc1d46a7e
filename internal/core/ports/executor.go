// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
)

// Backend compiles and runs a single code unit with the external toolchain.
//
// Implementations hold no caching knowledge. Every call works in its own freshly
// created directory, which is removed before the call returns.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Backend interface {
	// CompileAndRun writes code to a file named after entryPoint, compiles it, runs it and
	// returns its standard output trimmed of surrounding whitespace.
	//
	// Failures are reported as *domain.ToolchainError values wrapping
	// domain.ErrCompileFailed or domain.ErrRuntimeFailed.
	CompileAndRun(ctx context.Context, code, entryPoint string) (string, error)
}
