package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Stage identifies the toolchain step that produced a failure.
type Stage string

const (
	// StageCompile is the external compile step.
	StageCompile Stage = "compile"
	// StageRun is the external run step.
	StageRun Stage = "run"
)

// ToolchainError describes a failed compile or run step.
// It unwraps to the stage sentinel (ErrCompileFailed or ErrRuntimeFailed) and to Cause.
type ToolchainError struct {
	Stage       Stage
	EntryPoint  string
	ExitCode    int
	Diagnostics string
	Cause       error
}

func (e *ToolchainError) Error() string {
	var b strings.Builder
	b.WriteString(e.sentinel().Error())
	fmt.Fprintf(&b, ": %s step for %q exited with code %d", e.Stage, e.EntryPoint, e.ExitCode)
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap exposes the stage sentinel and the underlying cause to errors.Is and errors.As.
func (e *ToolchainError) Unwrap() []error {
	errs := []error{e.sentinel()}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// A timeout or cancellation in either step counts as a runtime failure.
func (e *ToolchainError) sentinel() error {
	if e.Stage == StageCompile && !e.interrupted() {
		return ErrCompileFailed
	}
	return ErrRuntimeFailed
}

func (e *ToolchainError) interrupted() bool {
	return errors.Is(e.Cause, ErrExecutionTimeout) ||
		errors.Is(e.Cause, context.Canceled) ||
		errors.Is(e.Cause, context.DeadlineExceeded)
}
