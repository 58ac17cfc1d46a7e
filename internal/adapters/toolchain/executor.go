// Package toolchain provides the subprocess execution backend.
package toolchain

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.trai.ch/hotspot/internal/core/domain"
	"go.trai.ch/hotspot/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Backend = (*Executor)(nil)

// Executor implements ports.Backend by invoking an external compiler and runner.
type Executor struct {
	cfg    domain.ToolchainConfig
	logger ports.Logger
}

// NewExecutor creates an Executor. Missing settings fall back to the defaults of
// domain.DefaultConfig.
func NewExecutor(cfg domain.ToolchainConfig, logger ports.Logger) *Executor {
	defaults := domain.DefaultConfig().Toolchain
	if len(cfg.Compile) == 0 {
		cfg.Compile = defaults.Compile
	}
	if len(cfg.Run) == 0 {
		cfg.Run = defaults.Run
	}
	if cfg.SourceExt == "" {
		cfg.SourceExt = defaults.SourceExt
	}
	if cfg.CompileTimeout <= 0 {
		cfg.CompileTimeout = defaults.CompileTimeout
	}
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = defaults.RunTimeout
	}
	if !strings.HasPrefix(cfg.SourceExt, ".") {
		cfg.SourceExt = "." + cfg.SourceExt
	}
	return &Executor{cfg: cfg, logger: logger}
}

// CompileAndRun writes code to <dir>/<entryPoint><ext>, compiles it and runs it inside a
// directory private to this call. The directory is removed on every exit path.
func (e *Executor) CompileAndRun(ctx context.Context, code, entryPoint string) (string, error) {
	if entryPoint == "" || strings.ContainsAny(entryPoint, `/\`) || entryPoint == "." || entryPoint == ".." {
		return "", zerr.With(zerr.Wrap(domain.ErrEntryPointNotFound, "invalid entry point"), "entry_point", entryPoint)
	}

	dir, err := os.MkdirTemp(e.cfg.WorkRoot, "hotspot-*")
	if err != nil {
		return "", zerr.Wrap(err, "failed to create working directory")
	}
	defer func() {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			e.logger.Warn("failed to remove working directory " + dir + ": " + rmErr.Error())
		}
	}()

	source := filepath.Join(dir, entryPoint+e.cfg.SourceExt)
	if err := os.WriteFile(source, []byte(code), 0o600); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to write source file"), "path", source)
	}

	vars := placeholders{source: source, dir: dir, entry: entryPoint, ext: e.cfg.SourceExt}
	env := resolveEnvironment(os.Environ(), e.cfg.Environment)

	if _, err := e.step(ctx, domain.StageCompile, entryPoint, vars.expand(e.cfg.Compile), dir, env, e.cfg.CompileTimeout); err != nil {
		return "", err
	}
	e.logger.Debug("compiled " + entryPoint)

	stdout, err := e.step(ctx, domain.StageRun, entryPoint, vars.expand(e.cfg.Run), dir, env, e.cfg.RunTimeout)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(stdout), nil
}

// step runs one toolchain command with its own timeout and returns its stdout.
func (e *Executor) step(
	ctx context.Context,
	stage domain.Stage,
	entryPoint string,
	argv []string,
	dir string,
	env []string,
	timeout time.Duration,
) (string, error) {
	if len(argv) == 0 {
		return "", nil
	}

	stepCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	name := argv[0]
	executable := name
	if !filepath.IsAbs(name) {
		if lp, err := lookPath(name, env); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(stepCtx, executable, argv[1:]...) //nolint:gosec // Toolchain command from configuration
	if len(cmd.Args) > 0 {
		cmd.Args[0] = name
	}
	cmd.Dir = dir
	cmd.Env = env
	// Children holding the pipes open must not keep Wait blocked past the timeout.
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.String(), nil
	}

	tcErr := &domain.ToolchainError{
		Stage:       stage,
		EntryPoint:  entryPoint,
		ExitCode:    -1,
		Diagnostics: strings.TrimSpace(stderr.String()),
		Cause:       err,
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		tcErr.ExitCode = exitErr.ExitCode()
	}

	switch {
	case errors.Is(stepCtx.Err(), context.DeadlineExceeded):
		// Covers both the step timeout and an earlier deadline on ctx.
		tcErr.Cause = zerr.With(
			zerr.Wrap(errors.Join(domain.ErrExecutionTimeout, stepCtx.Err()), "toolchain step exceeded its deadline"),
			"timeout", timeout.String(),
		)
	case ctx.Err() != nil:
		tcErr.Cause = ctx.Err()
	}

	if tcErr.Diagnostics == "" && tcErr.ExitCode == -1 {
		tcErr.Diagnostics = err.Error()
	}

	e.logger.Debug(string(stage) + " step of " + entryPoint + " failed: " + err.Error())
	return "", tcErr
}

type placeholders struct {
	source string
	dir    string
	entry  string
	ext    string
}

// expand substitutes {source}, {dir}, {entry} and {ext} in every argument.
func (p placeholders) expand(argv []string) []string {
	r := strings.NewReplacer(
		"{source}", p.source,
		"{dir}", p.dir,
		"{entry}", p.entry,
		"{ext}", p.ext,
	)
	out := make([]string, len(argv))
	for i, arg := range argv {
		out[i] = r.Replace(arg)
	}
	return out
}

// resolveEnvironment overlays the configured variables on the system environment.
// A configured PATH is prepended to the system PATH so toolchain binaries win.
func resolveEnvironment(sysEnv []string, overrides map[string]string) []string {
	envMap := make(map[string]string, len(sysEnv)+len(overrides))
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if ok {
			envMap[k] = v
		}
	}

	for k, v := range overrides {
		if k == "PATH" {
			if sysPath, exists := envMap["PATH"]; exists && sysPath != "" {
				envMap[k] = v + string(os.PathListSeparator) + sysPath
				continue
			}
		}
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	slices.Sort(result)
	return result
}

// lookPath searches for an executable in the directories named by the PATH entry of env.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
