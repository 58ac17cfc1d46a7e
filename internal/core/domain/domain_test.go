package domain_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/hotspot/internal/core/domain"
	"go.trai.ch/zerr"
)

const sample = `public class AddTwo {
    public static void main(String[] args) {
        System.out.println(2 + 2);
    }
}`

func TestNewContentKey_Deterministic(t *testing.T) {
	k1 := domain.NewContentKey(sample)
	k2 := domain.NewContentKey(strings.Clone(sample))

	assert.Equal(t, k1, k2)
	assert.Len(t, k1.String(), 64)
	// Known SHA-256 of the empty string pins the digest across releases.
	assert.Equal(t,
		domain.ContentKey("e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"),
		domain.NewContentKey(""),
	)
}

func TestNewContentKey_NearDuplicatesDiffer(t *testing.T) {
	variants := []string{
		sample,
		sample + " ",
		sample + "\n",
		" " + sample,
		strings.Replace(sample, "2 + 2", "2 + 3", 1),
		strings.Replace(sample, "AddTwo", "AddTwp", 1),
		strings.Replace(sample, "public class", "Public class", 1),
	}

	seen := make(map[domain.ContentKey]string, len(variants))
	for _, v := range variants {
		key := domain.NewContentKey(v)
		if prev, ok := seen[key]; ok {
			t.Fatalf("collision between %q and %q", prev, v)
		}
		seen[key] = v
	}
	assert.Len(t, seen, len(variants))
}

func TestContentKey_Short(t *testing.T) {
	key := domain.NewContentKey(sample)
	assert.Equal(t, key.String()[:12], key.Short())
	assert.Equal(t, "abc", domain.ContentKey("abc").Short())
}

func TestResult_String(t *testing.T) {
	res := domain.Result{Tier: domain.TierJIT, Output: "4", Run: 1}
	assert.Equal(t, "[HOTSPOT JIT] 4 (Run 1)", res.String())

	res = domain.Result{Tier: domain.TierOptimized, Output: "4", Run: 3}
	assert.Equal(t, "[HOTSPOT JIT - OPTIMIZED] 4 (Run 3)", res.String())
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		res  domain.Result
		err  error
		want string
	}{
		{
			name: "success",
			res:  domain.Result{Tier: domain.TierJIT, Output: "hi", Run: 2},
			want: "[HOTSPOT JIT] hi (Run 2)",
		},
		{
			name: "persist failure is a warning",
			res: domain.Result{
				Tier: domain.TierJIT, Output: "hi", Run: 1,
				PersistErr: errors.New("disk full"),
			},
			want: "[HOTSPOT JIT] hi (Run 1)\nWARNING: result not persisted: disk full",
		},
		{
			name: "entry point not found",
			err:  zerr.Wrap(domain.ErrEntryPointNotFound, "extract"),
			want: "ERROR: Could not find entry point declaration",
		},
		{
			name: "compile failure",
			err: &domain.ToolchainError{
				Stage: domain.StageCompile, ExitCode: 1, Diagnostics: "Main.java:1: error",
			},
			want: "Compilation failed:\nMain.java:1: error",
		},
		{
			name: "runtime failure",
			err: &domain.ToolchainError{
				Stage: domain.StageRun, ExitCode: 1, Diagnostics: "Exception in thread main",
			},
			want: "Runtime error:\nException in thread main",
		},
		{
			name: "compile timeout is a runtime failure",
			err: &domain.ToolchainError{
				Stage: domain.StageCompile, ExitCode: -1, Cause: domain.ErrExecutionTimeout,
			},
			want: "Runtime error:\nexecution timed out",
		},
		{
			name: "other error",
			err:  errors.New("boom"),
			want: "ERROR: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.Describe(tt.res, tt.err))
		})
	}
}

func TestToolchainError_Unwrap(t *testing.T) {
	cause := errors.New("exit status 2")
	err := error(&domain.ToolchainError{Stage: domain.StageCompile, EntryPoint: "Main", ExitCode: 2, Cause: cause})

	require.ErrorIs(t, err, domain.ErrCompileFailed)
	require.ErrorIs(t, err, cause)
	require.NotErrorIs(t, err, domain.ErrRuntimeFailed)
	assert.Contains(t, err.Error(), `compile step for "Main" exited with code 2`)

	cancelled := error(&domain.ToolchainError{Stage: domain.StageCompile, EntryPoint: "Main", ExitCode: -1, Cause: context.Canceled})
	require.ErrorIs(t, cancelled, domain.ErrRuntimeFailed)
	require.NotErrorIs(t, cancelled, domain.ErrCompileFailed)

	expired := error(&domain.ToolchainError{Stage: domain.StageCompile, EntryPoint: "Main", ExitCode: -1, Cause: context.DeadlineExceeded})
	require.ErrorIs(t, expired, domain.ErrRuntimeFailed)
	require.NotErrorIs(t, expired, domain.ErrCompileFailed)

	runErr := error(&domain.ToolchainError{Stage: domain.StageRun, EntryPoint: "Main", ExitCode: 1})
	require.ErrorIs(t, runErr, domain.ErrRuntimeFailed)
	require.NotErrorIs(t, runErr, domain.ErrCompileFailed)
}

func TestDefaultConfig(t *testing.T) {
	cfg := domain.DefaultConfig()
	assert.Equal(t, "java", cfg.Language)
	assert.Equal(t, domain.DefaultWarmupRuns, cfg.WarmupRuns)
	assert.Equal(t, domain.StoreDriverSQLite, cfg.Store.Driver)
	assert.Equal(t, []string{"javac", "{source}"}, cfg.Toolchain.Compile)
	assert.True(t, strings.HasSuffix(domain.DefaultStorePath(domain.StoreDriverSQLite), "hotspot.db"))
	assert.True(t, strings.HasSuffix(domain.DefaultStorePath(domain.StoreDriverFile), "entries"))
}
