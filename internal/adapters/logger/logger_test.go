package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/hotspot/internal/adapters/logger"
	"go.trai.ch/hotspot/internal/core/domain"
	"go.trai.ch/zerr"
)

func newBufferedLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")
	buf := &bytes.Buffer{}
	lg := logger.New()
	lg.SetOutput(buf)
	return lg, buf
}

func TestLogger_Levels(t *testing.T) {
	lg, buf := newBufferedLogger(t)

	lg.Debug("hidden detail")
	lg.Info("some message")
	lg.Warn("some warning")
	lg.Error(os.ErrPermission)

	out := buf.String()
	assert.NotContains(t, out, "hidden detail", "debug is filtered by default")
	assert.Contains(t, out, "some message\n")
	assert.Contains(t, out, "warning: some warning\n")
	assert.Contains(t, out, "Error: permission denied\n")
}

func TestLogger_SetLevel(t *testing.T) {
	lg, buf := newBufferedLogger(t)

	lg.SetLevel(slog.LevelDebug)
	lg.Debug("compiling AddTwo")
	assert.Contains(t, buf.String(), "compiling AddTwo")

	buf.Reset()
	lg.SetLevel(slog.LevelError)
	lg.Warn("dropped")
	assert.Empty(t, buf.String())
}

func TestLogger_SetJSON(t *testing.T) {
	lg, buf := newBufferedLogger(t)

	lg.SetJSON(true)
	lg.Info("json message")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "INFO", record["level"])
	assert.Equal(t, "json message", record["msg"])

	buf.Reset()
	lg.Error(errors.New("boom"))
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, "boom", record["error"])
}

func TestLogger_SetOutputPreservesJSON(t *testing.T) {
	lg, first := newBufferedLogger(t)
	lg.SetJSON(true)

	second := &bytes.Buffer{}
	lg.SetOutput(second)
	lg.Info("moved")

	assert.Empty(t, first.String())
	assert.True(t, strings.HasPrefix(second.String(), "{"), "expected JSON output, got %q", second.String())
}

func TestLogger_ErrorNil(t *testing.T) {
	lg, buf := newBufferedLogger(t)
	lg.Error(nil)
	assert.Empty(t, buf.String())
}

func TestLogger_ErrorChain(t *testing.T) {
	lg, buf := newBufferedLogger(t)

	err := zerr.Wrap(zerr.Wrap(errors.New("disk full"), "failed to persist cache entry"), "run failed")
	lg.Error(err)

	want := "Error: run failed\n\n  Caused by:\n    → failed to persist cache entry\n    → disk full\n"
	assert.Equal(t, want, buf.String())
}

func TestLogger_Apply(t *testing.T) {
	tests := []struct {
		name    string
		cfg     domain.LogConfig
		wantErr bool
		check   func(t *testing.T, lg *logger.Logger, buf *bytes.Buffer)
	}{
		{
			name: "debug text",
			cfg:  domain.LogConfig{Level: "debug", Format: "text"},
			check: func(t *testing.T, lg *logger.Logger, buf *bytes.Buffer) {
				t.Helper()
				lg.Debug("visible")
				assert.Equal(t, "visible\n", buf.String())
			},
		},
		{
			name: "json",
			cfg:  domain.LogConfig{Format: "JSON"},
			check: func(t *testing.T, lg *logger.Logger, buf *bytes.Buffer) {
				t.Helper()
				lg.Info("structured")
				assert.Contains(t, buf.String(), `"msg":"structured"`)
			},
		},
		{
			name: "empty keeps defaults",
			cfg:  domain.LogConfig{},
			check: func(t *testing.T, lg *logger.Logger, buf *bytes.Buffer) {
				t.Helper()
				lg.Debug("hidden")
				lg.Info("shown")
				assert.Equal(t, "shown\n", buf.String())
			},
		},
		{name: "bad level", cfg: domain.LogConfig{Level: "loud"}, wantErr: true},
		{name: "bad format", cfg: domain.LogConfig{Format: "xml"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newBufferedLogger(t)
			err := lg.Apply(tt.cfg)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			tt.check(t, lg, buf)
		})
	}
}

func TestCollectMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{name: "standard error", err: errors.New("simple error"), want: []string{"simple error"}},
		{name: "zerr single", err: zerr.New("zerr error"), want: []string{"zerr error"}},
		{
			name: "zerr wrapped chain",
			err:  zerr.Wrap(zerr.Wrap(errors.New("root cause"), "middle layer"), "outer layer"),
			want: []string{"outer layer", "middle layer", "root cause"},
		},
		{name: "nil", err: nil, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.CollectMessages(tt.err))
		})
	}
}

func TestFormatErrorChain(t *testing.T) {
	tests := []struct {
		name     string
		messages []string
		want     string
	}{
		{name: "single", messages: []string{"single error"}, want: "Error: single error"},
		{
			name:     "caused by",
			messages: []string{"outer error", "inner error"},
			want:     "Error: outer error\n\n  Caused by:\n    → inner error",
		},
		{
			name:     "multiline main",
			messages: []string{"Compilation failed:\nline2"},
			want:     "Error: Compilation failed:\n       line2",
		},
		{
			name:     "multiline cause",
			messages: []string{"main", "cause line1\ncause line2"},
			want:     "Error: main\n\n  Caused by:\n    → cause line1\n      cause line2",
		},
		{name: "empty", messages: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.FormatErrorChain(tt.messages))
		})
	}
}

func TestNew(t *testing.T) {
	require.NotNil(t, logger.New())
}
